package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/cascade/internal/config"
	"github.com/JaimeStill/cascade/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "CASCADE_DB_DSN"

const usage = `usage: migrate [-dsn url] <command>

commands:
  up          apply all pending migrations
  down        revert all migrations
  steps N     apply N migrations (negative reverts)
  version     print the current version
  force N     set the version without running migrations
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dsn := flag.String("dsn", "", "postgres:// connection url (defaults to CASCADE_DB_DSN, then CASCADE_DB_*)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	url, err := resolveDSN(*dsn)
	if err != nil {
		logger.Error("resolve connection", "error", err)
		os.Exit(1)
	}

	if err := run(url, flag.Args(), logger); err != nil {
		logger.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg := database.Config{Name: "cascade", User: "cascade", Password: "cascade"}
	if err := cfg.Finalize(config.DatabaseEnv()); err != nil {
		return "", err
	}
	return cfg.URL(), nil
}

func run(url string, args []string, logger *slog.Logger) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return ignoreNoChange(m.Steps(n))
	case "force":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a number", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", args[0], err)
	}
	return n, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
