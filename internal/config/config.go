// Package config loads the Cascade service configuration from config.toml, an
// optional config.<env>.toml overlay, and CASCADE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/cascade/pkg/database"
	"github.com/JaimeStill/cascade/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCascadeEnv             = "CASCADE_ENV"
	EnvCascadeShutdownTimeout = "CASCADE_SHUTDOWN_TIMEOUT"
	EnvCascadeVersion         = "CASCADE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CASCADE_DB_HOST",
	Port:            "CASCADE_DB_PORT",
	Name:            "CASCADE_DB_NAME",
	User:            "CASCADE_DB_USER",
	Password:        "CASCADE_DB_PASSWORD",
	SSLMode:         "CASCADE_DB_SSL_MODE",
	MaxOpenConns:    "CASCADE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CASCADE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CASCADE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CASCADE_DB_CONN_TIMEOUT",
}

// DatabaseEnv returns the environment variable names of the database section.
func DatabaseEnv() *database.Env {
	return databaseEnv
}

var storageEnv = &storage.Env{
	ContainerName:    "CASCADE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CASCADE_STORAGE_CONNECTION_STRING",
	ServiceURL:       "CASCADE_STORAGE_SERVICE_URL",
}

// Config is the root configuration for the Cascade service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Extraction      ExtractionConfig `toml:"extraction"`
	Automation      AutomationConfig `toml:"automation"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CASCADE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCascadeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml when present, merges the environment overlay, and
// finalizes every section. Without any file, defaults and environment
// variables supply the whole configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		base, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = base
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Extraction.Merge(&overlay.Extraction)
	c.Automation.Merge(&overlay.Automation)
}

func (c *Config) finalize() error {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if v := os.Getenv(EnvCascadeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCascadeVersion); v != "" {
		c.Version = v
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"extraction", c.Extraction.Finalize},
		{"automation", c.Automation.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvCascadeEnv)
	if env == "" {
		return ""
	}
	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
