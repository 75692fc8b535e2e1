// Package infrastructure assembles the shared systems domain packages depend
// on: lifecycle coordination, logging, database, blob storage, and the
// extraction client.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/cascade/internal/config"
	"github.com/JaimeStill/cascade/internal/extraction"
	"github.com/JaimeStill/cascade/pkg/database"
	"github.com/JaimeStill/cascade/pkg/lifecycle"
	"github.com/JaimeStill/cascade/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Extractor extraction.Extractor
}

// New initializes every system without starting it; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	extractor := extraction.NewClient(
		cfg.Extraction.Endpoint,
		cfg.Extraction.Token,
		cfg.Extraction.TimeoutDuration(),
		logger,
	)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Extractor: extractor,
	}, nil
}

// Start registers database and storage hooks with the lifecycle coordinator.
// Readiness waits on the database connection.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	i.Lifecycle.Track(i.Database)

	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
