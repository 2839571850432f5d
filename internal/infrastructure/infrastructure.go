// Package infrastructure assembles the systems every domain module depends on:
// lifecycle coordination, logging and the node database.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/pkg/database"
	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/logging"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
	}, nil
}

// Start connects the database and registers its shutdown with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
