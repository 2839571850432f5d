// Package migrations applies the embedded schema for the configured database driver.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/JaimeStill/djedi/pkg/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up applies all pending migrations. It opens a dedicated connection so the
// migrator can close it without affecting the service pool.
func Up(cfg *database.Config, logger *slog.Logger) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema up to date", "driver", cfg.Driver)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("schema migrated", "driver", cfg.Driver, "version", version)
	return nil
}

// Down reverts every applied migration.
func Down(cfg *database.Config, logger *slog.Logger) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revert migrations: %w", err)
	}
	logger.Info("schema reverted", "driver", cfg.Driver)
	return nil
}

func newMigrate(cfg *database.Config) (*migrate.Migrate, error) {
	src, err := iofs.New(files, cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	db, err := sql.Open(cfg.DriverName(), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	var driver migratedb.Driver
	switch cfg.Driver {
	case database.DriverSQLite:
		driver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}
