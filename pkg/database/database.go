// Package database opens and manages the SQL connection pool shared by repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/djedi/pkg/lifecycle"
)

// ErrNotReady is returned when the connection is used before Start.
var ErrNotReady = errors.New("database not ready")

// System owns the connection pool and the SQL dialect for the configured driver.
type System interface {
	Connection() *sql.DB
	Driver() string
	Rebind(query string) string
	Start(lc *lifecycle.Coordinator) error
	Ping(ctx context.Context) error
	Close() error
}

type database struct {
	cfg    *Config
	conn   *sql.DB
	logger *slog.Logger
}

// New opens a pool for cfg. The pool is not verified until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	conn, err := sql.Open(cfg.DriverName(), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// SQLite allows a single writer.
	if cfg.Driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	return &database{
		cfg:    cfg,
		conn:   conn,
		logger: logger.With("system", "database", "driver", cfg.Driver),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Driver() string {
	return d.cfg.Driver
}

// Rebind rewrites ? placeholders to $n for postgres. SQLite queries pass through.
func (d *database) Rebind(query string) string {
	return Rebind(d.cfg.Driver, query)
}

func (d *database) Ping(ctx context.Context) error {
	if d.conn == nil {
		return ErrNotReady
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.ConnTimeoutDuration())
	defer cancel()
	return d.conn.PingContext(ctx)
}

// Start verifies connectivity and registers pool shutdown with lc.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	if err := d.Ping(lc.Context()); err != nil {
		return fmt.Errorf("ping %s: %w", d.cfg.Driver, err)
	}
	d.logger.Info("database connected")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) Close() error {
	return d.conn.Close()
}

// Rebind rewrites ? placeholders for driver. Placeholders inside single-quoted
// literals are left alone.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			quoted = !quoted
			b.WriteByte(ch)
		case ch == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
