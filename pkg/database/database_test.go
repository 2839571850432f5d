package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/djedi/pkg/database"
	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/logging"
)

func TestErrNotReady_Defined(t *testing.T) {
	if database.ErrNotReady.Error() != "database not ready" {
		t.Errorf("ErrNotReady.Error() = %q, want %q", database.ErrNotReady.Error(), "database not ready")
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			"postgres",
			database.DriverPostgres,
			"SELECT * FROM nodes WHERE key = ? AND version = ?",
			"SELECT * FROM nodes WHERE key = $1 AND version = $2",
		},
		{
			"postgres literal",
			database.DriverPostgres,
			"SELECT '?' FROM nodes WHERE key = ?",
			"SELECT '?' FROM nodes WHERE key = $1",
		},
		{
			"sqlite",
			database.DriverSQLite,
			"SELECT * FROM nodes WHERE key = ?",
			"SELECT * FROM nodes WHERE key = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := database.Rebind(tt.driver, tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr bool
	}{
		{"postgres requires name", database.Config{User: "djedi"}, true},
		{"postgres valid", database.Config{Name: "djedi", User: "djedi"}, false},
		{"sqlite default path", database.Config{Driver: database.DriverSQLite}, false},
		{"unknown driver", database.Config{Driver: "oracle"}, true},
		{"bad duration", database.Config{Driver: database.DriverSQLite, ConnTimeout: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "sqlite")
	t.Setenv("TEST_DB_PATH", "/tmp/nodes.db")

	cfg := &database.Config{}
	env := &database.Env{Driver: "TEST_DB_DRIVER", Path: "TEST_DB_PATH"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Driver != database.DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.Path != "/tmp/nodes.db" {
		t.Errorf("Path = %q, want /tmp/nodes.db", cfg.Path)
	}
}

func TestSystem_StartSQLite(t *testing.T) {
	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "djedi.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	db, err := database.New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := db.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
