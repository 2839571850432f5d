package nodes_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/djedi/internal/migrations"
	"github.com/JaimeStill/djedi/internal/nodes"
	"github.com/JaimeStill/djedi/pkg/database"
	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/logging"
	"github.com/JaimeStill/djedi/pkg/plugins"
	"github.com/JaimeStill/djedi/pkg/uri"
)

func ptr(s string) *string { return &s }

// newDatabase migrates a fresh SQLite database in a temp dir and starts it.
func newDatabase(t *testing.T) database.System {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "djedi.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	logger := logging.Discard()
	if err := migrations.Up(cfg, logger); err != nil {
		t.Fatalf("migrations.Up() error = %v", err)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := db.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { lc.Shutdown(5 * time.Second) })

	return db
}

func newSystem(t *testing.T, repo nodes.Repository, fallbacks ...string) (nodes.System, *nodes.Cache) {
	t.Helper()
	cache := nodes.NewCache(time.Minute, 100)
	sys := nodes.New(repo, cache, plugins.Default(), nodes.Options{
		Defaults:       uri.Defaults{Scheme: "i18n", Namespace: "en-us", Ext: "txt"},
		Fallbacks:      fallbacks,
		MaxConcurrency: 4,
	}, logging.Discard())
	return sys, cache
}
