package nodes_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JaimeStill/djedi/internal/nodes"
	"github.com/JaimeStill/djedi/pkg/logging"
)

func TestRepository_SaveAutoVersion(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()

	for i, want := range []string{"1", "2", "3"} {
		n, err := repo.Save(ctx, nodes.SaveParams{Key: "en-us@page/title", Plugin: "txt", Content: "v"})
		if err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
		if n.Version != want {
			t.Errorf("Save() #%d version = %q, want %q", i, n.Version, want)
		}
	}

	if _, err := repo.Save(ctx, nodes.SaveParams{Key: "en-us@page/title", Plugin: "txt", Version: "draft"}); err != nil {
		t.Fatalf("Save(draft) error = %v", err)
	}
	n, err := repo.Save(ctx, nodes.SaveParams{Key: "en-us@page/title", Plugin: "txt"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n.Version != "4" {
		t.Errorf("version after draft = %q, want 4", n.Version)
	}
}

func TestRepository_SaveDuplicate(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()

	p := nodes.SaveParams{Key: "en-us@page/title", Plugin: "txt", Version: "draft"}
	if _, err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.Save(ctx, p); !errors.Is(err, nodes.ErrDuplicate) {
		t.Errorf("Save() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestRepository_PublishSingleVersion(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()
	key := "en-us@page/title"

	if _, err := repo.Save(ctx, nodes.SaveParams{Key: key, Plugin: "txt", Content: "one", Publish: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.Save(ctx, nodes.SaveParams{Key: key, Plugin: "md", Content: "two"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	published, err := repo.Published(ctx, []string{key, "en-us@missing"})
	if err != nil {
		t.Fatalf("Published() error = %v", err)
	}
	if len(published) != 1 || published[0].Content != "one" {
		t.Fatalf("Published() = %+v, want version 1", published)
	}

	n, err := repo.Publish(ctx, key, "2")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !n.Published || n.Plugin != "md" {
		t.Errorf("Publish() = %+v, want published md node", n)
	}

	published, err = repo.Published(ctx, []string{key})
	if err != nil {
		t.Fatalf("Published() error = %v", err)
	}
	if len(published) != 1 || published[0].Version != "2" {
		t.Errorf("Published() = %+v, want only version 2", published)
	}

	versions, err := repo.Versions(ctx, key)
	if err != nil {
		t.Fatalf("Versions() error = %v", err)
	}
	count := 0
	for _, v := range versions {
		if v.Published {
			count++
		}
	}
	if len(versions) != 2 || count != 1 {
		t.Errorf("Versions() = %d versions with %d published, want 2 with 1", len(versions), count)
	}
}

func TestRepository_PublishMissingKeepsCurrent(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()
	key := "en-us@page/title"

	if _, err := repo.Save(ctx, nodes.SaveParams{Key: key, Plugin: "txt", Publish: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.Publish(ctx, key, "9"); !errors.Is(err, nodes.ErrNotFound) {
		t.Fatalf("Publish() error = %v, want ErrNotFound", err)
	}

	published, err := repo.Published(ctx, []string{key})
	if err != nil {
		t.Fatalf("Published() error = %v", err)
	}
	if len(published) != 1 {
		t.Error("failed publish must not unpublish the current version")
	}
}

func TestRepository_VersionAndDelete(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()
	key := "sv@page/title"

	saved, err := repo.Save(ctx, nodes.SaveParams{Key: key, Plugin: "txt", Content: "Hej", Meta: `{"author":"a"}`})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Version(ctx, key, saved.Version)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got.ID != saved.ID || got.Content != "Hej" || got.Meta != `{"author":"a"}` {
		t.Errorf("Version() = %+v, want %+v", got, saved)
	}
	if got.Namespace() != "sv" {
		t.Errorf("Namespace() = %q, want sv", got.Namespace())
	}

	if err := repo.Delete(ctx, key, saved.Version); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Version(ctx, key, saved.Version); !errors.Is(err, nodes.ErrNotFound) {
		t.Errorf("Version() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, key, saved.Version); !errors.Is(err, nodes.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestRepository_PublishedManyKeys(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())
	ctx := context.Background()

	keys := make([]string, 40000)
	for i := range keys {
		keys[i] = fmt.Sprintf("en-us@page/%d", i)
	}

	for _, key := range []string{keys[0], keys[499], keys[500], keys[len(keys)-1]} {
		if _, err := repo.Save(ctx, nodes.SaveParams{Key: key, Plugin: "txt", Content: key, Publish: true}); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	published, err := repo.Published(ctx, keys)
	if err != nil {
		t.Fatalf("Published() error = %v", err)
	}
	if len(published) != 4 {
		t.Fatalf("Published() returned %d nodes, want 4", len(published))
	}

	found := make(map[string]bool)
	for _, n := range published {
		found[n.Key] = true
	}
	for _, key := range []string{keys[0], keys[499], keys[500], keys[len(keys)-1]} {
		if !found[key] {
			t.Errorf("Published() missing %s", key)
		}
	}
}

func TestRepository_PublishedNoKeys(t *testing.T) {
	repo := nodes.NewRepository(newDatabase(t), logging.Discard())

	published, err := repo.Published(context.Background(), nil)
	if err != nil {
		t.Fatalf("Published() error = %v", err)
	}
	if len(published) != 0 {
		t.Errorf("Published() = %+v, want none", published)
	}
}
