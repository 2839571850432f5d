package nodes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/djedi/pkg/database"
	"github.com/JaimeStill/djedi/pkg/repository"
)

// Repository persists node versions.
type Repository interface {
	// Published returns the published node for each key that has one.
	Published(ctx context.Context, keys []string) ([]Node, error)

	// Version returns one version of key. Returns ErrNotFound if it does not exist.
	Version(ctx context.Context, key, version string) (*Node, error)

	// Save stores a new version. Returns ErrDuplicate if the version exists.
	Save(ctx context.Context, p SaveParams) (*Node, error)

	// Publish makes version the only published version of key.
	Publish(ctx context.Context, key, version string) (*Node, error)

	// Versions lists every version of key, newest first.
	Versions(ctx context.Context, key string) ([]Node, error)

	// Delete removes one version of key.
	Delete(ctx context.Context, key, version string) error
}

const columns = `id, key, content, plugin, version, is_published, meta, modified_at`

type repo struct {
	db     database.System
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository creates a SQL node repository on db.
func NewRepository(db database.System, logger *slog.Logger) Repository {
	return &repo{
		db:     db,
		logger: logger.With("system", "nodes.repository"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func scanNode(s repository.Scanner) (Node, error) {
	var (
		n    Node
		meta sql.NullString
	)
	err := s.Scan(&n.ID, &n.Key, &n.Content, &n.Plugin, &n.Version, &n.Published, &meta, &n.ModifiedAt)
	n.Meta = meta.String
	return n, err
}

// publishedBatchSize caps the keys per published lookup query. Postgres
// rejects statements with more than 65535 parameters.
const publishedBatchSize = 500

func (r *repo) Published(ctx context.Context, keys []string) ([]Node, error) {
	var nodes []Node
	for batch := range slices.Chunk(keys, publishedBatchSize) {
		found, err := r.published(ctx, batch)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, found...)
	}
	return nodes, nil
}

func (r *repo) published(ctx context.Context, keys []string) ([]Node, error) {
	q := r.db.Rebind(`SELECT ` + columns + ` FROM nodes WHERE is_published = ? AND key IN (` +
		repository.Placeholders(len(keys)) + `)`)

	args := make([]any, 0, len(keys)+1)
	args = append(args, true)
	for _, k := range keys {
		args = append(args, k)
	}

	nodes, err := repository.QueryMany(ctx, r.db.Connection(), q, args, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query published nodes: %w", err)
	}
	return nodes, nil
}

func (r *repo) Version(ctx context.Context, key, version string) (*Node, error) {
	q := r.db.Rebind(`SELECT ` + columns + ` FROM nodes WHERE key = ? AND version = ?`)

	n, err := repository.QueryOne(ctx, r.db.Connection(), q, []any{key, version}, scanNode)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &n, nil
}

func (r *repo) Save(ctx context.Context, p SaveParams) (*Node, error) {
	n, err := repository.WithTx(ctx, r.db.Connection(), func(tx *sql.Tx) (*Node, error) {
		if p.Version == "" {
			next, err := r.nextVersion(ctx, tx, p.Key)
			if err != nil {
				return nil, err
			}
			p.Version = next
		}

		if p.Publish {
			if err := r.unpublish(ctx, tx, p.Key); err != nil {
				return nil, err
			}
		}

		n := Node{
			ID:         uuid.New(),
			Key:        p.Key,
			Content:    p.Content,
			Plugin:     p.Plugin,
			Version:    p.Version,
			Published:  p.Publish,
			Meta:       p.Meta,
			ModifiedAt: r.now(),
		}

		q := r.db.Rebind(`INSERT INTO nodes (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		_, err := tx.ExecContext(ctx, q,
			n.ID, n.Key, n.Content, n.Plugin, n.Version, n.Published, nullString(n.Meta), n.ModifiedAt,
		)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return &n, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("node saved", "key", n.Key, "version", n.Version, "published", n.Published)
	return n, nil
}

func (r *repo) Publish(ctx context.Context, key, version string) (*Node, error) {
	n, err := repository.WithTx(ctx, r.db.Connection(), func(tx *sql.Tx) (*Node, error) {
		if err := r.unpublish(ctx, tx, key); err != nil {
			return nil, err
		}

		q := r.db.Rebind(`UPDATE nodes SET is_published = ?, modified_at = ? WHERE key = ? AND version = ?`)
		result, err := tx.ExecContext(ctx, q, true, r.now(), key, version)
		if err != nil {
			return nil, fmt.Errorf("publish node: %w", err)
		}
		if rows, err := result.RowsAffected(); err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		} else if rows == 0 {
			return nil, ErrNotFound
		}

		q = r.db.Rebind(`SELECT ` + columns + ` FROM nodes WHERE key = ? AND version = ?`)
		n, err := repository.QueryOne(ctx, tx, q, []any{key, version}, scanNode)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return &n, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("node published", "key", key, "version", version)
	return n, nil
}

func (r *repo) Versions(ctx context.Context, key string) ([]Node, error) {
	q := r.db.Rebind(`SELECT ` + columns + ` FROM nodes WHERE key = ? ORDER BY modified_at DESC, version DESC`)

	nodes, err := repository.QueryMany(ctx, r.db.Connection(), q, []any{key}, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query node versions: %w", err)
	}
	return nodes, nil
}

func (r *repo) Delete(ctx context.Context, key, version string) error {
	q := r.db.Rebind(`DELETE FROM nodes WHERE key = ? AND version = ?`)

	result, err := r.db.Connection().ExecContext(ctx, q, key, version)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	r.logger.Info("node deleted", "key", key, "version", version)
	return nil
}

func (r *repo) unpublish(ctx context.Context, tx *sql.Tx, key string) error {
	q := r.db.Rebind(`UPDATE nodes SET is_published = ? WHERE key = ? AND is_published = ?`)
	if _, err := tx.ExecContext(ctx, q, false, key, true); err != nil {
		return fmt.Errorf("unpublish node: %w", err)
	}
	return nil
}

// nextVersion returns one past the highest numeric version of key. Named
// versions such as "draft" are ignored.
func (r *repo) nextVersion(ctx context.Context, tx *sql.Tx, key string) (string, error) {
	q := r.db.Rebind(`SELECT version FROM nodes WHERE key = ?`)

	versions, err := repository.QueryMany(ctx, tx, q, []any{key}, func(s repository.Scanner) (string, error) {
		var v string
		err := s.Scan(&v)
		return v, err
	})
	if err != nil {
		return "", fmt.Errorf("query versions: %w", err)
	}

	numbers := make([]int, 0, len(versions))
	for _, v := range versions {
		if n, err := strconv.Atoi(v); err == nil {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	next := 1
	if len(numbers) > 0 {
		next = numbers[len(numbers)-1] + 1
	}
	return strconv.Itoa(next), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
