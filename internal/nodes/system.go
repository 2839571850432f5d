// Package nodes resolves, stores and publishes content nodes.
package nodes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/metrics"
	"github.com/JaimeStill/djedi/pkg/plugins"
	"github.com/JaimeStill/djedi/pkg/uri"
)

// System is the node content API used by the HTTP handler and the CLI.
type System interface {
	// Load resolves each requested URI to rendered content. Keys of the
	// result are response URIs; values are nil when nothing was found and no
	// default was given. Raw URIs that resolve to the same URI share one
	// result, using the default of the first raw URI in sorted order.
	Load(ctx context.Context, defaults map[string]*string) (map[string]*string, error)

	// Get returns the node addressed by raw: the given version, or the
	// published version when raw has none.
	Get(ctx context.Context, raw string) (*Node, error)

	Save(ctx context.Context, cmd SaveCommand) (*Node, error)

	// Publish makes the version in raw the published one.
	Publish(ctx context.Context, raw string) (*Node, error)

	Versions(ctx context.Context, raw string) ([]Node, error)

	// Delete removes the version in raw.
	Delete(ctx context.Context, raw string) error

	Start(lc *lifecycle.Coordinator)
}

// Options configures URI resolution.
type Options struct {
	Defaults       uri.Defaults
	Fallbacks      []string
	MaxConcurrency int
}

type system struct {
	repo    Repository
	cache   *Cache
	plugins *plugins.Registry
	opts    Options
	logger  *slog.Logger
}

func New(repo Repository, cache *Cache, registry *plugins.Registry, opts Options, logger *slog.Logger) System {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &system{
		repo:    repo,
		cache:   cache,
		plugins: registry,
		opts:    opts,
		logger:  logger.With("system", "nodes"),
	}
}

func (s *system) Start(lc *lifecycle.Coordinator) {
	s.cache.Start(lc)
}

// request is one URI being resolved by Load.
type request struct {
	uri        uri.URI
	def        *string
	candidates []string
	node       *Node
	source     string
}

func (s *system) Load(ctx context.Context, defaults map[string]*string) (map[string]*string, error) {
	reqs := make([]*request, 0, len(defaults))
	seen := make(map[string]bool, len(defaults))
	for _, raw := range slices.Sorted(maps.Keys(defaults)) {
		u, err := s.resolve(raw)
		if err != nil {
			return nil, err
		}
		if seen[u.String()] {
			continue
		}
		seen[u.String()] = true
		reqs = append(reqs, &request{uri: u, def: defaults[raw]})
	}

	if err := s.lookupPublished(ctx, reqs); err != nil {
		return nil, err
	}
	if err := s.lookupVersioned(ctx, reqs); err != nil {
		return nil, err
	}

	out := make(map[string]*string, len(reqs))
	for _, req := range reqs {
		key, content, err := s.render(req)
		if err != nil {
			return nil, err
		}
		out[key] = content
		metrics.RecordNodeResolved(req.source)
	}
	return out, nil
}

func (s *system) resolve(raw string) (uri.URI, error) {
	u, err := uri.Parse(raw)
	if err != nil {
		return uri.URI{}, err
	}
	u = u.Resolve(s.opts.Defaults)
	if u.Scheme == uri.SchemeI18N {
		u.Namespace = strings.ToLower(u.Namespace)
	}
	if _, err := s.plugins.Resolve(u.Ext); err != nil {
		return uri.URI{}, fmt.Errorf("%s: %w", raw, err)
	}
	return u, nil
}

// lookupPublished resolves unversioned requests from the cache and then from
// one batched storage query for every uncached candidate key.
func (s *system) lookupPublished(ctx context.Context, reqs []*request) error {
	type hit struct {
		node   *Node
		source string
	}
	known := make(map[string]hit)
	gens := make(map[string]uint64)
	var missing []string

	for _, req := range reqs {
		if req.uri.Versioned() {
			continue
		}
		for _, ns := range uri.Namespaces(req.uri, s.opts.Fallbacks) {
			key := req.uri.WithNamespace(ns).Key()
			req.candidates = append(req.candidates, key)
			if _, ok := known[key]; ok {
				continue
			}
			if n, ok := s.cache.Lookup(key); ok {
				known[key] = hit{node: n, source: metrics.SourceCache}
				continue
			}
			known[key] = hit{}
			gens[key] = s.cache.Generation(key)
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		found, err := s.repo.Published(ctx, missing)
		if err != nil {
			return err
		}
		for i := range found {
			known[found[i].Key] = hit{node: &found[i], source: metrics.SourceStorage}
		}
		for _, key := range missing {
			if !s.cache.Store(key, known[key].node, gens[key]) {
				s.logger.Debug("skipped stale cache entry", "key", key)
			}
		}
	}

	for _, req := range reqs {
		for _, key := range req.candidates {
			if h := known[key]; h.node != nil {
				req.node, req.source = h.node, h.source
				break
			}
		}
	}
	return nil
}

// lookupVersioned reads pinned versions concurrently. They are not cached.
func (s *system) lookupVersioned(ctx context.Context, reqs []*request) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for _, req := range reqs {
		if !req.uri.Versioned() {
			continue
		}
		g.Go(func() error {
			n, err := s.repo.Version(ctx, req.uri.Key(), req.uri.Version)
			switch {
			case err == nil:
				req.node, req.source = n, metrics.SourceStorage
				return nil
			case errors.Is(err, ErrNotFound):
				return nil
			default:
				return err
			}
		})
	}
	return g.Wait()
}

func (s *system) render(req *request) (string, *string, error) {
	if req.node == nil {
		req.source = metrics.SourceDefault
		p, err := s.plugins.Resolve(req.uri.Ext)
		if err != nil {
			return "", nil, err
		}
		content, err := p.Render(req.def)
		if err != nil {
			return "", nil, fmt.Errorf("render default %s: %w", req.uri, err)
		}
		return req.uri.String(), content, nil
	}

	p, err := s.plugins.Resolve(req.node.Plugin)
	if err != nil {
		return "", nil, fmt.Errorf("node %s@%s: %w", req.node.Key, req.node.Version, err)
	}
	content, err := p.Render(&req.node.Content)
	if err != nil {
		return "", nil, fmt.Errorf("render node %s@%s: %w", req.node.Key, req.node.Version, err)
	}
	return req.node.URI(req.uri).String(), content, nil
}

func (s *system) Get(ctx context.Context, raw string) (*Node, error) {
	u, err := s.resolve(raw)
	if err != nil {
		return nil, err
	}
	if u.Versioned() {
		return s.repo.Version(ctx, u.Key(), u.Version)
	}

	found, err := s.repo.Published(ctx, []string{u.Key()})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (s *system) Save(ctx context.Context, cmd SaveCommand) (*Node, error) {
	u, err := s.resolve(cmd.URI)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.Save(ctx, SaveParams{
		Key:     u.Key(),
		Plugin:  u.Ext,
		Version: u.Version,
		Content: cmd.Content,
		Meta:    cmd.Meta,
		Publish: cmd.Publish,
	})
	if err != nil {
		return nil, err
	}
	if n.Published {
		s.cache.Invalidate(n.Key)
	}
	return n, nil
}

func (s *system) Publish(ctx context.Context, raw string) (*Node, error) {
	u, err := s.resolve(raw)
	if err != nil {
		return nil, err
	}
	if !u.Versioned() {
		return nil, ErrVersionRequired
	}

	n, err := s.repo.Publish(ctx, u.Key(), u.Version)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(n.Key)
	return n, nil
}

func (s *system) Versions(ctx context.Context, raw string) ([]Node, error) {
	u, err := s.resolve(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.Versions(ctx, u.Key())
}

func (s *system) Delete(ctx context.Context, raw string) error {
	u, err := s.resolve(raw)
	if err != nil {
		return err
	}
	if !u.Versioned() {
		return ErrVersionRequired
	}

	if err := s.repo.Delete(ctx, u.Key(), u.Version); err != nil {
		return err
	}
	s.cache.Invalidate(u.Key())
	return nil
}
