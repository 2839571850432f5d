// Package module provides prefix-mounted HTTP modules and a router that
// dispatches requests to them by their first path segment.
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Module is an http.Handler mounted under a single-segment path prefix with
// its own middleware chain.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware []func(http.Handler) http.Handler
}

// New creates a module for prefix. The prefix must start with "/" and contain
// exactly one path segment; New panics otherwise since this is a wiring error.
func New(prefix string, handler http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		handler: handler,
	}
}

// Prefix returns the module mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. Middleware registered first runs outermost.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware = append(m.middleware, mw)
}

// Handler returns the module handler wrapped in its middleware chain.
func (m *Module) Handler() http.Handler {
	h := m.handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		h = m.middleware[i](h)
	}
	return h
}

// Serve strips the module prefix from the request path and serves it.
// Trailing slashes are preserved: "/djedi/nodes/" is served as "/nodes/".
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	if r.URL.RawPath != "" {
		raw := strings.TrimPrefix(r.URL.RawPath, m.prefix)
		if raw == "" {
			raw = "/"
		}
		r2.URL.RawPath = raw
	}

	m.Handler().ServeHTTP(w, r2)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix required")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix %q must start with /", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
