package module

import (
	"net/http"
	"strings"
)

// Router dispatches requests to mounted modules by first path segment and
// falls back to natively registered routes.
type Router struct {
	native  *http.ServeMux
	modules map[string]*Module
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		native:  http.NewServeMux(),
		modules: make(map[string]*Module),
	}
}

// HandleNative registers a route on the fallback ServeMux using Go 1.22 patterns.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module under its prefix. Mounting a second module with
// the same prefix replaces the first.
func (r *Router) Mount(m *Module) {
	r.modules[m.Prefix()] = m
}

// Modules returns the mounted module prefixes.
func (r *Router) Modules() []string {
	prefixes := make([]string, 0, len(r.modules))
	for p := range r.modules {
		prefixes = append(prefixes, p)
	}
	return prefixes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	rest := strings.TrimPrefix(path, "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}
