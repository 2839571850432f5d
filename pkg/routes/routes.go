// Package routes declares named route groups and registers them on a
// gorilla/mux router with exact path matching and reverse lookup.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/JaimeStill/djedi/pkg/openapi"
)

// Entry is one registered route as seen from outside the mount point.
type Entry struct {
	Method  string
	Pattern string
	Name    string
	Path    string
}

// Table is the immutable result of Register.
type Table struct {
	basePath string
	router   *mux.Router
	entries  []Entry
}

// NewRouter returns a mux router that never redirects. Trailing slashes are
// significant and unclean paths such as "//embed/" are matched as given, so
// they fall through to 404 instead of a redirect outside the mount point.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(false)
	r.SkipClean(true)
	return r
}

// Register adds every route in groups to router, adds their operations to
// spec, and returns the resulting table. Paths are registered relative to the
// mount point; basePath is only used to build absolute paths. Register panics
// on a duplicate route name or method and path pair.
func Register(router *mux.Router, basePath string, spec *openapi.Spec, groups ...Group) *Table {
	t := &Table{
		basePath: strings.TrimSuffix(basePath, "/"),
		router:   router,
	}

	seen := make(map[string]bool)
	names := make(map[string]bool)

	for i := range groups {
		g := &groups[i]
		g.walk("", g.Namespace, func(path, name string, route Route, _ []string) {
			key := route.Method + " " + path
			if seen[key] {
				panic(fmt.Sprintf("routes: duplicate route %s", key))
			}
			seen[key] = true

			r := router.Path("/" + path).Methods(route.Method).Handler(route.Handler)
			if name != "" {
				if names[name] {
					panic(fmt.Sprintf("routes: duplicate route name %q", name))
				}
				names[name] = true
				r.Name(name)
			}

			t.entries = append(t.entries, Entry{
				Method:  route.Method,
				Pattern: path,
				Name:    name,
				Path:    t.basePath + "/" + path,
			})
		})

		if spec != nil {
			g.AddToSpec(basePath, spec)
		}
	}

	return t
}

// Reverse returns the absolute path of the route registered as namespace:name.
func (t *Table) Reverse(name string) (string, error) {
	ns, short, ok := strings.Cut(name, ":")
	if !ok || ns == "" || short == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	route := t.router.Get(name)
	if route == nil {
		return "", fmt.Errorf("%w: %q", ErrNoReverseMatch, name)
	}

	u, err := route.URLPath()
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNoReverseMatch, name, err)
	}
	return t.basePath + u.Path, nil
}

// Entries returns the registered routes in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Namespace returns the entries whose names are qualified by ns.
func (t *Table) Namespace(ns string) []Entry {
	var out []Entry
	for _, e := range t.entries {
		if strings.HasPrefix(e.Name, ns+":") {
			out = append(out, e)
		}
	}
	return out
}

// RouteName returns the qualified name of the route matched for r, or "" if
// r was not dispatched through a named route.
func RouteName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}
