package routes

import (
	"strings"

	"github.com/JaimeStill/djedi/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix and
// naming namespace. Children inherit the namespace unless they set their own.
type Group struct {
	Prefix      string
	Namespace   string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// AddToSpec adds every route operation in the group tree to spec, rooted at basePath.
func (g *Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.walk("", g.Namespace, func(path, _ string, route Route, tags []string) {
		if route.OpenAPI == nil {
			return
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(joinPath(basePath, path), route.Method, &op)
	})
}

// walk visits every route with its path relative to the mount point and its
// qualified name.
func (g *Group) walk(parent, namespace string, visit func(path, name string, route Route, tags []string)) {
	prefix := joinSegment(parent, g.Prefix)
	if g.Namespace != "" {
		namespace = g.Namespace
	}

	for _, route := range g.Routes {
		visit(joinSegment(prefix, route.Pattern), qualify(namespace, route.Name), route, g.Tags)
	}
	for i := range g.Children {
		g.Children[i].walk(prefix, namespace, visit)
	}
}

func qualify(namespace, name string) string {
	if namespace == "" || name == "" {
		return name
	}
	return namespace + ":" + name
}

// joinSegment appends a relative segment to prefix, keeping any trailing slash
// the segment declares.
func joinSegment(prefix, segment string) string {
	segment = strings.TrimPrefix(segment, "/")
	if prefix == "" {
		return segment
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + segment
}

func joinPath(basePath, path string) string {
	return strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(path, "/")
}
