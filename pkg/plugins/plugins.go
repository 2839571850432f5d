// Package plugins renders node content by URI extension.
package plugins

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPlugin is returned when no plugin is registered for an extension.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Plugin renders raw node data to HTML-safe content.
type Plugin interface {
	Ext() string
	// Render returns nil for nil data.
	Render(data *string) (*string, error)
}

// Registry maps extensions to plugins. It is read-only after construction.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry registers ps. Later plugins replace earlier ones with the same extension.
func NewRegistry(ps ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(ps))}
	for _, p := range ps {
		r.plugins[p.Ext()] = p
	}
	return r
}

// Default returns a registry with the txt, html, md and img plugins.
func Default() *Registry {
	return NewRegistry(Text{}, HTML{}, NewMarkdown(), Image{})
}

func (r *Registry) Resolve(ext string) (Plugin, error) {
	p, ok := r.plugins[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, ext)
	}
	return p, nil
}

// Exts lists the registered extensions in sorted order.
func (r *Registry) Exts() []string {
	exts := make([]string, 0, len(r.plugins))
	for ext := range r.plugins {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
