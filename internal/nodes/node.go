package nodes

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/djedi/pkg/uri"
)

// Node is one stored version of a content node.
type Node struct {
	ID         uuid.UUID `json:"id"`
	Key        string    `json:"key"`
	Content    string    `json:"content"`
	Plugin     string    `json:"plugin"`
	Version    string    `json:"version"`
	Published  bool      `json:"published"`
	Meta       string    `json:"meta,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Namespace returns the namespace part of the node key.
func (n *Node) Namespace() string {
	ns, _, ok := strings.Cut(n.Key, "@")
	if !ok {
		return ""
	}
	return ns
}

// URI returns requested rewritten to address this node.
func (n *Node) URI(requested uri.URI) uri.URI {
	return requested.
		WithNamespace(n.Namespace()).
		WithExt(n.Plugin).
		WithVersion(n.Version)
}

// SaveCommand stores a new node version. When the URI has no version the next
// numeric version for the key is assigned.
type SaveCommand struct {
	URI     string `json:"uri" yaml:"uri"`
	Content string `json:"content" yaml:"content"`
	Meta    string `json:"meta,omitempty" yaml:"meta,omitempty"`
	Publish bool   `json:"publish,omitempty" yaml:"publish,omitempty"`
}

// SaveParams is a SaveCommand resolved to storage fields.
type SaveParams struct {
	Key     string
	Plugin  string
	Version string
	Content string
	Meta    string
	Publish bool
}
