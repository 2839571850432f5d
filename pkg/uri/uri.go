// Package uri parses and formats node URIs of the form
// scheme://namespace@path.ext?query#version.
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURI is returned for URIs that cannot address a node.
var ErrInvalidURI = errors.New("invalid node uri")

const (
	schemeSep    = "://"
	namespaceSep = "@"
	extSep       = "."
	querySep     = "?"
	versionSep   = "#"
)

// URI addresses a node. Empty fields are unset and may be filled by Resolve.
type URI struct {
	Scheme    string
	Namespace string
	Path      string
	Ext       string
	Query     url.Values
	Version   string
}

// Defaults supplies the parts Resolve fills in when a URI omits them.
type Defaults struct {
	Scheme    string
	Namespace string
	Ext       string
}

// Parse splits raw into its parts. Only the path is required.
func Parse(raw string) (URI, error) {
	var u URI
	rest := strings.TrimSpace(raw)

	if before, after, ok := strings.Cut(rest, versionSep); ok {
		rest, u.Version = before, after
	}

	if before, after, ok := strings.Cut(rest, querySep); ok {
		q, err := url.ParseQuery(after)
		if err != nil {
			return URI{}, fmt.Errorf("%w: %q: %v", ErrInvalidURI, raw, err)
		}
		rest = before
		if len(q) > 0 {
			u.Query = q
		}
	}

	if before, after, ok := strings.Cut(rest, schemeSep); ok {
		if before == "" {
			return URI{}, fmt.Errorf("%w: %q: empty scheme", ErrInvalidURI, raw)
		}
		u.Scheme, rest = before, after
	}

	if before, after, ok := strings.Cut(rest, namespaceSep); ok {
		if before == "" {
			return URI{}, fmt.Errorf("%w: %q: empty namespace", ErrInvalidURI, raw)
		}
		u.Namespace, rest = before, after
	}

	slash := strings.LastIndex(rest, "/")
	if dot := strings.LastIndex(rest, extSep); dot > slash {
		u.Ext = rest[dot+1:]
		rest = rest[:dot]
	}

	u.Path = strings.Trim(rest, "/")
	if u.Path == "" {
		return URI{}, fmt.Errorf("%w: %q: empty path", ErrInvalidURI, raw)
	}

	return u, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) URI {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// String renders the canonical form, omitting unset parts.
func (u URI) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString(schemeSep)
	}
	if u.Namespace != "" {
		b.WriteString(u.Namespace)
		b.WriteString(namespaceSep)
	}
	b.WriteString(u.Path)
	if u.Ext != "" {
		b.WriteString(extSep)
		b.WriteString(u.Ext)
	}
	if len(u.Query) > 0 {
		b.WriteString(querySep)
		b.WriteString(u.Query.Encode())
	}
	if u.Version != "" {
		b.WriteString(versionSep)
		b.WriteString(u.Version)
	}
	return b.String()
}

// Key returns namespace@path, the storage key shared by every version and
// plugin of a node.
func (u URI) Key() string {
	if u.Namespace == "" {
		return u.Path
	}
	return u.Namespace + namespaceSep + u.Path
}

// Resolve returns a copy of u with unset parts taken from d.
func (u URI) Resolve(d Defaults) URI {
	if u.Scheme == "" {
		u.Scheme = d.Scheme
	}
	if u.Namespace == "" {
		u.Namespace = d.Namespace
	}
	if u.Ext == "" {
		u.Ext = d.Ext
	}
	return u
}

func (u URI) WithNamespace(ns string) URI {
	u.Namespace = ns
	return u
}

func (u URI) WithExt(ext string) URI {
	u.Ext = ext
	return u
}

func (u URI) WithVersion(version string) URI {
	u.Version = version
	return u
}

// Versioned reports whether u pins a specific version.
func (u URI) Versioned() bool {
	return u.Version != ""
}
