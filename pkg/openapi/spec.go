package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const Version = "3.1.0"

// NewSpec creates an empty document with shared components registered.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    Version,
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddServer registers a server URL. Empty URLs are ignored.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation attaches op to path under method.
func (s *Spec) AddOperation(path, method string, op *Operation) error {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodOptions:
		item.Options = op
	default:
		return fmt.Errorf("unsupported openapi method %q for %s", method, path)
	}
	return nil
}

// MarshalJSON renders spec as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that serves a pre-rendered document.
func ServeSpec(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
