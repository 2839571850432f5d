package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/djedi/pkg/module"
)

func TestNew(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	m := module.New("/djedi", handler)

	if m.Prefix() != "/djedi" {
		t.Errorf("Prefix() = %q, want %q", m.Prefix(), "/djedi")
	}
}

func TestNew_InvalidPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "djedi"},
		{"multi level", "/djedi/rest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("New(%q) did not panic", tt.prefix)
				}
			}()
			module.New(tt.prefix, http.NotFoundHandler())
		})
	}
}

func TestModule_Serve_PreservesTrailingSlash(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})

	m := module.New("/djedi", handler)

	tests := []struct {
		name     string
		path     string
		wantPath string
	}{
		{"module root", "/djedi", "/"},
		{"module root with slash", "/djedi/", "/"},
		{"route with slash", "/djedi/nodes/", "/nodes/"},
		{"route without slash", "/djedi/nodes", "/nodes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			m.Serve(w, req)

			body, _ := io.ReadAll(w.Result().Body)
			if string(body) != tt.wantPath {
				t.Errorf("path = %q, want %q", string(body), tt.wantPath)
			}
		})
	}
}

func TestModule_MiddlewareOrder(t *testing.T) {
	var order []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/djedi", handler)

	for _, name := range []string{"first", "second"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	m.Handler().ServeHTTP(httptest.NewRecorder(), req)

	expected := []string{"first", "second", "handler"}
	if len(order) != len(expected) {
		t.Fatalf("order length = %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, want %q", i, order[i], v)
		}
	}
}
