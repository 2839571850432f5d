package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/djedi/internal/api"
	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/internal/infrastructure"
	"github.com/JaimeStill/djedi/internal/migrations"
	"github.com/JaimeStill/djedi/internal/nodes"
	"github.com/JaimeStill/djedi/pkg/database"
	"github.com/JaimeStill/djedi/pkg/logging"
	"github.com/JaimeStill/djedi/pkg/routes"
)

const secret = "0123456789abcdef0123456789abcdef"

func ptr(s string) *string { return &s }

func newConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Database: database.Config{
			Driver: database.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "djedi.db"),
		},
		Auth: config.AuthConfig{Secret: secret},
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func newModule(t *testing.T, cfg *config.Config) *api.Module {
	t.Helper()

	logger := logging.Discard()
	if err := migrations.Up(&cfg.Database, logger); err != nil {
		t.Fatalf("migrations.Up() error = %v", err)
	}

	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("infra.Start() error = %v", err)
	}
	t.Cleanup(func() { infra.Lifecycle.Shutdown(5 * time.Second) })

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	m.Start(infra.Lifecycle)
	return m
}

func TestNewModule_RoutingTable(t *testing.T) {
	m := newModule(t, newConfig(t, nil))

	want := []routes.Entry{
		{Method: http.MethodGet, Pattern: "embed/", Name: "djedi:rest.embed", Path: "/djedi/embed/"},
		{Method: http.MethodPost, Pattern: "nodes/", Name: "djedi:rest.nodes", Path: "/djedi/nodes/"},
	}
	if diff := cmp.Diff(want, m.Routes.Namespace("djedi")); diff != "" {
		t.Errorf("Namespace(djedi) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, m.Routes.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	for name, path := range map[string]string{
		"djedi:rest.embed": "/djedi/embed/",
		"djedi:rest.nodes": "/djedi/nodes/",
	} {
		got, err := m.Routes.Reverse(name)
		if err != nil {
			t.Errorf("Reverse(%q) error = %v", name, err)
			continue
		}
		if got != path {
			t.Errorf("Reverse(%q) = %q, want %q", name, got, path)
		}
	}

	if _, err := m.Routes.Reverse("djedi:rest.missing"); !errors.Is(err, routes.ErrNoReverseMatch) {
		t.Errorf("Reverse(missing) error = %v, want ErrNoReverseMatch", err)
	}
}

func TestNewModule_CustomMount(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.API.BasePath = "/content"
		c.API.Namespace = "cms"
	})
	m := newModule(t, cfg)

	got, err := m.Routes.Reverse("cms:rest.nodes")
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if got != "/content/nodes/" {
		t.Errorf("Reverse(cms:rest.nodes) = %q, want /content/nodes/", got)
	}
	if _, err := m.Routes.Reverse("djedi:rest.nodes"); !errors.Is(err, routes.ErrNoReverseMatch) {
		t.Errorf("Reverse(djedi:rest.nodes) error = %v, want ErrNoReverseMatch", err)
	}
	if n := len(m.Routes.Namespace("djedi")); n != 0 {
		t.Errorf("Namespace(djedi) has %d entries, want 0", n)
	}
}

func TestModule_Dispatch(t *testing.T) {
	m := newModule(t, newConfig(t, nil))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"embed", http.MethodGet, "/djedi/embed/", "", http.StatusNoContent},
		{"nodes", http.MethodPost, "/djedi/nodes/", "{}", http.StatusOK},
		{"embed wrong method", http.MethodPost, "/djedi/embed/", "", http.StatusMethodNotAllowed},
		{"nodes wrong method", http.MethodGet, "/djedi/nodes/", "", http.StatusMethodNotAllowed},
		{"embed without slash", http.MethodGet, "/djedi/embed", "", http.StatusNotFound},
		{"nodes without slash", http.MethodPost, "/djedi/nodes", "{}", http.StatusNotFound},
		{"nested path", http.MethodPost, "/djedi/nodes/extra/", "{}", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/djedi/other/", "", http.StatusNotFound},
		{"mount root", http.MethodGet, "/djedi/", "", http.StatusNotFound},
		{"double slash", http.MethodGet, "/djedi//embed/", "", http.StatusNotFound},
		{"dot segment", http.MethodGet, "/djedi/./embed/", "", http.StatusNotFound},
		{"dot-dot segment", http.MethodPost, "/djedi/x/../nodes/", "{}", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			m.Serve(w, req)

			if w.Code != tt.status {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.status)
			}
			if loc := w.Header().Get("Location"); loc != "" {
				t.Errorf("%s %s Location = %q, want no redirect", tt.method, tt.path, loc)
			}
		})
	}
}

func TestModule_EmbedWithPermission(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantSrc    string
	}{
		{"direct", false, `src="http://example.com/djedi/cms/"`},
		{"behind proxy", true, `src="https://cms.example.org/djedi/cms/"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModule(t, newConfig(t, func(c *config.Config) {
				c.Server.TrustProxy = tt.trustProxy
			}))

			token, err := m.Domain.Auth.Issue("editor", []string{"Djedi"}, false, time.Hour)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/djedi/embed/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("X-Forwarded-Proto", "https")
			req.Header.Set("X-Forwarded-Host", "cms.example.org")
			w := httptest.NewRecorder()

			m.Serve(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, `id="djedi-cms"`) {
				t.Errorf("body missing CMS iframe: %s", body)
			}
			if !strings.Contains(body, tt.wantSrc) {
				t.Errorf("body missing %s: %s", tt.wantSrc, body)
			}
		})
	}
}

func TestModule_LoadNodes(t *testing.T) {
	m := newModule(t, newConfig(t, nil))

	if _, err := m.Domain.Nodes.Save(context.Background(), nodes.SaveCommand{
		URI:     "page/intro.md",
		Content: "# Hi",
		Publish: true,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	body := `{"i18n://en-us@page/title.txt":"Hello <b>","page/intro.md":null,"page/body.md":null}`
	req := httptest.NewRequest(http.MethodPost, "/djedi/nodes/", strings.NewReader(body))
	w := httptest.NewRecorder()

	m.Serve(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var got map[string]*string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := map[string]*string{
		"i18n://en-us@page/title.txt":  ptr("Hello &lt;b&gt;"),
		"i18n://en-us@page/intro.md#1": ptr("<h1>Hi</h1>\n"),
		"i18n://en-us@page/body.md":    nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestModule_Spec(t *testing.T) {
	m := newModule(t, newConfig(t, nil))

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(m.Spec(), &doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if _, ok := doc.Paths["/djedi/embed/"]["get"]; !ok {
		t.Errorf("spec missing GET /djedi/embed/: %v", doc.Paths)
	}
	if _, ok := doc.Paths["/djedi/nodes/"]["post"]; !ok {
		t.Errorf("spec missing POST /djedi/nodes/: %v", doc.Paths)
	}
}
