package embed_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/djedi/internal/embed"
	"github.com/JaimeStill/djedi/pkg/logging"
)

type staticAuth bool

func (a staticAuth) HasPermission(*http.Request) bool { return bool(a) }

func TestHandler_Embed(t *testing.T) {
	tests := []struct {
		name       string
		permitted  bool
		wantStatus int
	}{
		{"cms user", true, http.StatusOK},
		{"anonymous", false, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := embed.Options{AdminURL: "/djedi/cms/", Theme: "luke"}
			h := embed.NewHandler(staticAuth(tt.permitted), opts, logging.Discard())

			req := httptest.NewRequest(http.MethodGet, "http://example.com/djedi/embed/", nil)
			w := httptest.NewRecorder()
			h.Embed(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Header().Get("Cache-Control"), "no-cache") {
				t.Error("embed response must not be cached")
			}

			body := w.Body.String()
			if !tt.permitted {
				if body != "" {
					t.Errorf("body = %q, want empty", body)
				}
				return
			}

			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q, want text/html", ct)
			}
			for _, want := range []string{
				`http://example.com/djedi/cms/static/themes/luke/embed.css`,
				`src="http://example.com/djedi/cms/"`,
				`id="djedi-cms"`,
			} {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			if strings.Contains(body, "DJEDI_NODES") {
				t.Error("REST embed must not include nodes")
			}
		})
	}
}

func TestRender_EscapesNodes(t *testing.T) {
	title := "</script><script>alert(1)</script>"
	var buf bytes.Buffer

	err := embed.Render(&buf, embed.Data{
		Prefix:   "https://example.com",
		AdminURL: "/djedi/cms/",
		Theme:    "darth",
		Nodes: map[string]*string{
			"i18n://en-us@page/title.txt": &title,
			"i18n://en-us@page/body.txt":  nil,
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "window.DJEDI_NODES") {
		t.Fatalf("output missing nodes:\n%s", out)
	}
	if strings.Count(out, "</script>") != 2 {
		t.Errorf("node content closed a script element:\n%s", out)
	}
	if !strings.Contains(out, `"i18n://en-us@page/body.txt":null`) {
		t.Errorf("nil node should render as null:\n%s", out)
	}
}

func TestPrefix(t *testing.T) {
	forwarded := map[string]string{"X-Forwarded-Proto": "https, http", "X-Forwarded-Host": "cms.example.com"}

	tests := []struct {
		name       string
		url        string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"plain", "http://example.com/djedi/embed/", nil, false, "http://example.com"},
		{"tls", "https://secure.example.com/djedi/embed/", nil, false, "https://secure.example.com"},
		{"forwarded untrusted", "http://10.0.0.1:8000/djedi/embed/", forwarded, false, "http://10.0.0.1:8000"},
		{"forwarded trusted", "http://10.0.0.1:8000/djedi/embed/", forwarded, true, "https://cms.example.com"},
		{"trusted without headers", "http://example.com/djedi/embed/", nil, true, "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := embed.Prefix(req, tt.trustProxy); got != tt.want {
				t.Errorf("Prefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandler_EmbedIgnoresSpoofedHost(t *testing.T) {
	h := embed.NewHandler(staticAuth(true), embed.Options{AdminURL: "/djedi/cms/", Theme: "darth"}, logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "http://cms.example.com/djedi/embed/", nil)
	req.Header.Set("X-Forwarded-Host", "attacker.example.net")
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.Embed(w, req)

	body := w.Body.String()
	if strings.Contains(body, "attacker.example.net") {
		t.Errorf("body uses forwarded host without trust_proxy:\n%s", body)
	}
	if !strings.Contains(body, `src="http://cms.example.com/djedi/cms/"`) {
		t.Errorf("body missing request host:\n%s", body)
	}
}
