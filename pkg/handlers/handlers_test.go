package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/djedi/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()

	handlers.RespondJSON(w, http.StatusOK, map[string]*string{"i18n://en-us@page/title.txt": nil})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]*string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	v, ok := body["i18n://en-us@page/title.txt"]
	if !ok || v != nil {
		t.Errorf("body = %v, want null entry", body)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantLog string
	}{
		{"server error", http.StatusInternalServerError, "level=ERROR"},
		{"client error", http.StatusBadRequest, "level=DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			w := httptest.NewRecorder()

			handlers.RespondError(w, logger, tt.status, errors.New("boom"))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), `"error":"boom"`) {
				t.Errorf("body = %s, want error message", w.Body.String())
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %s, want %s", buf.String(), tt.wantLog)
			}
		})
	}
}

func TestNoCache(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.NoCache(w)

	cc := w.Header().Get("Cache-Control")
	for _, directive := range []string{"no-cache", "no-store", "must-revalidate", "max-age=0"} {
		if !strings.Contains(cc, directive) {
			t.Errorf("Cache-Control = %q, missing %q", cc, directive)
		}
	}
}

func TestRespondNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondNoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body length = %d, want 0", w.Body.Len())
	}
}
