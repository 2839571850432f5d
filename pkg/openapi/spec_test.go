package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/djedi/pkg/openapi"
)

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("Djedi", "0.1.0")

	if err := spec.AddOperation("/djedi/nodes/", http.MethodPost, &openapi.Operation{Summary: "load"}); err != nil {
		t.Fatalf("AddOperation() error = %v", err)
	}
	if err := spec.AddOperation("/djedi/embed/", "get", &openapi.Operation{Summary: "embed"}); err != nil {
		t.Fatalf("AddOperation() error = %v", err)
	}
	if err := spec.AddOperation("/djedi/nodes/", "PATCH", &openapi.Operation{}); err == nil {
		t.Error("AddOperation(PATCH) should fail")
	}

	if spec.Paths["/djedi/nodes/"].Post == nil {
		t.Error("nodes POST operation missing")
	}
	if spec.Paths["/djedi/embed/"].Get == nil {
		t.Error("embed GET operation missing")
	}
}

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Title == "" || cfg.Description == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Djedi", "0.1.0")
	spec.SetDescription("content")
	spec.AddServer("http://localhost:8000")
	spec.AddServer("")

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	w := httptest.NewRecorder()
	openapi.ServeSpec(data)(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if doc["openapi"] != openapi.Version {
		t.Errorf("openapi = %v, want %s", doc["openapi"], openapi.Version)
	}
	servers, _ := doc["servers"].([]any)
	if len(servers) != 1 {
		t.Errorf("servers = %v, want 1 entry", servers)
	}
}
