package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-propertysheet/internal/demo"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
)

func newRenderServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	def, err := demo.Lookup(demo.KindRender)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	s, err := def.NewSheet(nil, nil, "")
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	srv, err := New(s, append([]Option{WithRule(def.Apply)}, options...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestHealthAndInfo(t *testing.T) {
	srv := newRenderServer(t)

	w := do(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodGet, "/api/v1/info", "")
	var info struct {
		Info struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"info"`
		Example map[string]any `json:"example"`
	}
	decode(t, w, &info)
	if info.Info.Type != "object" || info.Info.Description != "A key-value dictionary of property settings." {
		t.Fatalf("info mismatch: %+v", info)
	}
	if diff := cmp.Diff(map[string]any{"seed": 12345.0}, info.Example); diff != "" {
		t.Fatalf("example mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaAndPresentation(t *testing.T) {
	srv := newRenderServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/schema", "")
	if w.Code != http.StatusOK {
		t.Fatalf("schema: %d %s", w.Code, w.Body.String())
	}
	var groups []struct {
		Name string `json:"group_name"`
	}
	decode(t, w, &groups)
	if len(groups) != 7 || groups[0].Name != "General" {
		t.Fatalf("unexpected groups %+v", groups)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/sheet", "")
	var p sheet.Presentation
	decode(t, w, &p)
	if p.Label != "Render Settings" || p.Width == nil || p.Width.String() != "400px" {
		t.Fatalf("presentation mismatch: %+v", p)
	}
}

func TestPayload_ReconcilesAndAppliesRule(t *testing.T) {
	srv := newRenderServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/payload", `{"seed": 42, "model": {"custom_model_path": "/tmp/x.safetensors"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("payload: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Value demo.RenderConfig `json:"value"`
	}
	decode(t, w, &resp)
	if resp.Value.Seed != 42 {
		t.Fatalf("seed not reconciled: %+v", resp.Value)
	}
	if resp.Value.Model.CustomModelPath != demo.DefaultCustomModelPath {
		t.Fatalf("expected rule to reset custom path, got %q", resp.Value.Model.CustomModelPath)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/value", "")
	var held demo.RenderConfig
	decode(t, w, &held)
	if held.Seed != 42 || held.Model.CustomModelPath != demo.DefaultCustomModelPath {
		t.Fatalf("held value mismatch: %+v", held)
	}

	w = do(t, srv, http.MethodPost, "/api/v1/payload", `[{"group_name": "Model", "properties": [{"name": "model_type", "value": "Custom"}, {"name": "custom_model_path", "value": "/tmp/x.safetensors"}]}]`)
	decode(t, w, &resp)
	if resp.Value.Model.CustomModelPath != "/tmp/x.safetensors" {
		t.Fatalf("custom path must survive with Custom model type: %+v", resp.Value.Model)
	}
}

func TestPayload_Errors(t *testing.T) {
	srv := newRenderServer(t)

	for _, body := range []string{`"seed"`, `{"seed": `, " "} {
		w := do(t, srv, http.MethodPost, "/api/v1/payload", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("expected problem content type, got %q", ct)
		}
	}

	w := do(t, srv, http.MethodPost, "/api/v1/payload", "null")
	if w.Code != http.StatusOK {
		t.Fatalf("null payload: expected 200, got %d", w.Code)
	}
}

func TestUnboundSheet(t *testing.T) {
	s, err := sheet.New(nil)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	srv, err := New(s)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/schema", ""},
		{http.MethodGet, "/api/v1/value", ""},
		{http.MethodGet, "/api/v1/openapi", ""},
		{http.MethodPost, "/api/v1/payload", `{"seed": 1}`},
	} {
		if w := do(t, srv, tc.method, tc.path, tc.body); w.Code != http.StatusConflict {
			t.Fatalf("%s %s: expected 409, got %d", tc.method, tc.path, w.Code)
		}
	}

	if _, err := New(nil); err != ErrNilSheet {
		t.Fatalf("expected ErrNilSheet, got %v", err)
	}
}

func TestOpenAPI(t *testing.T) {
	srv := newRenderServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/openapi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("openapi: %d %s", w.Code, w.Body.String())
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	decode(t, w, &doc)
	if doc.OpenAPI != "3.0.3" || doc.Info.Title != "Render Settings" {
		t.Fatalf("document header mismatch: %+v", doc)
	}
	if _, ok := doc.Components.Schemas["RenderConfig"]; !ok {
		t.Fatalf("expected RenderConfig schema, got %v", doc.Components.Schemas)
	}
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := newRenderServer(t, WithLogger(zap.New(core)))

	do(t, srv, http.MethodGet, "/healthz", "")
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/healthz" || fields["status"] != int64(http.StatusOK) || fields["method"] != http.MethodGet {
		t.Fatalf("unexpected log fields %v", fields)
	}
}
