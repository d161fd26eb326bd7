package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcforge/internal/metrics"
	"github.com/matzehuels/arcforge/pkg/cache"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/observability"
	"github.com/matzehuels/arcforge/pkg/pipeline"
	"github.com/matzehuels/arcforge/pkg/scene"
)

func testServer(t *testing.T, opts Options) *Server {
	t.Helper()
	cat, err := dataset.NewCatalog([]dataset.Item{
		{ID: "medkit", Name: "Medkit", Rarity: "Rare", Salvage: []string{"salvaged-parts"}, Inputs: []dataset.Input{
			{Item: "chemicals", Quantity: 2},
			{Item: "fabric"},
			{Item: "lance", Relation: "sold_by"},
		}},
		{ID: "chemicals", Name: "Chemicals", Kind: "material", Rarity: "Uncommon"},
		{ID: "fabric", Name: "Fabric", Kind: "material", Rarity: "Common"},
		{ID: "lance", Name: "Lance", Kind: "vendor"},
		{ID: "first-aid", Name: "First Aid Kit", Rarity: "Epic", Inputs: []dataset.Input{{Item: "medkit"}}},
		{ID: "salvaged-parts", Name: "Salvaged Parts", Kind: "material"},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cat, cache.NewNullCache(), nil, logger)
	return New(cat, runner, logger, opts)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t, Options{}).Handler(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["items"] != float64(6) {
		t.Errorf("body = %v", body)
	}
	if build, ok := body["build"].(map[string]any); !ok || build["version"] == "" {
		t.Errorf("build = %v", body["build"])
	}
}

func TestListItems(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	tests := []struct {
		path string
		want []string
	}{
		{"/api/items", []string{"chemicals", "fabric", "first-aid", "lance", "medkit", "salvaged-parts"}},
		{"/api/items?kind=material", []string{"chemicals", "fabric", "salvaged-parts"}},
		{"/api/items?q=aid", []string{"first-aid"}},
		{"/api/items?kind=vendor&q=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decode[itemsResponse](t, rec)
			ids := make([]string, 0, len(body.Items))
			for _, it := range body.Items {
				ids = append(ids, it.ID)
			}
			if !slices.Equal(ids, tt.want) || body.Count != len(tt.want) {
				t.Errorf("ids = %v (count %d), want %v", ids, body.Count, tt.want)
			}
		})
	}
}

func TestGetItem(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	rec := get(t, h, "/api/items/medkit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[itemResponse](t, rec)
	if body.Item.Name != "Medkit" || len(body.Item.Inputs) != 3 {
		t.Errorf("item = %+v", body.Item)
	}
	if !slices.Equal(body.UsedIn, []string{"first-aid"}) {
		t.Errorf("used_in = %v", body.UsedIn)
	}

	rec = get(t, h, "/api/items/medkt")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown item status = %d", rec.Code)
	}
	e := decode[errorResponse](t, rec)
	if e.Error.Code != "NOT_FOUND" || !slices.Contains(e.Error.Suggestions, "medkit") {
		t.Errorf("error = %+v", e.Error)
	}
}

func TestTreeScene(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	rec := get(t, h, "/api/tree/medkit?selected=fabric")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	sc := decode[scene.Scene](t, rec)
	if sc.Focal != "medkit" || sc.Selected != "fabric" {
		t.Errorf("focal = %q, selected = %q", sc.Focal, sc.Selected)
	}
	// medkit, chemicals, chemicals#2, fabric, lance, first-aid, salvaged-parts
	if len(sc.Nodes) != 7 {
		t.Errorf("nodes = %d, want 7", len(sc.Nodes))
	}
	if sc.Detail == nil || sc.Detail.ID != "fabric" {
		t.Errorf("detail = %+v", sc.Detail)
	}
}

func TestTreeArtifacts(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/api/tree/medkit.svg", "image/svg+xml", "<svg"},
		{"/api/tree/medkit.dot?labels=1", "text/vnd.graphviz; charset=utf-8", "craft_material"},
		{"/api/tree/medkit.json", "application/json", `"focal": "medkit"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestTreeErrors(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown focal", "/api/tree/medkt", http.StatusNotFound, "INVALID_FOCAL_ITEM"},
		{"invalid id", "/api/tree/med%20kit", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown route", "/api/nope", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			e := decode[errorResponse](t, rec)
			if e.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", e.Error.Code, tt.wantCode)
			}
		})
	}

	rec := get(t, h, "/api/tree/medkt")
	e := decode[errorResponse](t, rec)
	if !slices.Contains(e.Error.Suggestions, "medkit") {
		t.Errorf("suggestions = %v", e.Error.Suggestions)
	}
}

func TestSplitFormat(t *testing.T) {
	tests := []struct {
		in, focal, format string
	}{
		{"medkit", "medkit", "json"},
		{"medkit.svg", "medkit", "svg"},
		{"medkit.png", "medkit", "png"},
		{"v1.2", "v1.2", "json"},
		{".svg", ".svg", "json"},
	}
	for _, tt := range tests {
		focal, format := splitFormat(tt.in)
		if focal != tt.focal || format != tt.format {
			t.Errorf("splitFormat(%q) = %q, %q; want %q, %q", tt.in, focal, format, tt.focal, tt.format)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.Register()
	t.Cleanup(observability.Reset)

	h := testServer(t, Options{Metrics: m.Handler()}).Handler()
	get(t, h, "/api/items")
	get(t, h, "/api/tree/medkit.svg")

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`arcforge_http_requests_total{method="GET",route="/api/items",status="200"} 1`,
		`arcforge_http_requests_total{method="GET",route="/api/tree/{id}",status="200"} 1`,
		`arcforge_renders_total{format="svg",outcome="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestRunShutdown(t *testing.T) {
	s := testServer(t, Options{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
