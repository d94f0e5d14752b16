package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ziadkadry99/diagram-rag/internal/embeddings"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 8)
		out[i][0] = 1
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int { return 8 }
func (stubEmbedder) Name() string    { return "stub" }

func newTestService(t *testing.T) *rag.Service {
	t.Helper()
	store, err := vectordb.NewMemoryStore(nil, 8)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	return rag.New(store, embeddings.NewProvider(stubEmbedder{}, 0))
}

func TestHealthCheck(t *testing.T) {
	svc := newTestService(t)
	srv := New(Config{Port: 0}, svc)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status string `json:"status"`
		Ready  bool   `json:"ready"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", body.Status)
	}
	if body.Ready {
		t.Error("expected ready=false before Initialize")
	}

	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Ready {
		t.Error("expected ready=true after Initialize")
	}
}

func TestRAGRoutesMounted(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	srv := New(Config{Port: 0}, svc)

	req := httptest.NewRequest("GET", "/api/rag/stats", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/rag/stats, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, newTestService(t))

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
