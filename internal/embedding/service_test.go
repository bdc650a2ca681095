package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/resumake/resumake/internal/config"
)

// newOllamaTestServer returns a server that answers /api/embeddings with a
// three-dimensional vector derived from the prompt, and fails for prompts
// containing failOn (when non-empty).
func newOllamaTestServer(t *testing.T, failOn string, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		if requests != nil {
			requests.Add(1)
		}

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if failOn != "" && strings.Contains(req.Prompt, failOn) {
			http.Error(w, "model failure", http.StatusInternalServerError)
			return
		}

		vec := []float32{float32(len(req.Prompt)), 1, 0}
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vec})
	}))
}

func newTestService(t *testing.T, endpoint string) *Service {
	t.Helper()
	svc, err := NewService(&config.EmbeddingConfig{
		Provider: "ollama",
		Endpoint: endpoint,
		Model:    "nomic-embed-text:latest",
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestEmbedOne(t *testing.T) {
	srv := newOllamaTestServer(t, "", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	vec, err := svc.EmbedOne(context.Background(), "hello")
	if err != nil {
		t.Fatalf("EmbedOne() error = %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3-dimensional vector, got %d", len(vec))
	}
}

func TestEmbedOneEmptyText(t *testing.T) {
	srv := newOllamaTestServer(t, "", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	if _, err := svc.EmbedOne(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestEmbedOneTransportFailure(t *testing.T) {
	srv := newOllamaTestServer(t, "boom", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	if _, err := svc.EmbedOne(context.Background(), "boom"); err == nil {
		t.Error("expected error when provider fails")
	}
}

func TestEmbedOneEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{}})
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.EmbedOne(context.Background(), "anything")
	if !errors.Is(err, ErrEmptyEmbedding) {
		t.Errorf("expected ErrEmptyEmbedding, got %v", err)
	}
}

func TestEmbedManyOneRequestPerText(t *testing.T) {
	var requests atomic.Int64
	srv := newOllamaTestServer(t, "", &requests)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	texts := []string{"alpha", "beta", "gamma"}
	results := svc.EmbedMany(context.Background(), texts)

	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}
	if got := requests.Load(); got != int64(len(texts)) {
		t.Errorf("expected one request per text (%d), got %d", len(texts), got)
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d", i, res.Index)
		}
	}
}

func TestEmbedManyDropsFailures(t *testing.T) {
	srv := newOllamaTestServer(t, "unembeddable", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	texts := []string{"first chunk", "unembeddable chunk", "third chunk"}
	results := svc.EmbedMany(context.Background(), texts)

	if len(results) != 2 {
		t.Fatalf("expected 2 results after one failure, got %d", len(results))
	}
	if results[0].Index != 0 || results[1].Index != 2 {
		t.Errorf("expected surviving indices [0 2], got [%d %d]", results[0].Index, results[1].Index)
	}
}

func TestEmbedManyEmptyInput(t *testing.T) {
	srv := newOllamaTestServer(t, "", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	if results := svc.EmbedMany(context.Background(), nil); results != nil {
		t.Errorf("expected nil results for empty input, got %v", results)
	}
}

func TestDimensionProbeCached(t *testing.T) {
	var requests atomic.Int64
	srv := newOllamaTestServer(t, "", &requests)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	dim, err := svc.Dimension(context.Background())
	if err != nil {
		t.Fatalf("Dimension() error = %v", err)
	}
	if dim != 3 {
		t.Errorf("Dimension() = %d, want 3", dim)
	}

	// Second call must be served from the cache.
	if _, err := svc.Dimension(context.Background()); err != nil {
		t.Fatalf("Dimension() second call error = %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 calibration request, got %d", got)
	}
}

func TestDimensionProbeFailure(t *testing.T) {
	srv := newOllamaTestServer(t, "test", nil)
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	if _, err := svc.Dimension(context.Background()); err == nil {
		t.Error("expected error when calibration fails")
	}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	_, err := NewService(&config.EmbeddingConfig{Provider: "bedrock"})
	if err == nil {
		t.Error("expected error for unsupported provider")
	}
}
