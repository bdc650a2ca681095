package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/resumake/resumake/internal/config"
)

func ollamaTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream {
			http.Error(w, "streaming not supported in test", http.StatusBadRequest)
			return
		}
		switch req.Prompt {
		case "":
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Error: "empty prompt"})
		case "missing":
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Error: "model not found"})
		default:
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "completion for: " + req.Prompt})
		}
	}))
}

func TestOllamaGenerate(t *testing.T) {
	server := ollamaTestServer(t)
	defer server.Close()

	client := NewOllamaClient(server.URL, "test-model")
	out, err := client.Generate(context.Background(), Request{
		Prompt:      "write a summary",
		System:      "you are a resume writer",
		Temperature: 0.5,
		MaxTokens:   128,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "completion for: write a summary" {
		t.Errorf("Generate() = %q", out)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	server := ollamaTestServer(t)
	defer server.Close()

	client := NewOllamaClient(server.URL, "test-model")
	if _, err := client.Generate(context.Background(), Request{Prompt: "missing"}); err == nil {
		t.Error("expected error from server-side failure")
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	client := NewOllamaClient("http://127.0.0.1:1", "test-model")
	if _, err := client.Generate(context.Background(), Request{Prompt: "anything"}); err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}

type captureClient struct {
	req Request
}

func (c *captureClient) Generate(_ context.Context, req Request) (string, error) {
	c.req = req
	return "ok", nil
}

func TestConfiguredDefaultsApplied(t *testing.T) {
	capture := &captureClient{}
	client := &defaultsClient{inner: capture, temperature: 0.7, maxTokens: 2048}

	if _, err := client.Generate(context.Background(), Request{Prompt: "p"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if capture.req.Temperature != 0.7 || capture.req.MaxTokens != 2048 {
		t.Errorf("defaults not applied: temperature=%v maxTokens=%d",
			capture.req.Temperature, capture.req.MaxTokens)
	}

	if _, err := client.Generate(context.Background(), Request{Prompt: "p", Temperature: 0.2, MaxTokens: 64}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if capture.req.Temperature != 0.2 || capture.req.MaxTokens != 64 {
		t.Errorf("explicit knobs overridden: temperature=%v maxTokens=%d",
			capture.req.Temperature, capture.req.MaxTokens)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "ollama", provider: "ollama"},
		{name: "nim", provider: "nim"},
		{name: "unknown", provider: "bard", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(&config.LLMConfig{
				Provider: tt.provider,
				Endpoint: "http://localhost:11434",
				Model:    "test-model",
				APIKey:   "key",
			})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unsupported provider")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if client == nil {
				t.Error("New() returned nil client")
			}
		})
	}
}
