// Package llm provides text-generation clients behind a single
// provider-agnostic interface. Supported providers are a local Ollama
// server and NVIDIA NIM's OpenAI-compatible API.
package llm

import (
	"context"
	"fmt"

	"github.com/resumake/resumake/internal/config"
)

// Request is a single generation request.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds a client for the configured provider. The configured
// temperature and token cap apply to every request that does not set
// its own.
func New(cfg *config.LLMConfig) (Client, error) {
	var client Client
	switch cfg.Provider {
	case "ollama":
		client = NewOllamaClient(cfg.Endpoint, cfg.Model)
	case "nim":
		client = NewNIMClient(cfg.Endpoint, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	return &defaultsClient{
		inner:       client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// defaultsClient fills unset request knobs from the configuration.
type defaultsClient struct {
	inner       Client
	temperature float32
	maxTokens   int
}

func (d *defaultsClient) Generate(ctx context.Context, req Request) (string, error) {
	if req.Temperature == 0 {
		req.Temperature = d.temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = d.maxTokens
	}
	return d.inner.Generate(ctx, req)
}
