package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/resumake/resumake/internal/config"
)

// Client is the transport for a single embedding request.
// Implementations issue exactly one external request per call.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result pairs an embedding vector with the position of its source text
// in the input batch. Texts that failed to embed have no Result, so the
// indices of a batch may be sparse.
type Result struct {
	Index  int
	Vector []float32
}

// ErrEmptyEmbedding is returned when the provider responds without a vector.
var ErrEmptyEmbedding = errors.New("embedding response contained no vector")

// dimensionProbe is the fixed text embedded once to calibrate the
// vector dimension of a provider.
const dimensionProbe = "test"

// Service provides embedding generation on top of a transport client.
type Service struct {
	client   Client
	dim      int
	progress ProgressReporter
}

// NewService creates a new embedding service for the configured provider
func NewService(cfg *config.EmbeddingConfig) (*Service, error) {
	var client Client
	var err error

	switch cfg.Provider {
	case "ollama":
		client = NewOllamaClient(cfg)
	case "openai":
		client, err = NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return &Service{client: client}, nil
}

// NewServiceWithClient creates a service around an existing client.
func NewServiceWithClient(client Client) *Service {
	return &Service{client: client}
}

// SetProgress attaches a progress reporter driven during EmbedMany.
func (s *Service) SetProgress(p ProgressReporter) {
	s.progress = p
}

// EmbedOne generates an embedding for a single text
func (s *Service) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	return s.client.Embed(ctx, text)
}

// EmbedMany generates embeddings for multiple texts, one request per text.
// Texts that fail to embed are dropped from the result rather than
// reported as errors; callers must align on Result.Index, not position.
func (s *Service) EmbedMany(ctx context.Context, texts []string) []Result {
	if len(texts) == 0 {
		return nil
	}

	if s.progress != nil {
		s.progress.Start(len(texts))
		defer s.progress.Finish()
	}

	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		if ctx.Err() != nil {
			break
		}
		vec, err := s.client.Embed(ctx, text)
		if err != nil {
			log.Printf("Warning: failed to embed text %d of %d: %v", i+1, len(texts), err)
		} else {
			results = append(results, Result{Index: i, Vector: vec})
		}
		if s.progress != nil {
			s.progress.Increment()
		}
	}
	return results
}

// Dimension returns the vector length produced by the provider,
// determined by embedding a fixed probe text. The value is cached
// after the first successful probe.
func (s *Service) Dimension(ctx context.Context) (int, error) {
	if s.dim > 0 {
		return s.dim, nil
	}
	vec, err := s.client.Embed(ctx, dimensionProbe)
	if err != nil {
		return 0, fmt.Errorf("embedding dimension probe failed: %w", err)
	}
	if len(vec) == 0 {
		return 0, ErrEmptyEmbedding
	}
	s.dim = len(vec)
	return s.dim, nil
}
