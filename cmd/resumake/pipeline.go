package main

import (
	"context"
	"fmt"

	"github.com/resumake/resumake/cmd/resumake/internal"
	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/embedding"
	"github.com/resumake/resumake/internal/retriever"
)

// newEmbeddingService builds the embedding service, with a progress
// bar when stderr is a terminal.
func newEmbeddingService(cfg *config.Config, progress bool) (*embedding.Service, error) {
	svc, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		return nil, err
	}
	if progress && embedding.DefaultProgressEnabled() {
		svc.SetProgress(embedding.NewEmbedProgress(true))
	}
	return svc, nil
}

// loadRetriever restores the persisted vector index for the configured
// resume. The returned index dir is where Save would write.
func loadRetriever(ctx context.Context, cfg *config.Config) (*retriever.Retriever, string, error) {
	resumePath, err := internal.ResolveResumePath(cfg.Resume.Path)
	if err != nil {
		return nil, "", err
	}

	indexDir, err := internal.DefaultIndexDir(resumePath)
	if err != nil {
		return nil, "", err
	}

	svc, err := newEmbeddingService(cfg, false)
	if err != nil {
		return nil, "", err
	}

	ret, err := retriever.Load(ctx, svc, indexDir)
	if err != nil {
		return nil, "", fmt.Errorf("no usable index for %s (run `resumake index` first): %w", resumePath, err)
	}
	return ret, indexDir, nil
}
