package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/resumake/resumake/cmd/resumake/internal"
	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/fileutil"
	"github.com/resumake/resumake/internal/retriever"
)

// handleIndex implements the index subcommand
func handleIndex(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	force := fs.Bool("force", false, "Rebuild the index even if one exists")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake index [options]

DESCRIPTION:
    Build the semantic index for the master resume.
    This will:
      1. Split the resume into section-aware chunks
      2. Embed every chunk with the configured embedding model
      3. Persist the vector index under ~/.resumake/data/

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Index the configured resume
    resumake index

    # Index a different resume
    resumake -resume /path/to/resume.tex index

    # Rebuild from scratch
    resumake index -force
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	resumePath, err := internal.ResolveResumePath(cfg.Resume.Path)
	if err != nil {
		log.Fatalf("Failed to resolve resume path: %v", err)
	}

	indexDir, err := internal.DefaultIndexDir(resumePath)
	if err != nil {
		log.Fatalf("Failed to determine index directory: %v", err)
	}

	if _, err := os.Stat(indexDir); err == nil && !*force {
		log.Fatalf("Index already exists at %s (use -force to rebuild)", indexDir)
	}
	if *force {
		if err := os.RemoveAll(indexDir); err != nil {
			log.Fatalf("Failed to remove existing index: %v", err)
		}
	}

	resumeText, err := fileutil.ReadTextFile(resumePath)
	if err != nil {
		log.Fatalf("Failed to read resume: %v", err)
	}

	fmt.Printf("Building index for: %s\n\n", resumePath)

	svc, err := newEmbeddingService(cfg, true)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}

	ctx := context.Background()
	startTime := time.Now()

	ret, err := retriever.New(ctx, svc)
	if err != nil {
		log.Fatalf("Failed to initialize retriever: %v", err)
	}

	stats, err := ret.IndexResume(ctx, resumeText)
	if err != nil {
		log.Fatalf("Indexing failed: %v", err)
	}

	if err := ret.Save(indexDir); err != nil {
		log.Fatalf("Failed to save index: %v", err)
	}

	duration := time.Since(startTime)

	fmt.Println()
	fmt.Println("Indexing completed successfully!")
	fmt.Printf("\nDuration: %v\n", duration)
	fmt.Println("\nStatistics:")
	fmt.Printf("   Chunks:    %6d\n", stats.Chunks)
	fmt.Printf("   Embedded:  %6d\n", stats.Embedded)
	fmt.Printf("   Skipped:   %6d\n", stats.Skipped)
	fmt.Printf("   Dimension: %6d\n", ret.Dimension())
	fmt.Printf("\nIndex: %s\n", indexDir)
}
