package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/resume"
)

// handleQuery implements the query subcommand
func handleQuery(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	topK := fs.Int("k", cfg.Retrieval.TopK, "Number of chunks to retrieve")
	jsonOut := fs.Bool("json", false, "Print results as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake query [options] <query text>

DESCRIPTION:
    Embed the query and print the most relevant resume chunks,
    nearest first. Useful to inspect what the generate command
    would feed the LLM for a given posting.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    resumake query "Kubernetes platform engineering"
    resumake query -k 5 -json "Python AWS"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	ctx := context.Background()
	ret, _, err := loadRetriever(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	results, err := ret.RelevantExperience(ctx, query, *topK)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatalf("Failed to encode results: %v", err)
		}
		return
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, hit := range results {
		fmt.Printf("%d. [%s] distance=%.4f\n", i+1, hit.Metadata[resume.SectionKey], hit.Distance)
		for _, line := range strings.Split(hit.Text, "\n") {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}
}
