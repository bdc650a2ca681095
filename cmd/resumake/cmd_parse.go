package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/embedding"
	"github.com/resumake/resumake/internal/fileutil"
	"github.com/resumake/resumake/internal/jobpost"
	"github.com/resumake/resumake/internal/llm"
)

// handleParse implements the parse subcommand
func handleParse(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	postingURL := fs.String("url", "", "Job posting URL to fetch and parse")
	postingFile := fs.String("file", "", "Local file with the posting text")
	output := fs.String("o", "job.json", "Where to write the parsed posting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake parse [options]

DESCRIPTION:
    Extract a structured job posting (title, company, requirements,
    skills, ATS keywords) from a URL or a local text file using the
    configured LLM, and write it as JSON for the generate and score
    commands.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    resumake parse -url https://www.linkedin.com/jobs/4021337 -o job.json
    resumake parse -file posting.txt -o job.json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if (*postingURL == "") == (*postingFile == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -url or -file is required")
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	var content string
	var err error
	if *postingURL != "" {
		fmt.Printf("Fetching %s\n", *postingURL)
		content, err = jobpost.Fetch(ctx, *postingURL)
		if err != nil {
			log.Fatalf("Failed to fetch posting: %v", err)
		}
	} else {
		content, err = fileutil.ReadTextFile(*postingFile)
		if err != nil {
			log.Fatalf("Failed to read posting file: %v", err)
		}
	}

	client, err := llm.New(&cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	fmt.Println("Extracting structured posting data...")
	stop := embedding.StartSpinner(embedding.DefaultProgressEnabled(), "parsing")
	posting, err := jobpost.NewParser(client).Parse(ctx, content, *postingURL)
	stop()
	if err != nil {
		log.Fatalf("Failed to parse posting: %v", err)
	}

	if err := posting.Save(*output); err != nil {
		log.Fatalf("Failed to save posting: %v", err)
	}

	fmt.Println()
	fmt.Printf("Parsed: %s at %s (job id %s)\n", posting.Title, posting.Company, posting.JobID)
	fmt.Printf("   Requirements: %d\n", len(posting.Requirements))
	fmt.Printf("   Skills:       %d technical, %d soft\n", len(posting.TechnicalSkills), len(posting.SoftSkills))
	fmt.Printf("   ATS keywords: %d\n", len(posting.ATSKeywords))
	fmt.Printf("\nSaved to %s\n", *output)
}
