package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/resume"
	"github.com/resumake/resumake/internal/store"
)

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake stats

DESCRIPTION:
    Show statistics for the resume index and the application history.
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	ctx := context.Background()

	ret, indexDir, err := loadRetriever(ctx, cfg)
	if err != nil {
		fmt.Printf("Resume index: not built (%v)\n", err)
	} else {
		sections := make(map[string]int)
		ret.EachChunk(func(text string, metadata map[string]string) {
			sections[metadata[resume.SectionKey]]++
		})

		fmt.Println("Resume index:")
		fmt.Printf("   Location:  %s\n", indexDir)
		fmt.Printf("   Chunks:    %d\n", ret.Len())
		fmt.Printf("   Dimension: %d\n", ret.Dimension())
		fmt.Println("   Sections:")
		for name, count := range sections {
			fmt.Printf("      %-20s %d\n", name, count)
		}
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	fmt.Println("\nApplication history:")
	fmt.Printf("   Applications: %d\n", stats.ApplicationCount)
	fmt.Printf("   Companies:    %d\n", stats.CompanyCount)
	if stats.ApplicationCount > 0 {
		fmt.Printf("   Avg score:    %.0f%%\n", stats.AverageATSScore*100)
	}
	fmt.Printf("   Database:     %s (%d bytes)\n", cfg.Database.Path, stats.SizeBytes)
}
