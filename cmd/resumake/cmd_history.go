package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/store"
)

// handleHistory implements the history subcommand
func handleHistory(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	company := fs.String("company", "", "Filter by company (substring match)")
	limit := fs.Int("limit", 20, "Maximum number of entries (0 for all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake history [options]

DESCRIPTION:
    List previously generated applications, newest first.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    resumake history
    resumake history -company acme -limit 5
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer db.Close()

	apps, err := db.List(*company, *limit)
	if err != nil {
		log.Fatalf("Failed to list applications: %v", err)
	}
	if len(apps) == 0 {
		fmt.Println("No applications recorded yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCOMPANY\tPOSITION\tSCORE\tSTATUS\tJOB ID")
	for _, app := range apps {
		score := "-"
		if app.ATSScore != nil {
			score = fmt.Sprintf("%.0f%%", *app.ATSScore*100)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			app.CreatedAt.Local().Format("2006-01-02"),
			app.Company, app.Position, score, app.Status, app.JobID)
	}
	w.Flush()
}
