package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/resumake/resumake/cmd/resumake/internal"
	"github.com/resumake/resumake/internal/ats"
	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/fileutil"
	"github.com/resumake/resumake/internal/jobpost"
	"github.com/resumake/resumake/internal/resume"
	"github.com/resumake/resumake/internal/store"
)

// handleScore implements the score subcommand
func handleScore(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	jobFile := fs.String("job", "", "Parsed job posting JSON (from `resumake parse`)")
	resumeFile := fs.String("resume-file", "", "Resume file to score (default: the master resume)")
	output := fs.String("o", "", "Also write the report to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake score [options] -job <posting.json>

DESCRIPTION:
    Estimate how an applicant tracking system would score a resume
    against the posting: weighted education/experience/skills/format
    components plus keyword coverage over the indexed resume chunks.
    The score is recorded in the application history when the posting
    has been generated before.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    resumake score -job job.json
    resumake score -job job.json -resume-file applications/Acme_*/resume.tex
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if *jobFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -job is required")
		fs.Usage()
		os.Exit(1)
	}

	posting, err := jobpost.Load(*jobFile)
	if err != nil {
		log.Fatalf("Failed to load posting: %v", err)
	}

	resumePath := *resumeFile
	if resumePath == "" {
		resumePath = cfg.Resume.Path
	}
	resolved, err := internal.ResolveResumePath(resumePath)
	if err != nil {
		log.Fatalf("Failed to resolve resume file: %v", err)
	}
	resumeText, err := fileutil.ReadTextFile(resolved)
	if err != nil {
		log.Fatalf("Failed to read resume file: %v", err)
	}

	scorer := ats.NewScorer(ats.Weights{
		Education:  cfg.ATS.EducationWeight,
		Experience: cfg.ATS.ExperienceWeight,
		Skills:     cfg.ATS.SkillsWeight,
		Format:     cfg.ATS.FormatWeight,
	})
	report := scorer.Score(resumeText, posting)

	// Keyword coverage runs over the scored resume's own chunks, not
	// the persisted index, so a tailored resume is judged on what it
	// actually says.
	if coverage := keywordCoverage(resumeText, posting); coverage != nil {
		report.Keywords = coverage
	}

	rendered := report.Render()
	fmt.Print(rendered)

	if *output != "" {
		if err := fileutil.WriteTextFile(*output, rendered); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		fmt.Printf("\nReport saved to %s\n", *output)
	}

	recordScore(cfg, posting.JobID, report.Total)
}

func keywordCoverage(resumeText string, posting *jobpost.Posting) *ats.Coverage {
	keywords := posting.Keywords()
	if len(keywords) == 0 {
		return nil
	}

	ix, err := ats.NewKeywordIndex()
	if err != nil {
		log.Printf("warning: keyword index unavailable: %v", err)
		return nil
	}
	defer ix.Close()

	chunks := resume.Split(resumeText)
	if len(chunks) == 0 {
		// Unstructured text still gets keyword matching as one block.
		chunks = []resume.Chunk{{Text: resumeText, Metadata: map[string]string{}}}
	}
	for i, chunk := range chunks {
		if err := ix.IndexChunk(fmt.Sprintf("chunk-%d", i), chunk.Text, chunk.Metadata[resume.SectionKey]); err != nil {
			log.Printf("warning: failed to index chunk for keywords: %v", err)
			return nil
		}
	}

	coverage, err := ix.Coverage(keywords)
	if err != nil {
		log.Printf("warning: keyword coverage failed: %v", err)
		return nil
	}
	return &coverage
}

func recordScore(cfg *config.Config, jobID string, score float64) {
	if jobID == "" {
		return
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Printf("warning: failed to open history database: %v", err)
		return
	}
	defer db.Close()

	if err := db.UpdateScore(jobID, score); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("warning: failed to record score: %v", err)
		}
	}
}
