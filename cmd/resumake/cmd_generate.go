package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/resumake/resumake/cmd/resumake/internal"
	"github.com/resumake/resumake/internal/ats"
	"github.com/resumake/resumake/internal/config"
	"github.com/resumake/resumake/internal/fileutil"
	"github.com/resumake/resumake/internal/generate"
	"github.com/resumake/resumake/internal/jobpost"
	"github.com/resumake/resumake/internal/llm"
	"github.com/resumake/resumake/internal/store"
)

// handleGenerate implements the generate subcommand
func handleGenerate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	jobFile := fs.String("job", "", "Parsed job posting JSON (from `resumake parse`)")
	company := fs.String("company", "", "Override company name for the output directory")
	position := fs.String("position", "", "Override position for the output directory")
	jobID := fs.String("job-id", "", "Override the job id recorded in history")
	noPDF := fs.Bool("no-pdf", false, "Skip PDF compilation, keep the .tex only")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    resumake generate [options] -job <posting.json>

DESCRIPTION:
    Generate tailored application materials for a parsed posting:
      1. Retrieve the most relevant resume chunks for the posting
      2. Rewrite the Experience and Skills sections with the LLM
      3. Splice them into the master resume and compile a PDF
      4. Write a cover letter and a company interest statement
    Every run is recorded in the application history database.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    resumake generate -job job.json
    resumake generate -job job.json -no-pdf
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
	if *company == "" {
		*company = posting.Company
	}
	if *position == "" {
		*position = posting.Title
	}
	if *jobID != "" {
		posting.JobID = *jobID
	}
	if posting.JobID == "" {
		posting.JobID = jobpost.ExtractJobID(posting.URL)
	}

	ctx := context.Background()

	ret, _, err := loadRetriever(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	resumePath, err := internal.ResolveResumePath(cfg.Resume.Path)
	if err != nil {
		log.Fatalf("Failed to resolve resume path: %v", err)
	}
	masterTemplate, err := fileutil.ReadTextFile(resumePath)
	if err != nil {
		log.Fatalf("Failed to read master resume: %v", err)
	}

	client, err := llm.New(&cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	outputDir, err := fileutil.CreateOutputDir(cfg.Output.Dir, *company, *position, posting.JobID)
	if err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	gen := generate.NewGenerator(ret, client, cfg.Retrieval.TopK)
	if *noPDF || !generate.HavePDFLaTeX() {
		if !*noPDF {
			log.Printf("warning: pdflatex not found, skipping PDF compilation")
		}
		gen.SkipPDF = true
	}

	fmt.Printf("Generating materials for %s at %s\n\n", *position, *company)

	artifacts, err := gen.Generate(ctx, posting, masterTemplate, outputDir)
	if err != nil {
		var compErr *generate.CompilationError
		if errors.As(err, &compErr) {
			tail := compErr.Output
			if len(tail) > 2000 {
				tail = tail[len(tail)-2000:]
			}
			log.Fatalf("Generation failed: %v\n%s", err, tail)
		}
		log.Fatalf("Generation failed: %v", err)
	}
	fileutil.CleanLatexArtifacts(outputDir, "resume")

	score := scoreGenerated(cfg, artifacts.ResumeTex, posting)
	recordApplication(cfg, posting, *company, *position, outputDir, score)

	fmt.Println("Generation completed successfully!")
	if score != nil {
		fmt.Printf("\nEstimated ATS score: %.0f%%\n", *score*100)
	}
	fmt.Println("\nArtifacts:")
	fmt.Printf("   Resume:           %s\n", artifacts.ResumeTex)
	if artifacts.ResumePDF != "" {
		fmt.Printf("   PDF:              %s\n", artifacts.ResumePDF)
	}
	fmt.Printf("   Cover letter:     %s\n", artifacts.CoverLetter)
	fmt.Printf("   Company interest: %s\n", artifacts.CompanyInterest)
}

// scoreGenerated scores the freshly spliced resume against the posting
// so the history record carries an ATS estimate from the start.
func scoreGenerated(cfg *config.Config, texPath string, posting *jobpost.Posting) *float64 {
	resumeText, err := fileutil.ReadTextFile(texPath)
	if err != nil {
		log.Printf("warning: failed to read generated resume for scoring: %v", err)
		return nil
	}

	scorer := ats.NewScorer(ats.Weights{
		Education:  cfg.ATS.EducationWeight,
		Experience: cfg.ATS.ExperienceWeight,
		Skills:     cfg.ATS.SkillsWeight,
		Format:     cfg.ATS.FormatWeight,
	})
	report := scorer.Score(resumeText, posting)
	return &report.Total
}

func recordApplication(cfg *config.Config, posting *jobpost.Posting, company, position, outputDir string, score *float64) {
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Printf("warning: failed to open history database: %v", err)
		return
	}
	defer db.Close()

	err = db.Create(&store.Application{
		JobID:     posting.JobID,
		Company:   company,
		Position:  position,
		URL:       posting.URL,
		OutputDir: outputDir,
		ATSScore:  score,
	})
	if err != nil {
		// A rerun for the same posting keeps the original record.
		if strings.Contains(err.Error(), "UNIQUE") {
			log.Printf("application for job %s already recorded", posting.JobID)
			return
		}
		log.Printf("warning: failed to record application: %v", err)
	}
}
