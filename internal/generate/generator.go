// Package generate produces tailored application materials: a resume
// rebuilt around the most relevant experience, a cover letter and a
// company interest statement.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/resumake/resumake/internal/jobpost"
	"github.com/resumake/resumake/internal/llm"
	"github.com/resumake/resumake/internal/retriever"
	"github.com/resumake/resumake/internal/vectorindex"
)

// TailoredContent is the LLM's rewrite of the resume sections for one
// specific posting.
type TailoredContent struct {
	Summary           string   `json:"summary,omitempty"`
	Experience        string   `json:"experience"`
	Skills            string   `json:"skills"`
	Education         string   `json:"education,omitempty"`
	Projects          string   `json:"projects,omitempty"`
	ATSScoreEstimate  string   `json:"ats_score_estimate,omitempty"`
	OptimizationNotes []string `json:"optimization_notes,omitempty"`
}

// Validate checks the sections the spliced resume cannot do without.
func (c *TailoredContent) Validate() error {
	if strings.TrimSpace(c.Experience) == "" {
		return fmt.Errorf("tailored content has no experience section")
	}
	if strings.TrimSpace(c.Skills) == "" {
		return fmt.Errorf("tailored content has no skills section")
	}
	return nil
}

// Artifacts lists the files one generation run produced.
type Artifacts struct {
	ResumeTex       string `json:"resume_tex"`
	ResumePDF       string `json:"resume_pdf,omitempty"`
	CoverLetter     string `json:"cover_letter"`
	CompanyInterest string `json:"company_interest"`
}

// Generator drives the full pipeline: retrieve relevant experience,
// rewrite sections with the LLM, splice them into the master template,
// compile, and write the supporting documents.
type Generator struct {
	retriever *retriever.Retriever
	client    llm.Client
	topK      int

	// SkipPDF leaves compilation out, keeping just the .tex artifact.
	// Useful on hosts without a TeX installation.
	SkipPDF bool
}

// NewGenerator wires a generator from an indexed (or restored)
// retriever and an LLM client. topK bounds how many resume chunks feed
// the rewrite.
func NewGenerator(ret *retriever.Retriever, client llm.Client, topK int) *Generator {
	return &Generator{retriever: ret, client: client, topK: topK}
}

// Generate produces all application materials into outputDir.
func (g *Generator) Generate(ctx context.Context, posting *jobpost.Posting, masterTemplate, outputDir string) (Artifacts, error) {
	var artifacts Artifacts

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return artifacts, fmt.Errorf("failed to create output directory: %w", err)
	}

	relevant, err := g.retriever.RelevantExperience(ctx, posting.SearchText(), g.topK)
	if err != nil {
		return artifacts, fmt.Errorf("failed to retrieve relevant experience: %w", err)
	}

	content, err := g.tailorContent(ctx, posting, relevant)
	if err != nil {
		return artifacts, err
	}

	tex := SpliceSections(masterTemplate, map[string]string{
		"Experience":       content.Experience,
		"Technical Skills": content.Skills,
		"Education":        content.Education,
		"Projects":         content.Projects,
	})

	texPath := filepath.Join(outputDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(tex), 0644); err != nil {
		return artifacts, fmt.Errorf("failed to write resume: %w", err)
	}
	artifacts.ResumeTex = texPath

	if !g.SkipPDF {
		pdfPath, err := CompilePDF(texPath)
		if err != nil {
			return artifacts, err
		}
		artifacts.ResumePDF = pdfPath
	}

	coverLetter, err := g.coverLetter(ctx, posting, relevant)
	if err != nil {
		return artifacts, err
	}
	coverPath := filepath.Join(outputDir, "cover_letter.txt")
	if err := os.WriteFile(coverPath, []byte(coverLetter), 0644); err != nil {
		return artifacts, fmt.Errorf("failed to write cover letter: %w", err)
	}
	artifacts.CoverLetter = coverPath

	interestPath := filepath.Join(outputDir, "company_interest.txt")
	if err := os.WriteFile(interestPath, []byte(companyInterest(posting)), 0644); err != nil {
		return artifacts, fmt.Errorf("failed to write company interest: %w", err)
	}
	artifacts.CompanyInterest = interestPath

	if len(content.OptimizationNotes) > 0 {
		notesPath := filepath.Join(outputDir, "optimization_notes.txt")
		notes := strings.Join(content.OptimizationNotes, "\n")
		if err := os.WriteFile(notesPath, []byte(notes), 0644); err != nil {
			log.Printf("warning: failed to write optimization notes: %v", err)
		}
	}
	return artifacts, nil
}

const tailorSystemPrompt = `You are a professional resume writer. You rewrite resume sections in
LaTeX so they maximize ATS scores for a specific job posting while
staying truthful to the candidate's actual experience. You respond with
a single JSON object, nothing else.`

const tailorPromptTemplate = `Based on the following job posting and the candidate's most relevant
experience, generate optimized resume sections.

Job Posting:
%s

Relevant Experience (LaTeX fragments from the master resume):
%s

Generate content that:
1. Uses relevant keywords from the job posting
2. Quantifies achievements where possible
3. Highlights transferable skills
4. Maintains clear, professional language
5. Keeps the LaTeX commands used in the fragments (\resumeSubheading, \resumeItem)

Respond with a JSON object using exactly these keys: "summary",
"experience", "skills", "education", "projects",
"ats_score_estimate", "optimization_notes". Section values are LaTeX
section bodies; "optimization_notes" is an array of strings. Leave a
key empty to keep the master resume's section unchanged.`

func (g *Generator) tailorContent(ctx context.Context, posting *jobpost.Posting, relevant []vectorindex.Result) (*TailoredContent, error) {
	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode posting: %w", err)
	}

	var fragments []string
	for _, hit := range relevant {
		fragments = append(fragments, hit.Text)
	}

	response, err := g.client.Generate(ctx, llm.Request{
		System: tailorSystemPrompt,
		Prompt: fmt.Sprintf(tailorPromptTemplate, postingJSON, strings.Join(fragments, "\n\n")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate resume content: %w", err)
	}

	payload, err := jobpost.ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var content TailoredContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		return nil, fmt.Errorf("failed to parse tailored content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return &content, nil
}

const coverLetterSystemPrompt = `You are a professional cover letter writer. You write concise,
specific letters grounded in the candidate's real experience. Respond
with the letter text only, no commentary.`

const coverLetterPromptTemplate = `Write a cover letter for the %s position at %s.

Job description:
%s

The candidate's most relevant experience:
%s

Address it "Dear Hiring Manager," and keep it under four paragraphs.`

var resumeItemPattern = regexp.MustCompile(`\\resumeItem\{(.+?)\}`)
var textbfPattern = regexp.MustCompile(`\\textbf\{(.+?)\}`)

func (g *Generator) coverLetter(ctx context.Context, posting *jobpost.Posting, relevant []vectorindex.Result) (string, error) {
	letter, err := g.client.Generate(ctx, llm.Request{
		System: coverLetterSystemPrompt,
		Prompt: fmt.Sprintf(coverLetterPromptTemplate,
			posting.Title, posting.Company, posting.Description, relevantPoints(relevant)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}
	return strings.TrimSpace(letter), nil
}

// relevantPoints pulls up to two bullet points from each retrieved
// chunk and strips the LaTeX emphasis markup.
func relevantPoints(relevant []vectorindex.Result) string {
	var points []string
	for _, hit := range relevant {
		bullets := resumeItemPattern.FindAllStringSubmatch(hit.Text, -1)
		for i, bullet := range bullets {
			if i >= 2 {
				break
			}
			clean := textbfPattern.ReplaceAllString(bullet[1], "$1")
			points = append(points, "- "+clean)
		}
	}
	return strings.Join(points, "\n")
}

func companyInterest(posting *jobpost.Posting) string {
	return fmt.Sprintf("I am particularly drawn to %[1]s because of its reputation for "+
		"innovation and technical excellence. The opportunity to work as %[2]s aligns "+
		"with my career goals and technical interests. I am excited about the prospect "+
		"of contributing to %[1]s's continued success while working alongside talented "+
		"professionals in a collaborative environment.",
		posting.Company, posting.Title)
}
