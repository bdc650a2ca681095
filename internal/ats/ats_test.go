package ats

import (
	"math"
	"strings"
	"testing"

	"github.com/resumake/resumake/internal/jobpost"
)

const sampleResume = `John Doe
email: john@example.com | phone: 555-0100 | linkedin.com/in/johndoe

Experience
• Senior Backend Engineer, Acme Corp, 2019 – 2023
• Developed Go microservices on AWS with Docker
• Led a team of 4 engineers, designed REST APIs
• 6+ years of experience building distributed systems

Education
Bachelor of Science in Computer Science, State University

Skills
Go, Python, SQL, Docker, AWS, Git`

func samplePosting() *jobpost.Posting {
	return &jobpost.Posting{
		Title:       "Senior Go Engineer",
		Company:     "Acme Corp",
		Description: "We need a Go engineer with 5+ years of experience building services on AWS.",
		Requirements: []string{
			"5+ years backend experience",
			"Strong Go and SQL skills",
		},
		Responsibilities: []string{
			"Design and build REST APIs",
			"Lead projects that are developed and maintained long-term",
		},
		ATSKeywords:     []string{"Go", "AWS", "Kubernetes"},
		TechnicalSkills: []string{"Go", "SQL", "Docker"},
	}
}

func TestScoreComponents(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	report := scorer.Score(sampleResume, samplePosting())

	if report.Education < 0.75 {
		t.Errorf("Education = %v, want >= 0.75 for a resume with degree keywords", report.Education)
	}
	if report.Experience < 0.5 {
		t.Errorf("Experience = %v, want >= 0.5 when years requirement is met", report.Experience)
	}
	if report.Skills <= 0.5 {
		t.Errorf("Skills = %v, want > 0.5 when most required skills appear", report.Skills)
	}
	if report.Format != 1.0 {
		t.Errorf("Format = %v, want 1.0 for headers, dates, bullets and contact info", report.Format)
	}

	w := DefaultWeights()
	want := report.Education*w.Education + report.Experience*w.Experience +
		report.Skills*w.Skills + report.Format*w.Format
	if math.Abs(report.Total-want) > 1e-9 {
		t.Errorf("Total = %v, want weighted sum %v", report.Total, want)
	}
}

func TestScoreExperienceBelowRequirement(t *testing.T) {
	posting := samplePosting()
	posting.Description = "We need an engineer with 10+ years of experience."
	posting.Requirements = nil
	posting.Responsibilities = nil

	// Resume claims 6 years; requirement is 10.
	report := NewScorer(DefaultWeights()).Score(sampleResume, posting)
	if report.Experience != 0.3 {
		t.Errorf("Experience = %v, want 0.3 when stated years fall short", report.Experience)
	}
}

func TestScoreSkillsNoneRequired(t *testing.T) {
	posting := &jobpost.Posting{
		Title:       "Barista",
		Company:     "Cafe",
		Description: "Make coffee.",
	}

	report := NewScorer(DefaultWeights()).Score(sampleResume, posting)
	if report.Skills != 0 {
		t.Errorf("Skills = %v, want 0 when the posting names no known technologies", report.Skills)
	}
}

func TestExtractYearsRequired(t *testing.T) {
	tests := []struct {
		name    string
		posting *jobpost.Posting
		want    int
	}{
		{
			name: "from description",
			posting: &jobpost.Posting{
				Description: "Looking for 5+ years of experience",
			},
			want: 5,
		},
		{
			name: "max across requirements",
			posting: &jobpost.Posting{
				Description:  "Senior role",
				Requirements: []string{"3 years with Go", "7 yrs backend"},
			},
			want: 7,
		},
		{
			name:    "no years mentioned",
			posting: &jobpost.Posting{Description: "Great team"},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractYearsRequired(tt.posting); got != tt.want {
				t.Errorf("extractYearsRequired() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	report := Report{
		Total:      0.72,
		Education:  0.5,
		Experience: 0.8,
		Skills:     0.9,
		Format:     0.6,
		Keywords: &Coverage{
			Matched: []string{"Go"},
			Missing: []string{"Kubernetes"},
			Score:   0.5,
		},
	}

	out := report.Render()
	for _, want := range []string{
		"Overall Score: 72.0%",
		"Good match",
		"Education section could be more prominent",
		"Resume format could be more ATS-friendly",
		"Keyword Coverage: 50.0% (1 of 2)",
		"Missing: Kubernetes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if strings.Contains(out, "Experience section could") {
		t.Error("Render() should not flag components at or above 0.7")
	}
}

func TestKeywordIndexCoverage(t *testing.T) {
	ix, err := NewKeywordIndex()
	if err != nil {
		t.Fatalf("NewKeywordIndex() error = %v", err)
	}
	defer ix.Close()

	chunks := map[string]string{
		"chunk-0": "Developed Go microservices deployed with Docker on AWS",
		"chunk-1": "Designed PostgreSQL schemas and SQL queries",
	}
	for id, text := range chunks {
		if err := ix.IndexChunk(id, text, "Experience"); err != nil {
			t.Fatalf("IndexChunk() error = %v", err)
		}
	}
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}

	cov, err := ix.Coverage([]string{"Docker", "AWS", "Kubernetes"})
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if len(cov.Matched) != 2 || len(cov.Missing) != 1 {
		t.Fatalf("Coverage() = %+v, want 2 matched, 1 missing", cov)
	}
	if cov.Missing[0] != "Kubernetes" {
		t.Errorf("Missing = %v, want [Kubernetes]", cov.Missing)
	}
	if math.Abs(cov.Score-2.0/3.0) > 1e-9 {
		t.Errorf("Score = %v, want 2/3", cov.Score)
	}
}

func TestKeywordIndexEmptyKeywordList(t *testing.T) {
	ix, err := NewKeywordIndex()
	if err != nil {
		t.Fatalf("NewKeywordIndex() error = %v", err)
	}
	defer ix.Close()

	cov, err := ix.Coverage(nil)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if cov.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0 for an empty keyword list", cov.Score)
	}
}
