package ats

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/resumake/resumake/internal/jobpost"
)

// Weights distributes the total score across the four components. They
// should sum to 1.
type Weights struct {
	Education  float64
	Experience float64
	Skills     float64
	Format     float64
}

// DefaultWeights mirrors how commercial trackers tend to weigh resumes:
// experience and skills dominate.
func DefaultWeights() Weights {
	return Weights{
		Education:  0.15,
		Experience: 0.35,
		Skills:     0.30,
		Format:     0.20,
	}
}

// Report holds the weighted total, its components and, when a keyword
// index was consulted, the keyword coverage.
type Report struct {
	Total      float64   `json:"total"`
	Education  float64   `json:"education"`
	Experience float64   `json:"experience"`
	Skills     float64   `json:"skills"`
	Format     float64   `json:"format"`
	Keywords   *Coverage `json:"keywords,omitempty"`
}

// Scorer scores resume text against a job posting.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given component weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score evaluates the resume text against the posting.
func (s *Scorer) Score(resumeText string, posting *jobpost.Posting) Report {
	r := Report{
		Education:  scoreEducation(resumeText),
		Experience: scoreExperience(resumeText, posting),
		Skills:     scoreSkills(resumeText, posting),
		Format:     scoreFormat(resumeText),
	}
	r.Total = r.Education*s.weights.Education +
		r.Experience*s.weights.Experience +
		r.Skills*s.weights.Skills +
		r.Format*s.weights.Format
	return r
}

var degreeKeywords = []string{
	"bachelor", "master", "phd", "degree",
	"university", "college", "b.s.", "m.s.",
	"computer science", "engineering",
}

func scoreEducation(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, keyword := range degreeKeywords {
		if containsWord(lower, keyword) {
			score += 0.25
		}
	}
	return clamp(score)
}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)`)

func scoreExperience(text string, posting *jobpost.Posting) float64 {
	score := 0.0

	required := extractYearsRequired(posting)
	if matches := yearsPattern.FindAllStringSubmatch(text, -1); matches != nil {
		maxYears := 0
		for _, m := range matches {
			if y, err := strconv.Atoi(m[1]); err == nil && y > maxYears {
				maxYears = y
			}
		}
		if maxYears >= required {
			score += 0.5
		} else {
			score += 0.3
		}
	}

	lower := strings.ToLower(text)
	for _, keyword := range experienceKeywords(posting) {
		if containsWord(lower, keyword) {
			score += 0.1
		}
	}
	return clamp(score)
}

func scoreSkills(text string, posting *jobpost.Posting) float64 {
	skills := requiredSkills(posting)
	if len(skills) == 0 {
		return 0
	}

	score := 0.0
	for _, skill := range skills {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		if pattern.MatchString(text) {
			score += 1.0 / float64(len(skills))
		}
	}
	return clamp(score)
}

var (
	sectionHeaderPattern = regexp.MustCompile(`(?i)\b(education|experience|skills|projects)\b`)
	dateRangePattern     = regexp.MustCompile(`(?i)\d{4}\s*[-–]\s*(?:\d{4}|present)`)
	bulletPattern        = regexp.MustCompile(`[•·]`)
	contactPattern       = regexp.MustCompile(`(?i)(?:email|phone|linkedin)`)
)

func scoreFormat(text string) float64 {
	score := 0.0
	if sectionHeaderPattern.MatchString(text) {
		score += 0.3
	}
	if dateRangePattern.MatchString(text) {
		score += 0.2
	}
	if bulletPattern.MatchString(text) {
		score += 0.2
	}
	if contactPattern.MatchString(text) {
		score += 0.3
	}
	return clamp(score)
}

// extractYearsRequired finds the largest years-of-experience figure in
// the posting's description and requirements.
func extractYearsRequired(posting *jobpost.Posting) int {
	haystack := strings.Join(append([]string{posting.Description}, posting.Requirements...), " ")

	required := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(haystack, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y > required {
			required = y
		}
	}
	return required
}

var actionVerbs = map[string]bool{
	"developed": true, "managed": true, "led": true, "created": true,
	"implemented": true, "designed": true, "architected": true,
	"built": true, "maintained": true,
}

// experienceKeywords collects the action verbs the posting's
// responsibilities use, in first-seen order.
func experienceKeywords(posting *jobpost.Posting) []string {
	var keywords []string
	seen := make(map[string]bool)
	wordPattern := regexp.MustCompile(`\b\w+\b`)

	for _, resp := range posting.Responsibilities {
		for _, word := range wordPattern.FindAllString(strings.ToLower(resp), -1) {
			if actionVerbs[word] && !seen[word] {
				seen[word] = true
				keywords = append(keywords, word)
			}
		}
	}
	return keywords
}

var skillPattern = regexp.MustCompile(`(?i)\b(?:Go|Golang|Python|Java|C\+\+|JavaScript|TypeScript|React|Angular|Vue|Node\.js|SQL|AWS|Docker|Kubernetes|Git|REST|gRPC|API|ML|AI|DevOps|CI/CD|Agile|Scrum)\b`)

// requiredSkills scans the posting for well-known technology names, in
// first-seen order, deduplicated case-insensitively.
func requiredSkills(posting *jobpost.Posting) []string {
	haystack := strings.Join(append(append([]string{posting.Description},
		posting.Requirements...), posting.Responsibilities...), " ")

	var skills []string
	seen := make(map[string]bool)
	for _, m := range skillPattern.FindAllString(haystack, -1) {
		lower := strings.ToLower(m)
		if !seen[lower] {
			seen[lower] = true
			skills = append(skills, m)
		}
	}
	return skills
}

func containsWord(haystack, word string) bool {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return pattern.MatchString(haystack)
}

func clamp(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Render formats the report the way a human wants to read it.
func (r Report) Render() string {
	var b strings.Builder

	b.WriteString("ATS SCORING REPORT\n")
	b.WriteString("=================\n\n")
	fmt.Fprintf(&b, "Overall Score: %.1f%%\n\n", r.Total*100)
	b.WriteString("Component Scores:\n")
	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "Education:  %.1f%%\n", r.Education*100)
	fmt.Fprintf(&b, "Experience: %.1f%%\n", r.Experience*100)
	fmt.Fprintf(&b, "Skills:     %.1f%%\n", r.Skills*100)
	fmt.Fprintf(&b, "Format:     %.1f%%\n", r.Format*100)

	if r.Keywords != nil {
		fmt.Fprintf(&b, "\nKeyword Coverage: %.1f%% (%d of %d)\n",
			r.Keywords.Score*100, len(r.Keywords.Matched),
			len(r.Keywords.Matched)+len(r.Keywords.Missing))
		if len(r.Keywords.Missing) > 0 {
			fmt.Fprintf(&b, "Missing: %s\n", strings.Join(r.Keywords.Missing, ", "))
		}
	}

	b.WriteString("\nAnalysis:\n")
	b.WriteString("--------\n")
	switch {
	case r.Total >= 0.85:
		b.WriteString("Excellent match! Your resume is well-optimized for ATS.\n")
	case r.Total >= 0.70:
		b.WriteString("Good match. Minor improvements could increase your score.\n")
	default:
		b.WriteString("Consider revising your resume to better match the job requirements.\n")
	}

	if r.Education < 0.7 {
		b.WriteString("- Education section could be more prominent or detailed.\n")
	}
	if r.Experience < 0.7 {
		b.WriteString("- Experience section could better highlight relevant achievements.\n")
	}
	if r.Skills < 0.7 {
		b.WriteString("- Skills section could better match job requirements.\n")
	}
	if r.Format < 0.7 {
		b.WriteString("- Resume format could be more ATS-friendly.\n")
	}
	return b.String()
}
