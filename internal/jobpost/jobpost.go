// Package jobpost models a parsed job posting and extracts one from
// raw posting text with an LLM.
package jobpost

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resumake/resumake/internal/fileutil"
)

// Posting is the structured form of a job advertisement.
type Posting struct {
	JobID            string   `json:"job_id,omitempty"`
	URL              string   `json:"url,omitempty"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements,omitempty"`
	TechnicalSkills  []string `json:"technical_skills,omitempty"`
	SoftSkills       []string `json:"soft_skills,omitempty"`
	ExperienceLevel  string   `json:"experience_level,omitempty"`
	Education        string   `json:"education,omitempty"`
	ATSKeywords      []string `json:"ats_keywords,omitempty"`
	CompanyValues    []string `json:"company_values,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// Decode parses a JSON posting and validates the required fields.
func Decode(data []byte) (*Posting, error) {
	var p Posting
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse job posting: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the posting carries the fields everything
// downstream depends on.
func (p *Posting) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("job posting missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SearchText flattens the posting into one query string for semantic
// retrieval: the description plus every requirement and skill.
func (p *Posting) SearchText() string {
	parts := []string{p.Title, p.Description}
	parts = append(parts, p.Requirements...)
	parts = append(parts, p.TechnicalSkills...)
	parts = append(parts, p.Responsibilities...)

	var nonEmpty []string
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// Keywords returns the posting's keyword surface for ATS matching:
// explicit ATS keywords plus technical skills, deduplicated
// case-insensitively in first-seen order.
func (p *Posting) Keywords() []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, kw := range append(append([]string{}, p.ATSKeywords...), p.TechnicalSkills...) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if !seen[lower] {
			seen[lower] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Load reads a posting previously written by Save.
func Load(path string) (*Posting, error) {
	var p Posting
	if err := fileutil.LoadJSON(path, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the posting as indented JSON.
func (p *Posting) Save(path string) error {
	return fileutil.SaveJSON(path, p)
}
