package jobpost

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/resumake/resumake/internal/llm"
)

const parseSystemPrompt = `You are a job posting analyst. You extract structured data from
job advertisements and respond with a single JSON object, nothing else.`

const parsePromptTemplate = `Extract key information from the job posting content below.
Follow these guidelines:
1. Identify all required and preferred qualifications
2. Extract technical and soft skills separately
3. Determine experience level and education requirements
4. Identify company culture indicators
5. Extract key responsibilities

Respond with a JSON object using exactly these keys:
"title", "company", "location", "description", "requirements",
"technical_skills", "soft_skills", "experience_level", "education",
"ats_keywords", "company_values", "responsibilities".
List-valued keys hold arrays of strings; the rest hold strings.

Content:
%s`

// Parser turns raw posting text into a structured Posting using an LLM.
type Parser struct {
	client llm.Client
}

// NewParser creates a parser backed by the given LLM client.
func NewParser(client llm.Client) *Parser {
	return &Parser{client: client}
}

// Parse extracts a structured posting from raw text. The sourceURL may
// be empty; when present it seeds the job ID and is recorded on the
// posting.
func (p *Parser) Parse(ctx context.Context, content, sourceURL string) (*Posting, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("job posting content is empty")
	}

	response, err := p.client.Generate(ctx, llm.Request{
		System: parseSystemPrompt,
		Prompt: fmt.Sprintf(parsePromptTemplate, content),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse job content: %w", err)
	}

	payload, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	posting, err := Decode([]byte(payload))
	if err != nil {
		return nil, err
	}
	posting.URL = sourceURL
	posting.JobID = ExtractJobID(sourceURL)
	return posting, nil
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls the JSON object out of an LLM response that may
// wrap it in markdown fences or surrounding prose.
func ExtractJSON(response string) (string, error) {
	if m := fencePattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("llm response contains no JSON object")
	}
	return response[start : end+1], nil
}

var jobIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`jobs/(\d+)`),           // LinkedIn
	regexp.MustCompile(`jk=([a-zA-Z0-9]+)`),    // Indeed
	regexp.MustCompile(`jobListingId=(\d+)`),   // Glassdoor
	regexp.MustCompile(`jobs?[-/_](?:view/)?(\d+)`),
	regexp.MustCompile(`positions?[/_](\d+)`),
}

// ExtractJobID derives a stable job identifier from a posting URL.
// Unknown URL shapes fall back to the source domain plus a timestamp;
// an empty URL yields a bare timestamp.
func ExtractJobID(sourceURL string) string {
	if sourceURL == "" {
		return fmt.Sprintf("%d", time.Now().Unix())
	}

	for _, pattern := range jobIDPatterns {
		if m := pattern.FindStringSubmatch(sourceURL); m != nil {
			return m[1]
		}
	}

	if u, err := url.Parse(sourceURL); err == nil && u.Hostname() != "" {
		domain := strings.Split(u.Hostname(), ".")[0]
		return fmt.Sprintf("%s_%d", domain, time.Now().Unix())
	}
	return fmt.Sprintf("%d", time.Now().Unix())
}
