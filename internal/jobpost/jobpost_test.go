package jobpost

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resumake/resumake/internal/llm"
)

const validPostingJSON = `{
	"title": "Senior Go Engineer",
	"company": "Acme Corp",
	"location": "Remote",
	"description": "Build backend services in Go.",
	"requirements": ["5+ years backend experience", "Go"],
	"technical_skills": ["Go", "PostgreSQL", "AWS"],
	"soft_skills": ["communication"],
	"experience_level": "senior",
	"education": "Bachelor's degree",
	"ats_keywords": ["Go", "microservices"],
	"company_values": ["ownership"],
	"responsibilities": ["Design APIs"]
}`

func TestDecode(t *testing.T) {
	p, err := Decode([]byte(validPostingJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.Title != "Senior Go Engineer" || p.Company != "Acme Corp" {
		t.Errorf("Decode() = %q at %q", p.Title, p.Company)
	}
	if len(p.TechnicalSkills) != 3 {
		t.Errorf("expected 3 technical skills, got %d", len(p.TechnicalSkills))
	}
}

func TestDecodeMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "no title", json: `{"company": "Acme", "description": "x"}`},
		{name: "no company", json: `{"title": "Engineer", "description": "x"}`},
		{name: "no description", json: `{"title": "Engineer", "company": "Acme"}`},
		{name: "blank title", json: `{"title": "  ", "company": "Acme", "description": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.json)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSearchText(t *testing.T) {
	p, err := Decode([]byte(validPostingJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	text := p.SearchText()
	for _, want := range []string{"Senior Go Engineer", "Build backend services", "PostgreSQL", "Design APIs"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchText() missing %q", want)
		}
	}
	if strings.Contains(text, "ownership") {
		t.Error("SearchText() should not include company values")
	}
}

func TestKeywordsDeduplicates(t *testing.T) {
	p := &Posting{
		ATSKeywords:     []string{"Go", "microservices", ""},
		TechnicalSkills: []string{"go", "AWS"},
	}

	keywords := p.Keywords()
	want := []string{"Go", "microservices", "AWS"}
	if len(keywords) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", keywords, want)
	}
	for i := range want {
		if keywords[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, keywords[i], want[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, err := Decode([]byte(validPostingJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "posting.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Title != p.Title || len(loaded.Requirements) != len(p.Requirements) {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

// fakeLLM returns a canned response for every request.
type fakeLLM struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func TestParserExtractsFromFencedResponse(t *testing.T) {
	fake := &fakeLLM{response: "Here is the data:\n```json\n" + validPostingJSON + "\n```\nDone."}
	parser := NewParser(fake)

	p, err := parser.Parse(context.Background(), "some posting text", "https://www.linkedin.com/jobs/4021337")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Title != "Senior Go Engineer" {
		t.Errorf("Parse() title = %q", p.Title)
	}
	if p.JobID != "4021337" {
		t.Errorf("Parse() job id = %q, want 4021337", p.JobID)
	}
	if !strings.Contains(fake.lastReq.Prompt, "some posting text") {
		t.Error("posting content not included in the prompt")
	}
}

func TestParserExtractsBareJSON(t *testing.T) {
	fake := &fakeLLM{response: "Sure thing. " + validPostingJSON + " Hope that helps!"}
	parser := NewParser(fake)

	p, err := parser.Parse(context.Background(), "text", "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("Parse() company = %q", p.Company)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		fake    *fakeLLM
	}{
		{name: "empty content", content: "  ", fake: &fakeLLM{response: validPostingJSON}},
		{name: "llm failure", content: "text", fake: &fakeLLM{err: errors.New("model down")}},
		{name: "no json in response", content: "text", fake: &fakeLLM{response: "I could not parse that."}},
		{name: "invalid posting", content: "text", fake: &fakeLLM{response: `{"title": "x"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser(tt.fake).Parse(context.Background(), tt.content, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExtractJobID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "linkedin", url: "https://www.linkedin.com/jobs/4021337/", want: "4021337"},
		{name: "indeed", url: "https://www.indeed.com/viewjob?jk=abc123DEF", want: "abc123DEF"},
		{name: "glassdoor", url: "https://www.glassdoor.com/job?jobListingId=998877", want: "998877"},
		{name: "generic job path", url: "https://jobs.example.com/job-5150", want: "5150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJobID(tt.url); got != tt.want {
				t.Errorf("ExtractJobID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractJobIDFallsBackToDomain(t *testing.T) {
	got := ExtractJobID("https://careers.example.com/openings/senior-engineer")
	if !strings.HasPrefix(got, "careers_") {
		t.Errorf("ExtractJobID() = %q, want careers_<timestamp>", got)
	}
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>body { color: red }</style>
<script>tracking();</script></head>
<body><h1>Senior   Go Engineer</h1><p>Build &amp; run services.</p></body></html>`

	text := StripHTML(html)
	if !strings.Contains(text, "Senior Go Engineer") {
		t.Errorf("StripHTML() missing heading, got %q", text)
	}
	if !strings.Contains(text, "Build & run services.") {
		t.Errorf("StripHTML() missing entity-decoded body, got %q", text)
	}
	if strings.Contains(text, "tracking") || strings.Contains(text, "color") {
		t.Errorf("StripHTML() kept script/style content: %q", text)
	}
}
