// Package resume splits a LaTeX master resume into section-tagged
// chunks suitable for semantic indexing.
package resume

import (
	"regexp"
	"strings"
)

// SectionKey is the metadata key carrying the enclosing section name.
const SectionKey = "section"

// Chunk is a contiguous span of resume text tagged with its section.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

var (
	sectionPattern    = regexp.MustCompile(`^\\section\{(.+?)\}`)
	subsectionPattern = regexp.MustCompile(`^\\resumeSubheading\{(.+?)\}\{(.+?)\}\{(.+?)\}\{(.+?)\}`)
)

// Split chunks a resume at section and subsection boundaries. A
// \section{...} line always starts a new chunk carrying the section
// name; a \resumeSubheading{...}{...}{...}{...} line starts a new chunk
// only once a section is open, inheriting the section name. Lines
// before the first section marker are never emitted, so a document
// without section markers produces no chunks at all.
func Split(text string) []Chunk {
	var chunks []Chunk
	var currentText []string
	currentSection := ""

	flush := func() {
		if currentSection != "" && len(currentText) > 0 {
			chunks = append(chunks, Chunk{
				Text:     strings.Join(currentText, "\n"),
				Metadata: map[string]string{SectionKey: currentSection},
			})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentSection = m[1]
			currentText = []string{line}
			continue
		}

		if subsectionPattern.MatchString(line) && currentSection != "" {
			flush()
			currentText = []string{line}
			continue
		}

		currentText = append(currentText, line)
	}

	flush()
	return chunks
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

// Sections returns the distinct section names in document order.
func Sections(chunks []Chunk) []string {
	var sections []string
	seen := make(map[string]bool)
	for _, c := range chunks {
		name := c.Metadata[SectionKey]
		if !seen[name] {
			seen[name] = true
			sections = append(sections, name)
		}
	}
	return sections
}
