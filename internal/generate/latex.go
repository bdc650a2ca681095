package generate

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// CompilationError carries the pdflatex output so the caller can show
// what the compiler actually complained about.
type CompilationError struct {
	Output string
	Err    error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("latex compilation failed: %v", e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// HavePDFLaTeX reports whether pdflatex is on PATH.
func HavePDFLaTeX() bool {
	_, err := exec.LookPath("pdflatex")
	return err == nil
}

// CompilePDF compiles texPath into a PDF next to it. pdflatex runs
// twice so cross-references settle. Returns the PDF path.
func CompilePDF(texPath string) (string, error) {
	dir := filepath.Dir(texPath)

	for i := 0; i < 2; i++ {
		cmd := exec.Command("pdflatex", "-interaction=nonstopmode", filepath.Base(texPath))
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			return "", &CompilationError{Output: string(out), Err: err}
		}
	}

	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	return filepath.Join(dir, base+".pdf"), nil
}

// SpliceSections replaces the body of each named \section in a LaTeX
// template with new content, leaving the rest of the document intact.
// Sections the template does not contain are skipped. Only sections
// followed by another \section can be spliced; a trailing section runs
// to the document end and is matched against \end{document}.
func SpliceSections(template string, sections map[string]string) string {
	for name, content := range sections {
		if strings.TrimSpace(content) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(name)

		pattern := regexp.MustCompile(`(?s)\\section\{` + escaped + `\}.*?(\\section\{|\\end\{document\})`)
		replacement := escapeReplacement(`\section{` + name + "}\n" + content + "\n")
		template = pattern.ReplaceAllString(template, replacement+"$1")
	}
	return template
}

// escapeReplacement protects $ signs in LaTeX content from being read
// as regexp group references during replacement.
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
