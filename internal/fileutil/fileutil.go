// Package fileutil holds the small filesystem helpers the pipeline
// shares: output directory naming, JSON round-trips and LaTeX
// artifact cleanup.
package fileutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// EnsureDir creates the directory (and parents) if needed.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CreateOutputDir creates a per-application directory under baseDir
// named <company>_<position>_<jobID>_<timestamp>, with the parts
// sanitized for the filesystem.
func CreateOutputDir(baseDir, company, position, jobID string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%s_%s",
		Sanitize(company), Sanitize(position), Sanitize(jobID), timestamp)

	dir := filepath.Join(baseDir, name)
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Sanitize keeps letters, digits, dashes and underscores; spaces become
// underscores and everything else is dropped.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ReadTextFile reads a file as a string.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteTextFile writes content, creating parent directories as needed.
func WriteTextFile(path, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SaveJSON writes v as indented JSON.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads JSON into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// FindFirst returns the first file under root matching the glob
// pattern (doublestar syntax, so ** crosses directories), or "" when
// nothing matches.
func FindFirst(root, pattern string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return "", fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	for _, m := range matches {
		full := filepath.Join(root, m)
		info, err := os.Stat(full)
		if err == nil && !info.IsDir() {
			return full, nil
		}
	}
	return "", nil
}

// latex auxiliary files left behind by pdflatex
var latexAuxExtensions = []string{".aux", ".log", ".out", ".toc"}

// CleanLatexArtifacts removes pdflatex auxiliary files for baseName in
// dir. Missing files are not an error.
func CleanLatexArtifacts(dir, baseName string) {
	for _, ext := range latexAuxExtensions {
		_ = os.Remove(filepath.Join(dir, baseName+ext))
	}
}
