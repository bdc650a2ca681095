package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/resumake/resumake/internal/fileutil"
)

// ResolveResumePath resolves the master resume path from config. A
// literal path is made absolute; a glob pattern resolves to the first
// matching file.
func ResolveResumePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("resume path is empty")
	}

	if strings.ContainsAny(path, "*?[") {
		root := "."
		pattern := path
		if filepath.IsAbs(path) {
			root = string(filepath.Separator)
			pattern = strings.TrimPrefix(path, root)
		}
		match, err := fileutil.FindFirst(root, pattern)
		if err != nil {
			return "", err
		}
		if match == "" {
			return "", fmt.Errorf("no file matches resume pattern %q", path)
		}
		path = match
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("resume file not found: %s", absPath)
	}
	return absPath, nil
}

// DefaultIndexDir derives the vector index directory for a resume
// file. Distinct resumes get distinct directories via a path hash, so
// switching resumes never silently reuses another resume's index.
func DefaultIndexDir(resumePath string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	name := sanitizeName(strings.TrimSuffix(filepath.Base(resumePath), filepath.Ext(resumePath)))
	hash := sha1.Sum([]byte(resumePath))
	suffix := hex.EncodeToString(hash[:])[:12]
	return filepath.Join(homeDir, ".resumake", "data", fmt.Sprintf("index-%s-%s", name, suffix)), nil
}

// DefaultDBPath returns the application-history database path used
// when the config does not set one.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".resumake", "data", "applications.db"), nil
}

func sanitizeName(name string) string {
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "resume"
	}
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	if b.Len() == 0 {
		return "resume"
	}
	return b.String()
}
