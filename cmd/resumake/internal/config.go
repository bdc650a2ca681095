package internal

import (
	"fmt"
	"os"

	"github.com/resumake/resumake/internal/config"
)

// LoadConfig reads the YAML config from an explicit path or the
// default location.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// PrintConfigExample writes a complete example configuration to stderr.
func PrintConfigExample() {
	homeDir, _ := os.UserHomeDir()
	configPath := fmt.Sprintf("%s/.resumake/config/resumake.yaml", homeDir)

	fmt.Fprintf(os.Stderr, `Create a configuration file at %s:

resume:
  # Master resume LaTeX template (glob patterns allowed)
  path: resume/masterResume.tex

# Embedding service (local Ollama by default)
embedding:
  provider: ollama
  endpoint: http://localhost:11434
  model: nomic-embed-text:latest

# Text generation model
llm:
  # Provider: "ollama" or "nim"
  provider: ollama
  endpoint: http://localhost:11434
  model: deepseek-coder:latest

# For NVIDIA NIM, use:
# llm:
#   provider: nim
#   api_key: your-nim-api-key    # or set NIM_API_KEY
#   model: deepseek-ai/deepseek-r1

Usage:
  1. Create the config file
  2. Run: resumake index
  3. Parse a posting: resumake parse -url <posting-url> -o job.json
  4. Generate: resumake generate -job job.json
`, configPath)
}
