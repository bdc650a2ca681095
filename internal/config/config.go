package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Resume    ResumeConfig    `yaml:"resume"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval,omitempty"`
	ATS       ATSConfig       `yaml:"ats,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Database  DatabaseConfig  `yaml:"database,omitempty"`
}

// ResumeConfig locates the master resume template
type ResumeConfig struct {
	// Path to the master resume .tex file. Glob patterns are allowed;
	// the lexically first match wins.
	Path string `yaml:"path"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama" | "openai"

	// Ollama specific
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`

	// OpenAI specific
	OpenAIAPIKey   string `yaml:"openai_api_key,omitempty"`
	OpenAIModel    string `yaml:"openai_model,omitempty"`
	OpenAIEndpoint string `yaml:"openai_endpoint,omitempty"`
}

// LLMConfig holds text-generation model configuration
type LLMConfig struct {
	Provider string `yaml:"provider"` // "ollama" | "nim"

	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`

	Temperature float32 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
}

// RetrievalConfig holds retrieval options
type RetrievalConfig struct {
	TopK int `yaml:"top_k,omitempty"` // Number of resume chunks retrieved per query
}

// ATSConfig holds the component weights for ATS scoring
type ATSConfig struct {
	EducationWeight  float64 `yaml:"education_weight,omitempty"`
	ExperienceWeight float64 `yaml:"experience_weight,omitempty"`
	SkillsWeight     float64 `yaml:"skills_weight,omitempty"`
	FormatWeight     float64 `yaml:"format_weight,omitempty"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	// Base directory for generated application documents
	Dir string `yaml:"dir,omitempty"`
}

// DatabaseConfig holds application-history database configuration
type DatabaseConfig struct {
	// Path to SQLite database file
	// If empty, uses ~/.resumake/data/applications.db
	Path string `yaml:"path,omitempty"`
}

// Load loads configuration from the default config file
// Default location: ~/.resumake/config/resumake.yaml
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".resumake", "config", "resumake.yaml")
	return LoadFromFile(configPath)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	// Secrets may live in a .env file in the working directory.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			homeDir, _ := os.UserHomeDir()
			defaultPath := filepath.Join(homeDir, ".resumake", "config", "resumake.yaml")
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   defaultPath,
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigNotFoundError is returned when config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s\n\nDefault location: %s\n\nYou can:\n"+
		"  1. Create the config file at the default location\n"+
		"  2. Specify a custom path with -config flag",
		e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks if error is config not found
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() error {
	if c.Resume.Path == "" {
		c.Resume.Path = "resume/masterResume.tex"
	}
	c.Resume.Path = expandPath(c.Resume.Path)

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Embedding.Endpoint == "" {
		c.Embedding.Endpoint = "http://localhost:11434"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text:latest"
	}
	if c.Embedding.OpenAIModel == "" {
		c.Embedding.OpenAIModel = "text-embedding-3-small"
	}
	if c.Embedding.OpenAIAPIKey == "" {
		c.Embedding.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if c.LLM.Endpoint == "" {
		switch c.LLM.Provider {
		case "nim":
			c.LLM.Endpoint = "https://integrate.api.nvidia.com/v1"
		default:
			c.LLM.Endpoint = "http://localhost:11434"
		}
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "nim":
			c.LLM.Model = "deepseek-ai/deepseek-r1"
		default:
			c.LLM.Model = "deepseek-coder:latest"
		}
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("NIM_API_KEY")
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}

	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 3
	}

	if c.ATS.EducationWeight == 0 && c.ATS.ExperienceWeight == 0 &&
		c.ATS.SkillsWeight == 0 && c.ATS.FormatWeight == 0 {
		c.ATS.EducationWeight = 0.15
		c.ATS.ExperienceWeight = 0.35
		c.ATS.SkillsWeight = 0.30
		c.ATS.FormatWeight = 0.20
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "applications"
	}
	c.Output.Dir = expandPath(c.Output.Dir)

	if c.Database.Path != "" {
		c.Database.Path = expandPath(c.Database.Path)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "ollama":
		// Local service, no credentials required
	case "openai":
		if c.Embedding.OpenAIAPIKey == "" {
			return fmt.Errorf("openai embedding provider requires openai_api_key")
		}
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}

	switch c.LLM.Provider {
	case "ollama":
	case "nim":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("nim llm provider requires api_key (or NIM_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}

	if c.Retrieval.TopK < 0 {
		return fmt.Errorf("retrieval top_k must be positive, got: %d", c.Retrieval.TopK)
	}

	sum := c.ATS.EducationWeight + c.ATS.ExperienceWeight + c.ATS.SkillsWeight + c.ATS.FormatWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("ats weights must sum to 1.0, got: %.2f", sum)
	}

	return nil
}

const defaultConfigTemplate = `# resumake configuration
#
# Copy and edit this file for your environment.
# Default location: $HOME/.resumake/config/resumake.yaml

resume:
  # Master resume LaTeX template (glob patterns allowed)
  path: resume/masterResume.tex

embedding:
  # Provider: "ollama" or "openai"
  provider: ollama
  endpoint: http://localhost:11434
  model: nomic-embed-text:latest

  # OpenAI configuration (alternative)
  # provider: openai
  # openai_api_key: your-openai-api-key
  # openai_model: text-embedding-3-small

llm:
  # Provider: "ollama" or "nim"
  provider: ollama
  endpoint: http://localhost:11434
  model: deepseek-coder:latest
  temperature: 0.7
  max_tokens: 2048

  # NVIDIA NIM configuration (alternative)
  # provider: nim
  # api_key: your-nim-api-key
  # model: deepseek-ai/deepseek-r1

retrieval:
  top_k: 3

output:
  dir: applications
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}

	return true, nil
}
