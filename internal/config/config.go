package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the aicr.yaml configuration.
type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Source  SourceConfig  `yaml:"source"`
	Enhance EnhanceConfig `yaml:"enhance"`
	GitHub  GitHubConfig  `yaml:"github"`

	// Resolved from the environment during Load, never serialized.
	GeminiAPIKey string `yaml:"-"`
	GitHubToken  string `yaml:"-"`
}

// RulesConfig selects which rule families run.
type RulesConfig struct {
	Enabled []string `yaml:"enabled"`
}

// SourceConfig controls local file collection.
type SourceConfig struct {
	Ignore []string `yaml:"ignore"`
}

// EnhanceConfig controls the LLM enhancement stage.
type EnhanceConfig struct {
	Model            string `yaml:"model"`
	BatchSize        int    `yaml:"batch_size"`
	Concurrency      int    `yaml:"concurrency"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	Retries          int    `yaml:"retries"`
	FallbackSeverity int    `yaml:"fallback_severity"`
}

// GitHubConfig controls the GitHub source provider.
type GitHubConfig struct {
	APIBase string `yaml:"api_base"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			Enabled: []string{"security", "performance", "quality"},
		},
		Source: SourceConfig{
			Ignore: []string{
				"vendor/**",
				".git/**",
				"**/.venv/**",
				"**/venv/**",
				"**/node_modules/**",
				"**/__pycache__/**",
			},
		},
		Enhance: EnhanceConfig{
			Model:            "gemini-2.0-flash",
			BatchSize:        5,
			Concurrency:      4,
			TimeoutSeconds:   60,
			Retries:          1,
			FallbackSeverity: 3,
		},
		GitHub: GitHubConfig{
			APIBase: "https://api.github.com",
		},
	}
}

// Load reads the configuration file at path, or returns the defaults
// when path is empty. Missing fields are filled with defaults,
// numeric knobs are clamped, and API credentials are resolved from
// the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.clamp()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	return cfg, nil
}

// clamp forces numeric knobs back into their valid ranges.
func (c *Config) clamp() {
	if c.Enhance.Model == "" {
		c.Enhance.Model = "gemini-2.0-flash"
	}
	if c.Enhance.BatchSize < 1 {
		c.Enhance.BatchSize = 1
	}
	if c.Enhance.BatchSize > 25 {
		c.Enhance.BatchSize = 25
	}
	if c.Enhance.Concurrency < 1 {
		c.Enhance.Concurrency = 1
	}
	if c.Enhance.Concurrency > 16 {
		c.Enhance.Concurrency = 16
	}
	if c.Enhance.TimeoutSeconds <= 0 {
		c.Enhance.TimeoutSeconds = 60
	}
	if c.Enhance.Retries < 0 {
		c.Enhance.Retries = 0
	}
	if c.Enhance.FallbackSeverity < 1 {
		c.Enhance.FallbackSeverity = 1
	}
	if c.Enhance.FallbackSeverity > 5 {
		c.Enhance.FallbackSeverity = 5
	}
	if c.GitHub.APIBase == "" {
		c.GitHub.APIBase = "https://api.github.com"
	}
}

// IsRuleFamilyEnabled returns true if the named rule family is
// enabled.
func (c *Config) IsRuleFamilyEnabled(name string) bool {
	return contains(c.Rules.Enabled, name)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
