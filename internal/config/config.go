// Package config loads routeguard settings from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/routeguard/internal/llm"
	"github.com/dshills/routeguard/internal/risk"
)

// DefaultModel is used when neither the file, the environment, nor a flag
// names a model.
const DefaultModel = "anthropic:claude-sonnet-4-6"

// ModelEnv overrides the configured model.
const ModelEnv = "ROUTEGUARD_MODEL"

// Config is the complete runtime configuration.
type Config struct {
	Model            string      `yaml:"model"`
	MaxDocumentChars int         `yaml:"max_document_chars"`
	Temperature      float64     `yaml:"temperature"`
	MaxTokens        int         `yaml:"max_tokens"`
	Risk             risk.Config `yaml:"risk"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:            DefaultModel,
		MaxDocumentChars: llm.DefaultMaxDocumentChars,
		Temperature:      0.1,
		MaxTokens:        4096,
		Risk:             risk.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies the environment, and validates
// the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if m := os.Getenv(ModelEnv); m != "" {
		cfg.Model = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxDocumentChars <= 0 {
		return fmt.Errorf("max_document_chars must be > 0, got %d", c.MaxDocumentChars)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %g", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0, got %d", c.MaxTokens)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	return nil
}
