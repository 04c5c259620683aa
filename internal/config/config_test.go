package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/routeguard/internal/llm"
	"github.com/dshills/routeguard/internal/schema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "routeguard.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(ModelEnv, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != DefaultModel || cfg.MaxDocumentChars != llm.DefaultMaxDocumentChars {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Risk.HighThreshold != 1000 || cfg.Risk.MediumThreshold != 500 {
		t.Errorf("risk defaults not applied: %+v", cfg.Risk)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(ModelEnv, "")
	p := writeConfig(t, `
model: openai:gpt-4o
max_document_chars: 8000
risk:
  high_threshold: 2000
  medium_threshold: 750
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "openai:gpt-4o" || cfg.MaxDocumentChars != 8000 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Risk.HighThreshold != 2000 || cfg.Risk.MediumThreshold != 750 {
		t.Errorf("risk thresholds not applied: %+v", cfg.Risk)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxTokens != 4096 || cfg.Risk.ShipmentValueFactor != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Risk.Multipliers[schema.SeverityHigh] != 1.5 {
		t.Errorf("default multipliers lost: %v", cfg.Risk.Multipliers)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(ModelEnv, "anthropic:claude-haiku-4-5")
	p := writeConfig(t, "model: openai:gpt-4o\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "anthropic:claude-haiku-4-5" {
		t.Errorf("Model = %q, want env value", cfg.Model)
	}
}

func TestLoad_InvalidRisk(t *testing.T) {
	t.Setenv(ModelEnv, "")
	p := writeConfig(t, "risk:\n  high_threshold: 100\n  medium_threshold: 500\n")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "risk") {
		t.Errorf("expected risk validation error, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeConfig(t, "model: [unterminated\n")
	if _, err := Load(p); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero chars", func(c *Config) { c.MaxDocumentChars = 0 }},
		{"hot temperature", func(c *Config) { c.Temperature = 2.5 }},
		{"zero tokens", func(c *Config) { c.MaxTokens = 0 }},
	}
	for _, c := range cases {
		cfg := Default()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error, got nil", c.name)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() invalid: %v", err)
	}
}
