// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate, got %v", err)
	}
}

func TestDefaultScoringTable(t *testing.T) {
	cfg := Default()

	if got := cfg.Recommend.Weights.Total(); got != 10.0 {
		t.Errorf("default weights total = %g, want 10.0", got)
	}
	if cfg.Recommend.Threshold != 7.5 {
		t.Errorf("default threshold = %g, want 7.5", cfg.Recommend.Threshold)
	}
	if len(cfg.Recommend.Excluded) != 1 {
		t.Fatalf("expected one default exclusion rule, got %d", len(cfg.Recommend.Excluded))
	}
	ex := cfg.Recommend.Excluded[0]
	if ex.ResidenceEnv != "Dry environment" {
		t.Errorf("exclusion residence = %q, want %q", ex.ResidenceEnv, "Dry environment")
	}
	if len(ex.ItemPrefixes) != 2 {
		t.Errorf("exclusion prefixes = %v, want two fish prefixes", ex.ItemPrefixes)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"negative threshold", func(c *Config) { c.Recommend.Threshold = -1 }},
		{"zero weights", func(c *Config) { c.Recommend.Weights = Weights{} }},
		{"threshold above total", func(c *Config) { c.Recommend.Threshold = 10.5 }},
		{"exclusion without prefixes", func(c *Config) {
			c.Recommend.Excluded = []ExclusionRule{{ResidenceEnv: "Dry environment"}}
		}},
		{"exclusion without residence", func(c *Config) {
			c.Recommend.Excluded = []ExclusionRule{{ItemPrefixes: []string{"FI-"}}}
		}},
		{"zero generator timeout", func(c *Config) { c.Generator.Timeout = 0 }},
		{"zero max tokens", func(c *Config) { c.Generator.MaxTokens = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PETMATCH_SERVER_PORT", "server.port"},
		{"PETMATCH_GENERATOR_API_KEY", "generator.api_key"},
		{"PETMATCH_RECOMMEND_THRESHOLD", "recommend.threshold"},
		{"PETMATCH_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9100
recommend:
  threshold: 6.5
logging:
  level: debug
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, cfgFile)
	t.Setenv("PETMATCH_SERVER_PORT", "9200") // env beats file
	t.Setenv("PETMATCH_GENERATOR_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("env should override file: port = %d, want 9200", cfg.Server.Port)
	}
	if cfg.Recommend.Threshold != 6.5 {
		t.Errorf("file should override default: threshold = %g, want 6.5", cfg.Recommend.Threshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Generator.Timeout != 15*time.Second {
		t.Errorf("generator.timeout = %s, want 15s", cfg.Generator.Timeout)
	}
	// Untouched defaults survive layering.
	if cfg.Recommend.Weights.ResidenceEnv != 3.0 {
		t.Errorf("default weight lost: residence = %g, want 3.0", cfg.Recommend.Weights.ResidenceEnv)
	}
}

func TestLoadCORSFromEnv(t *testing.T) {
	t.Setenv("PETMATCH_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	got := cfg.Server.CORSOrigins
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("cors_origins = %v, want two trimmed origins", got)
	}
}
