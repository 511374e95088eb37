// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package config provides layered configuration for PetMatch using
// Koanf v2: built-in defaults, then an optional YAML config file,
// then PETMATCH_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/petmatchdev/petmatch/internal/recommend"
)

// Config is the root configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Generator GeneratorConfig `koanf:"generator"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds DuckDB settings for the reference-data store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory,
	// which is what tests use.
	Path    string `koanf:"path"`
	Threads int    `koanf:"threads"`
}

// CacheConfig holds BadgerDB settings for the message cache store.
type CacheConfig struct {
	// Path is the Badger directory. Empty means in-memory.
	Path string `koanf:"path"`
}

// RecommendConfig holds the weighted-matching parameters. Weights and
// threshold are configuration rather than constants so tests can vary
// them; the defaults reproduce the production scoring table.
type RecommendConfig struct {
	Weights   Weights         `koanf:"weights"`
	Threshold float64         `koanf:"threshold"`
	Excluded  []ExclusionRule `koanf:"excluded"`
}

// Weights are the per-attribute match weights. They sum to the total
// score a perfect match earns.
type Weights struct {
	ResidenceEnv   float64 `koanf:"residence_env"`
	PetSizePref    float64 `koanf:"pet_size_pref"`
	CarePeriod     float64 `koanf:"care_period"`
	DietManagement float64 `koanf:"diet_management"`
	ActivityTime   float64 `koanf:"activity_time"`
	PetColorPref   float64 `koanf:"pet_color_pref"`
}

// Total returns the sum of all six weights.
func (w Weights) Total() float64 {
	return w.ResidenceEnv + w.PetSizePref + w.CarePeriod +
		w.DietManagement + w.ActivityTime + w.PetColorPref
}

// ToScorerConfig converts the configuration tree's scoring section
// into the scorer's own config type.
func (c RecommendConfig) ToScorerConfig() *recommend.Config {
	excluded := make([]recommend.Exclusion, len(c.Excluded))
	for i, ex := range c.Excluded {
		excluded[i] = recommend.Exclusion{
			ItemPrefixes: append([]string(nil), ex.ItemPrefixes...),
			ResidenceEnv: ex.ResidenceEnv,
		}
	}
	return &recommend.Config{
		Weights: recommend.Weights{
			ResidenceEnv:   c.Weights.ResidenceEnv,
			PetSizePref:    c.Weights.PetSizePref,
			CarePeriod:     c.Weights.CarePeriod,
			DietManagement: c.Weights.DietManagement,
			ActivityTime:   c.Weights.ActivityTime,
			PetColorPref:   c.Weights.PetColorPref,
		},
		Threshold: c.Threshold,
		Excluded:  excluded,
	}
}

// ExclusionRule vetoes recommendation of items whose ID carries one of
// the prefixes when the profile's residence environment equals
// ResidenceEnv, regardless of score.
type ExclusionRule struct {
	ItemPrefixes []string `koanf:"item_prefixes"`
	ResidenceEnv string   `koanf:"residence_env"`
}

// GeneratorConfig holds settings for the external text-generation
// collaborator (an OpenAI-compatible chat completions API).
type GeneratorConfig struct {
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	MaxTokens   int           `koanf:"max_tokens"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`

	// RatePerSecond bounds outbound generation calls; 0 disables
	// client-side rate limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`
	RateBurst     int     `koanf:"rate_burst"`
}

// RefreshConfig holds refresh orchestrator settings.
type RefreshConfig struct {
	// ProgressEvery logs a progress line every N processed items.
	ProgressEvery int `koanf:"progress_every"`

	// QueueBuffer is the in-process event bus buffer size.
	QueueBuffer int `koanf:"queue_buffer"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with production defaults. Defaults are
// applied first, then overridden by config file and env vars.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8486,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:    "/data/petmatch.duckdb",
			Threads: 0, // 0 = runtime.NumCPU()
		},
		Cache: CacheConfig{
			Path: "/data/messages",
		},
		Recommend: RecommendConfig{
			Weights: Weights{
				ResidenceEnv:   3.0,
				PetSizePref:    2.5,
				CarePeriod:     1.5,
				DietManagement: 1.0,
				ActivityTime:   1.0,
				PetColorPref:   1.0,
			},
			Threshold: 7.5,
			Excluded: []ExclusionRule{
				{
					// Fish need an aquatic setup.
					ItemPrefixes: []string{"FI-FW-", "FI-SW-"},
					ResidenceEnv: "Dry environment",
				},
			},
		},
		Generator: GeneratorConfig{
			BaseURL:       "https://api.openai.com",
			Model:         "gpt-4o-mini",
			MaxTokens:     200,
			Temperature:   0.7,
			Timeout:       30 * time.Second,
			RatePerSecond: 2,
			RateBurst:     4,
		},
		Refresh: RefreshConfig{
			ProgressEvery: 10,
			QueueBuffer:   64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Recommend.Threshold < 0 {
		return fmt.Errorf("recommend.threshold must be >= 0, got %g", c.Recommend.Threshold)
	}
	total := c.Recommend.Weights.Total()
	if total <= 0 {
		return fmt.Errorf("recommend.weights must sum to a positive total, got %g", total)
	}
	if c.Recommend.Threshold > total {
		return fmt.Errorf("recommend.threshold %g exceeds total weight %g (no rule could ever fire)",
			c.Recommend.Threshold, total)
	}
	for i, ex := range c.Recommend.Excluded {
		if len(ex.ItemPrefixes) == 0 {
			return fmt.Errorf("recommend.excluded[%d] has no item prefixes", i)
		}
		if ex.ResidenceEnv == "" {
			return fmt.Errorf("recommend.excluded[%d] has no residence environment", i)
		}
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator.timeout must be positive, got %s", c.Generator.Timeout)
	}
	if c.Generator.MaxTokens <= 0 {
		return fmt.Errorf("generator.max_tokens must be positive, got %d", c.Generator.MaxTokens)
	}
	if c.Refresh.ProgressEvery < 0 {
		return fmt.Errorf("refresh.progress_every must be >= 0, got %d", c.Refresh.ProgressEvery)
	}
	return nil
}
