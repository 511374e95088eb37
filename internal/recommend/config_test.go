// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package recommend

import (
	"testing"

	"github.com/petmatchdev/petmatch/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Weights.Total(); got != 10.0 {
		t.Errorf("total weight = %g, want 10.0", got)
	}
	if cfg.Threshold != 7.5 {
		t.Errorf("threshold = %g, want 7.5", cfg.Threshold)
	}
	if cfg.Weights.Of(models.AttrResidenceEnv) != 3.0 {
		t.Errorf("residence weight = %g, want 3.0", cfg.Weights.Of(models.AttrResidenceEnv))
	}
	if cfg.Weights.Of(models.Attribute("bogus")) != 0 {
		t.Error("unknown attribute should carry zero weight")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero weights", func(c *Config) { c.Weights = Weights{} }, true},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, true},
		{"threshold above total", func(c *Config) { c.Threshold = 10.5 }, true},
		{"threshold at total", func(c *Config) { c.Threshold = 10.0 }, false},
		{"exclusion without prefixes", func(c *Config) {
			c.Excluded = []Exclusion{{ResidenceEnv: "Dry environment"}}
		}, true},
		{"exclusion without residence", func(c *Config) {
			c.Excluded = []Exclusion{{ItemPrefixes: []string{"FI-"}}}
		}, true},
		{"no exclusions", func(c *Config) { c.Excluded = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVetoed(t *testing.T) {
	cfg := DefaultConfig()

	dry := models.Profile{ResidenceEnv: "Dry environment"}
	garden := models.Profile{ResidenceEnv: "House with garden"}

	tests := []struct {
		name    string
		profile models.Profile
		itemID  string
		want    bool
	}{
		{"freshwater fish dry", dry, "FI-FW-01", true},
		{"saltwater fish dry", dry, "FI-SW-02", true},
		{"fish with garden", garden, "FI-FW-01", false},
		{"dog dry", dry, "K9-BD-01", false},
		{"empty residence", models.Profile{}, "FI-FW-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.vetoed(tt.profile, tt.itemID); got != tt.want {
				t.Errorf("vetoed(%q, %q) = %v, want %v", tt.profile.ResidenceEnv, tt.itemID, got, tt.want)
			}
		})
	}
}
