// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package recommend

import (
	"fmt"
	"strings"

	"github.com/petmatchdev/petmatch/internal/models"
)

// Config contains the scoring parameters for the recommendation
// engine. Zero-value configs are invalid; start from DefaultConfig.
type Config struct {
	// Weights are the per-attribute match weights.
	Weights Weights

	// Threshold is the minimum weighted score at which a rule entry
	// fires. Must not exceed the total weight.
	Threshold float64

	// Excluded lists category pairings that veto a recommendation
	// regardless of score.
	Excluded []Exclusion
}

// Weights holds the per-attribute match weights.
type Weights struct {
	ResidenceEnv   float64
	PetSizePref    float64
	CarePeriod     float64
	DietManagement float64
	ActivityTime   float64
	PetColorPref   float64
}

// Of returns the weight for the given attribute slot.
func (w Weights) Of(a models.Attribute) float64 {
	switch a {
	case models.AttrResidenceEnv:
		return w.ResidenceEnv
	case models.AttrPetSizePref:
		return w.PetSizePref
	case models.AttrCarePeriod:
		return w.CarePeriod
	case models.AttrDietManagement:
		return w.DietManagement
	case models.AttrActivityTime:
		return w.ActivityTime
	case models.AttrPetColorPref:
		return w.PetColorPref
	default:
		return 0
	}
}

// Total returns the sum of all six weights, the score of a perfect
// match.
func (w Weights) Total() float64 {
	return w.ResidenceEnv + w.PetSizePref + w.CarePeriod +
		w.DietManagement + w.ActivityTime + w.PetColorPref
}

// Exclusion vetoes items whose ID carries one of the prefixes when
// the profile's residence environment equals ResidenceEnv.
type Exclusion struct {
	ItemPrefixes []string
	ResidenceEnv string
}

// DefaultConfig returns the production scoring table: weights
// residence 3.0, size 2.5, care period 1.5, diet 1.0, activity 1.0,
// color 1.0 (total 10.0), threshold 7.5, and the fish/dry-environment
// exclusion.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			ResidenceEnv:   3.0,
			PetSizePref:    2.5,
			CarePeriod:     1.5,
			DietManagement: 1.0,
			ActivityTime:   1.0,
			PetColorPref:   1.0,
		},
		Threshold: 7.5,
		Excluded: []Exclusion{
			{
				ItemPrefixes: []string{"FI-FW-", "FI-SW-"},
				ResidenceEnv: "Dry environment",
			},
		},
	}
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	total := c.Weights.Total()
	if total <= 0 {
		return fmt.Errorf("weights must sum to a positive total, got %g", total)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %g", c.Threshold)
	}
	if c.Threshold > total {
		return fmt.Errorf("threshold %g exceeds total weight %g", c.Threshold, total)
	}
	for i, ex := range c.Excluded {
		if len(ex.ItemPrefixes) == 0 {
			return fmt.Errorf("exclusion %d has no item prefixes", i)
		}
		if ex.ResidenceEnv == "" {
			return fmt.Errorf("exclusion %d has no residence environment", i)
		}
	}
	return nil
}

// vetoed reports whether an exclusion rule forbids recommending the
// item to this profile.
func (c *Config) vetoed(profile models.Profile, itemID string) bool {
	residence := profile.Value(models.AttrResidenceEnv)
	for _, ex := range c.Excluded {
		if residence != ex.ResidenceEnv {
			continue
		}
		for _, prefix := range ex.ItemPrefixes {
			if strings.HasPrefix(itemID, prefix) {
				return true
			}
		}
	}
	return false
}
