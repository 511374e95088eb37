// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package models

// Category is read-only catalog reference data.
type Category struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Item is read-only catalog reference data. Every item belongs to
// exactly one category and one underlying product.
type Item struct {
	ItemID      string `json:"item_id"`
	ProductID   string `json:"product_id"`
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ListPrice   float64 `json:"list_price"`
}

// RuleEntry is a survey reference pattern: six optional attribute
// slots plus a JSON payload of endorsed item identifiers. Rule entries
// are loaded in bulk per evaluation and never mutated.
type RuleEntry struct {
	RuleID int `json:"rule_id"`

	ResidenceEnv   string `json:"residence_env"`
	CarePeriod     string `json:"care_period"`
	PetColorPref   string `json:"pet_color_pref"`
	PetSizePref    string `json:"pet_size_pref"`
	ActivityTime   string `json:"activity_time"`
	DietManagement string `json:"diet_management"`

	// EndorsedJSON is the raw endorsed-item payload, a JSON array of
	// objects carrying an item identifier. Malformed payloads are
	// treated as a non-match by the scorer, never as an error.
	EndorsedJSON string `json:"endorsed_json"`
}

// Value returns the trimmed value of the given attribute slot of the
// rule pattern. Mirrors Profile.Value so the scorer can compare slots
// generically.
func (r RuleEntry) Value(a Attribute) string {
	p := Profile{
		ResidenceEnv:   r.ResidenceEnv,
		CarePeriod:     r.CarePeriod,
		PetColorPref:   r.PetColorPref,
		PetSizePref:    r.PetSizePref,
		ActivityTime:   r.ActivityTime,
		DietManagement: r.DietManagement,
	}
	return p.Value(a)
}
