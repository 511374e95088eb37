// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package models

import "strings"

// Attribute identifies one of the six survey preference slots.
// The string values double as the condition names handed to the
// text-generation collaborator, so they must stay stable.
type Attribute string

// The six survey attributes.
const (
	AttrResidenceEnv   Attribute = "residenceEnv"
	AttrCarePeriod     Attribute = "carePeriod"
	AttrPetColorPref   Attribute = "petColorPref"
	AttrPetSizePref    Attribute = "petSizePref"
	AttrActivityTime   Attribute = "activityTime"
	AttrDietManagement Attribute = "dietManagement"
)

// Attributes lists all six survey attributes in weight order
// (most important first). Iteration over this slice gives a fixed,
// reproducible attribute ordering everywhere it matters.
var Attributes = []Attribute{
	AttrResidenceEnv,
	AttrPetSizePref,
	AttrCarePeriod,
	AttrDietManagement,
	AttrActivityTime,
	AttrPetColorPref,
}

// AttributeSet is a set of survey attributes, used to carry the
// matched (or mismatched) slots of a scoring decision into message
// generation.
type AttributeSet map[Attribute]struct{}

// NewAttributeSet builds a set from the given attributes.
func NewAttributeSet(attrs ...Attribute) AttributeSet {
	s := make(AttributeSet, len(attrs))
	for _, a := range attrs {
		s[a] = struct{}{}
	}
	return s
}

// Add inserts an attribute into the set.
func (s AttributeSet) Add(a Attribute) {
	s[a] = struct{}{}
}

// Has reports whether the attribute is in the set.
func (s AttributeSet) Has(a Attribute) bool {
	_, ok := s[a]
	return ok
}

// Profile holds the six survey preference answers for an account.
// Empty strings mean the question has not been answered.
type Profile struct {
	ResidenceEnv   string `json:"residence_env" koanf:"residence_env"`
	CarePeriod     string `json:"care_period" koanf:"care_period"`
	PetColorPref   string `json:"pet_color_pref" koanf:"pet_color_pref"`
	PetSizePref    string `json:"pet_size_pref" koanf:"pet_size_pref"`
	ActivityTime   string `json:"activity_time" koanf:"activity_time"`
	DietManagement string `json:"diet_management" koanf:"diet_management"`
}

// Value returns the trimmed value of the given attribute slot.
// Unknown attributes return the empty string.
func (p Profile) Value(a Attribute) string {
	switch a {
	case AttrResidenceEnv:
		return strings.TrimSpace(p.ResidenceEnv)
	case AttrCarePeriod:
		return strings.TrimSpace(p.CarePeriod)
	case AttrPetColorPref:
		return strings.TrimSpace(p.PetColorPref)
	case AttrPetSizePref:
		return strings.TrimSpace(p.PetSizePref)
	case AttrActivityTime:
		return strings.TrimSpace(p.ActivityTime)
	case AttrDietManagement:
		return strings.TrimSpace(p.DietManagement)
	default:
		return ""
	}
}

// Account is the account aggregate. The survey profile is owned by
// the account and mutated only through account create/update.
type Account struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguagePref string `json:"language_pref"`
	FavCategory  string `json:"fav_category"`

	Profile Profile `json:"profile"`
}
