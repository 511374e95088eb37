// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package genai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/petmatchdev/petmatch/internal/models"
)

const systemPrompt = "You are a friendly pet store assistant. " +
	"You explain to a customer, in one short sentence, why a pet does or does not suit their survey answers."

// attributeLabels maps survey slots to the phrasing used in prompts.
var attributeLabels = map[models.Attribute]string{
	models.AttrResidenceEnv:   "residence environment",
	models.AttrCarePeriod:     "care period",
	models.AttrPetColorPref:   "pet color preference",
	models.AttrPetSizePref:    "pet size preference",
	models.AttrActivityTime:   "activity time",
	models.AttrDietManagement: "diet management",
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from catalog descriptions, which carry
// legacy inline HTML.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, " "))
}

// buildPrompt renders the user prompt for one request. A recommended
// item lists only the matched preferences; a non-recommended item
// lists each mismatched preference as "the customer prefers X, but
// this pet does not match".
func buildPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Pet: %s (category %s).", req.Item.Name, req.Item.CategoryID)
	if desc := stripHTML(req.Item.Description); desc != "" {
		fmt.Fprintf(&sb, " Description: %s.", desc)
	}
	sb.WriteString("\n")

	if req.Recommended {
		sb.WriteString("This pet is recommended for the customer. Matched preferences:\n")
		for _, a := range req.Conditions {
			fmt.Fprintf(&sb, "- %s: %s\n", attributeLabels[a], req.Profile.Value(a))
		}
		sb.WriteString("Write one friendly sentence (at most 150 characters) telling the customer why this pet fits them.")
	} else {
		sb.WriteString("This pet is not a good match for the customer.\n")
		for _, a := range req.Conditions {
			fmt.Fprintf(&sb, "- The customer prefers %s %q, but this pet does not match.\n",
				attributeLabels[a], req.Profile.Value(a))
		}
		sb.WriteString("Write one gentle sentence (at most 150 characters) explaining why this pet may not be the best fit.")
	}

	return sb.String()
}

// FallbackMessage is the generic text used at synchronous call sites
// when generation fails and an immediate answer is needed. The refresh
// orchestrator never caches it.
func FallbackMessage(recommended bool) string {
	if recommended {
		return "We recommend this pet based on your preferences."
	}
	return "This pet may not be the best match for your preferences."
}

// ConditionsInOrder converts a decision's attribute set into the fixed
// presentation order used by prompts.
func ConditionsInOrder(set models.AttributeSet) []models.Attribute {
	ordered := make([]models.Attribute, 0, len(set))
	for _, a := range models.Attributes {
		if set.Has(a) {
			ordered = append(ordered, a)
		}
	}
	return ordered
}
