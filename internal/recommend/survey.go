// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package recommend

import "github.com/petmatchdev/petmatch/internal/models"

// SurveyComplete reports whether all six survey attributes are
// answered (non-empty after trimming). It gates every scoring and
// cache regeneration path: an incomplete survey means no
// recommendations at all.
func SurveyComplete(p models.Profile) bool {
	for _, a := range models.Attributes {
		if p.Value(a) == "" {
			return false
		}
	}
	return true
}
