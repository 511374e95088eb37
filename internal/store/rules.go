// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package store

import (
	"context"
	"fmt"

	"github.com/petmatchdev/petmatch/internal/models"
)

// ListRuleEntries returns all survey rule entries. Row order is not
// part of the contract; the scorer sorts by rule ID itself.
func (s *Store) ListRuleEntries(ctx context.Context) ([]models.RuleEntry, error) {
	const q = `
		SELECT rule_id, residence_env, care_period, pet_color_pref,
		       pet_size_pref, activity_time, diet_management, endorsed_json
		FROM survey_rules`

	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query survey rules: %w", err)
	}
	defer rows.Close()

	var entries []models.RuleEntry
	for rows.Next() {
		var e models.RuleEntry
		err := rows.Scan(&e.RuleID, &e.ResidenceEnv, &e.CarePeriod, &e.PetColorPref,
			&e.PetSizePref, &e.ActivityTime, &e.DietManagement, &e.EndorsedJSON)
		if err != nil {
			return nil, fmt.Errorf("scan survey rule: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey rules: %w", err)
	}
	return entries, nil
}

// UpsertRuleEntry inserts or replaces a survey rule entry. Rule data
// loading is administrative, like catalog loading.
func (t *Tx) UpsertRuleEntry(ctx context.Context, e models.RuleEntry) error {
	const q = `
		INSERT OR REPLACE INTO survey_rules
			(rule_id, residence_env, care_period, pet_color_pref,
			 pet_size_pref, activity_time, diet_management, endorsed_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, q, e.RuleID, e.ResidenceEnv, e.CarePeriod,
		e.PetColorPref, e.PetSizePref, e.ActivityTime, e.DietManagement, e.EndorsedJSON); err != nil {
		return fmt.Errorf("upsert survey rule %d: %w", e.RuleID, err)
	}
	return nil
}
