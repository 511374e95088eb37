// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/models"
)

// RuleSource supplies the survey rule reference data. Implemented by
// the store; ordering of the returned slice does not matter, the
// scorer fixes it by rule ID.
type RuleSource interface {
	ListRuleEntries(ctx context.Context) ([]models.RuleEntry, error)
}

// ItemSource resolves catalog items. Implemented by the store.
type ItemSource interface {
	// GetItem returns nil without error when the item does not exist.
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
}

// Decision is the outcome of evaluating one (profile, item) pair.
type Decision struct {
	// Recommended is true iff a firing rule endorses the item and no
	// exclusion vetoes it.
	Recommended bool

	// Score is the weighted score of the winning rule, 0 otherwise.
	Score float64

	// RuleID identifies the winning rule, 0 when none fired.
	RuleID int

	// Matched holds the attribute slots that matched the winning rule
	// (empty unless Recommended).
	Matched models.AttributeSet

	// Mismatched holds the attribute slots that differ from the first
	// rule endorsing the item (empty when Recommended, or when no rule
	// endorses the item at all).
	Mismatched models.AttributeSet
}

// Conditions returns the attribute set the message generator should
// mention: matched slots for recommended items, mismatched slots
// otherwise.
func (d Decision) Conditions() models.AttributeSet {
	if d.Recommended {
		return d.Matched
	}
	return d.Mismatched
}

// Scorer computes recommendation decisions for (profile, item) pairs.
// It is safe for concurrent use.
type Scorer struct {
	cfg     *Config
	rules   RuleSource
	catalog ItemSource
	logger  zerolog.Logger
}

// NewScorer creates a scorer with the given configuration and data
// sources.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(cfg *Config, rules RuleSource, catalog ItemSource, logger zerolog.Logger) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer config: %w", err)
	}
	return &Scorer{
		cfg:     cfg,
		rules:   rules,
		catalog: catalog,
		logger:  logger.With().Str("component", "scorer").Logger(),
	}, nil
}

// Evaluate decides whether itemID is recommended for the profile.
// It never returns an error: input problems, missing items, and
// malformed rule data all collapse into a neutral not-recommended
// decision, logged where noteworthy.
func (s *Scorer) Evaluate(ctx context.Context, profile models.Profile, itemID string) Decision {
	d := Decision{
		Matched:    models.AttributeSet{},
		Mismatched: models.AttributeSet{},
	}

	if itemID == "" || !SurveyComplete(profile) {
		return d
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		s.logger.Error().Err(err).Str("item", itemID).Msg("item lookup failed during scoring")
		return d
	}
	if item == nil {
		s.logger.Debug().Str("item", itemID).Msg("unknown item, not recommended")
		return d
	}

	if s.cfg.vetoed(profile, itemID) {
		s.logger.Debug().Str("item", itemID).
			Str("residence", profile.Value(models.AttrResidenceEnv)).
			Msg("item vetoed by exclusion rule")
		return d
	}

	rules, err := s.rules.ListRuleEntries(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("rule load failed during scoring")
		return d
	}
	rules = sortRules(rules)

	for i := range rules {
		rule := &rules[i]
		if rule.EndorsedJSON == "" {
			continue
		}

		score, matched := s.scoreRule(profile, rule)
		if score < s.cfg.Threshold {
			continue
		}

		endorsed, err := decodeEndorsed(rule.EndorsedJSON)
		if err != nil {
			// Malformed payload counts as a non-match for this rule.
			s.logger.Warn().Err(err).Int("rule", rule.RuleID).Msg("skipping rule with malformed endorsed payload")
			continue
		}

		if containsItem(endorsed, itemID) {
			d.Recommended = true
			d.Score = score
			d.RuleID = rule.RuleID
			d.Matched = matched
			return d
		}
	}

	// Not recommended: explain via the first rule that endorses the
	// item, regardless of that rule's score.
	for i := range rules {
		rule := &rules[i]
		if rule.EndorsedJSON == "" {
			continue
		}
		endorsed, err := decodeEndorsed(rule.EndorsedJSON)
		if err != nil || !containsItem(endorsed, itemID) {
			continue
		}
		for _, a := range models.Attributes {
			pv, rv := profile.Value(a), rule.Value(a)
			if pv != "" && rv != "" && pv != rv {
				d.Mismatched.Add(a)
			}
		}
		break
	}

	return d
}

// scoreRule computes the weighted score of one rule against the
// profile and the set of attribute slots that matched. Slots absent
// on either side contribute nothing.
func (s *Scorer) scoreRule(profile models.Profile, rule *models.RuleEntry) (float64, models.AttributeSet) {
	score := 0.0
	matched := models.AttributeSet{}
	for _, a := range models.Attributes {
		pv, rv := profile.Value(a), rule.Value(a)
		if pv == "" || rv == "" || pv != rv {
			continue
		}
		score += s.cfg.Weights.Of(a)
		matched.Add(a)
	}
	return score, matched
}

// sortRules returns a copy ordered by rule ID ascending. The store's
// row order is not trusted; the fixed ordering makes the first-firing
// tie-break reproducible.
func sortRules(rules []models.RuleEntry) []models.RuleEntry {
	sorted := make([]models.RuleEntry, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RuleID < sorted[j].RuleID
	})
	return sorted
}

// endorsedItem is one element of a rule's endorsed payload. Legacy
// payloads carry productId instead of itemId; both are accepted.
type endorsedItem struct {
	ItemID    string `json:"itemId"`
	ProductID string `json:"productId"`
	Name      string `json:"itemName"`
}

// decodeEndorsed parses an endorsed-item payload into identifiers.
func decodeEndorsed(raw string) ([]string, error) {
	var entries []endorsedItem
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode endorsed payload: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		id := e.ItemID
		if id == "" {
			id = e.ProductID
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// containsItem reports whether ids contains itemID (exact match).
func containsItem(ids []string, itemID string) bool {
	for _, id := range ids {
		if id == itemID {
			return true
		}
	}
	return false
}
