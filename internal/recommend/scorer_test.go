// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/models"
)

type fakeRules struct {
	entries []models.RuleEntry
	err     error
}

func (f *fakeRules) ListRuleEntries(_ context.Context) ([]models.RuleEntry, error) {
	return f.entries, f.err
}

type fakeCatalog struct {
	items map[string]models.Item
}

func (f *fakeCatalog) GetItem(_ context.Context, itemID string) (*models.Item, error) {
	if item, ok := f.items[itemID]; ok {
		return &item, nil
	}
	return nil, nil
}

func catalogWith(ids ...string) *fakeCatalog {
	items := make(map[string]models.Item, len(ids))
	for _, id := range ids {
		items[id] = models.Item{ItemID: id, ProductID: id, CategoryID: "FISH", Name: id}
	}
	return &fakeCatalog{items: items}
}

// ruleMatchingAll returns a rule whose six slots equal the profile's.
func ruleMatchingAll(id int, p models.Profile, endorsed string) models.RuleEntry {
	return models.RuleEntry{
		RuleID:         id,
		ResidenceEnv:   p.ResidenceEnv,
		CarePeriod:     p.CarePeriod,
		PetColorPref:   p.PetColorPref,
		PetSizePref:    p.PetSizePref,
		ActivityTime:   p.ActivityTime,
		DietManagement: p.DietManagement,
		EndorsedJSON:   endorsed,
	}
}

func newTestScorer(t *testing.T, cfg *Config, rules RuleSource, catalog ItemSource) *Scorer {
	t.Helper()
	s, err := NewScorer(cfg, rules, catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

func TestEvaluateIncompleteSurvey(t *testing.T) {
	p := completeProfile()
	p.DietManagement = ""

	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, completeProfile(), `[{"itemId":"EST-1"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.Recommended {
		t.Error("incomplete survey must never recommend")
	}
	if len(d.Matched) != 0 || len(d.Mismatched) != 0 {
		t.Errorf("incomplete survey should yield empty sets, got %v / %v", d.Matched, d.Mismatched)
	}
}

func TestEvaluateFullMatchScoresTotalWeight(t *testing.T) {
	p := completeProfile()
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, p, `[{"itemId":"EST-1"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if !d.Recommended {
		t.Fatal("full match on endorsing rule should recommend")
	}
	if d.Score != 10.0 {
		t.Errorf("full match score = %g, want 10.0", d.Score)
	}
	if len(d.Matched) != 6 {
		t.Errorf("full match should record six matched slots, got %d", len(d.Matched))
	}
	if d.RuleID != 1 {
		t.Errorf("winning rule = %d, want 1", d.RuleID)
	}
}

func TestEvaluateNoMatchScoresZero(t *testing.T) {
	p := completeProfile()
	rule := models.RuleEntry{
		RuleID:         1,
		ResidenceEnv:   "Apartment",
		CarePeriod:     "Short",
		PetColorPref:   "Black",
		PetSizePref:    "Large",
		ActivityTime:   "Morning",
		DietManagement: "High",
		EndorsedJSON:   `[{"itemId":"EST-1"}]`,
	}
	s := newTestScorer(t, nil, &fakeRules{entries: []models.RuleEntry{rule}}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.Recommended {
		t.Error("zero-score rule must not fire")
	}
	// All six slots are present on both sides and differ.
	if len(d.Mismatched) != 6 {
		t.Errorf("expected six mismatched slots from the endorsing rule, got %d", len(d.Mismatched))
	}
}

func TestEvaluateBelowThresholdDoesNotFire(t *testing.T) {
	p := completeProfile()
	// Rule matches only residence (3.0) and size (2.5): 5.5 < 7.5.
	rule := models.RuleEntry{
		RuleID:       1,
		ResidenceEnv: p.ResidenceEnv,
		PetSizePref:  p.PetSizePref,
		EndorsedJSON: `[{"itemId":"EST-1"}]`,
	}
	s := newTestScorer(t, nil, &fakeRules{entries: []models.RuleEntry{rule}}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.Recommended {
		t.Error("score 5.5 is below the 7.5 threshold, rule must not fire")
	}
}

func TestEvaluateThresholdBoundaryFires(t *testing.T) {
	p := completeProfile()
	// residence 3.0 + size 2.5 + care 1.5 + diet 1.0 = 8.0 >= 7.5.
	rule := models.RuleEntry{
		RuleID:         1,
		ResidenceEnv:   p.ResidenceEnv,
		PetSizePref:    p.PetSizePref,
		CarePeriod:     p.CarePeriod,
		DietManagement: p.DietManagement,
		EndorsedJSON:   `[{"itemId":"EST-1"}]`,
	}
	s := newTestScorer(t, nil, &fakeRules{entries: []models.RuleEntry{rule}}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if !d.Recommended {
		t.Fatal("8.0 >= 7.5 should fire")
	}
	if d.Score != 8.0 {
		t.Errorf("score = %g, want 8.0", d.Score)
	}
	want := []models.Attribute{
		models.AttrResidenceEnv, models.AttrPetSizePref,
		models.AttrCarePeriod, models.AttrDietManagement,
	}
	for _, a := range want {
		if !d.Matched.Has(a) {
			t.Errorf("matched set missing %s", a)
		}
	}
	if d.Matched.Has(models.AttrActivityTime) || d.Matched.Has(models.AttrPetColorPref) {
		t.Error("unmatched slots must not appear in the matched set")
	}
}

func TestEvaluateFishVetoForDryEnvironment(t *testing.T) {
	p := models.Profile{
		ResidenceEnv:   "Dry environment",
		PetSizePref:    "Small",
		CarePeriod:     "Short",
		DietManagement: "Low",
		ActivityTime:   "Low",
		PetColorPref:   "Any",
	}
	// A perfect-score rule endorses the fish; the veto must still win.
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, p, `[{"itemId":"FI-FW-01"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("FI-FW-01", "FI-SW-02"))

	for _, itemID := range []string{"FI-FW-01", "FI-SW-02"} {
		if d := s.Evaluate(context.Background(), p, itemID); d.Recommended {
			t.Errorf("%s must be vetoed for a dry environment regardless of score", itemID)
		}
	}
}

func TestEvaluateFishAllowedForOtherResidence(t *testing.T) {
	p := completeProfile() // residence "House with garden"
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, p, `[{"itemId":"FI-FW-01"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("FI-FW-01"))

	if d := s.Evaluate(context.Background(), p, "FI-FW-01"); !d.Recommended {
		t.Error("fish veto must only apply to the configured residence value")
	}
}

func TestEvaluateFirstFiringRuleWins(t *testing.T) {
	p := completeProfile()
	// Both rules fire and endorse the item; rule 3 is listed first but
	// rule 2 has the lower ID and must win.
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(3, p, `[{"itemId":"EST-1"}]`),
		ruleMatchingAll(2, p, `[{"itemId":"EST-1"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.RuleID != 2 {
		t.Errorf("winning rule = %d, want lowest rule ID 2", d.RuleID)
	}
}

func TestEvaluateMalformedEndorsedPayloadSkipsRule(t *testing.T) {
	p := completeProfile()
	broken := ruleMatchingAll(1, p, `{"not":"an array"`)
	good := ruleMatchingAll(2, p, `[{"itemId":"EST-1"}]`)
	s := newTestScorer(t, nil, &fakeRules{entries: []models.RuleEntry{broken, good}}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if !d.Recommended || d.RuleID != 2 {
		t.Errorf("malformed rule must be skipped, evaluation must continue; got rule %d recommended=%v",
			d.RuleID, d.Recommended)
	}
}

func TestEvaluateLegacyProductIDPayload(t *testing.T) {
	p := completeProfile()
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, p, `[{"productId":"EST-1","itemName":"Manx"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1"))

	if d := s.Evaluate(context.Background(), p, "EST-1"); !d.Recommended {
		t.Error("legacy productId payloads must be accepted")
	}
}

func TestEvaluateUnknownItem(t *testing.T) {
	p := completeProfile()
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(1, p, `[{"itemId":"EST-1"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1"))

	if d := s.Evaluate(context.Background(), p, "NOPE-99"); d.Recommended {
		t.Error("unknown items must not be recommended")
	}
}

func TestEvaluateRuleLoadErrorIsNeutral(t *testing.T) {
	p := completeProfile()
	s := newTestScorer(t, nil, &fakeRules{err: errors.New("db down")}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.Recommended || len(d.Matched) != 0 {
		t.Error("rule load failures must collapse into a neutral decision")
	}
}

func TestEvaluateMismatchedFromFirstEndorsingRule(t *testing.T) {
	p := completeProfile()
	// Rule 1 endorses the item but only residence differs; rule 2 also
	// endorses it with everything different. Rule 1 (lower ID) decides
	// the mismatch set.
	r1 := ruleMatchingAll(1, p, `[{"itemId":"EST-1"}]`)
	r1.ResidenceEnv = "Apartment"
	r2 := models.RuleEntry{
		RuleID:         2,
		ResidenceEnv:   "X",
		CarePeriod:     "X",
		PetColorPref:   "X",
		PetSizePref:    "X",
		ActivityTime:   "X",
		DietManagement: "X",
		EndorsedJSON:   `[{"itemId":"EST-1"}]`,
	}

	// Raise the threshold so r1's 7.0 score does not fire.
	cfg := DefaultConfig()
	cfg.Threshold = 9.0
	s := newTestScorer(t, cfg, &fakeRules{entries: []models.RuleEntry{r2, r1}}, catalogWith("EST-1"))

	d := s.Evaluate(context.Background(), p, "EST-1")
	if d.Recommended {
		t.Fatal("no rule reaches the raised threshold")
	}
	if len(d.Mismatched) != 1 || !d.Mismatched.Has(models.AttrResidenceEnv) {
		t.Errorf("mismatch set should come from rule 1 only, got %v", d.Mismatched)
	}
}

func TestEvaluateTrimsWhitespace(t *testing.T) {
	p := completeProfile()
	p.ResidenceEnv = "  House with garden  "
	rule := ruleMatchingAll(1, completeProfile(), `[{"itemId":"EST-1"}]`)
	rule.ResidenceEnv = "House with garden "
	s := newTestScorer(t, nil, &fakeRules{entries: []models.RuleEntry{rule}}, catalogWith("EST-1"))

	if d := s.Evaluate(context.Background(), p, "EST-1"); !d.Recommended {
		t.Error("slot comparison must trim both sides")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	p := completeProfile()
	rules := &fakeRules{entries: []models.RuleEntry{
		ruleMatchingAll(5, p, `[{"itemId":"EST-1"}]`),
		ruleMatchingAll(2, p, `[{"itemId":"EST-1"},{"itemId":"EST-2"}]`),
	}}
	s := newTestScorer(t, nil, rules, catalogWith("EST-1", "EST-2"))

	first := s.Evaluate(context.Background(), p, "EST-1")
	for i := 0; i < 10; i++ {
		again := s.Evaluate(context.Background(), p, "EST-1")
		if again.Recommended != first.Recommended || again.RuleID != first.RuleID || again.Score != first.Score {
			t.Fatalf("evaluation %d diverged: %+v vs %+v", i, again, first)
		}
	}
}
