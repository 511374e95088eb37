// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package recommend implements the survey-driven recommendation
// scoring engine.
//
// # Algorithm
//
// A profile is scored against reference rule entries. Each rule entry
// carries the same six optional attribute slots as a survey profile,
// plus a list of endorsed item identifiers. For every slot where the
// trimmed profile value equals the trimmed rule value, the slot's
// weight is added to the rule's score. A rule "fires" when its score
// reaches the configured threshold (default 7.5 of 10.0). An item is
// recommended iff some firing rule endorses it.
//
// Rules are evaluated in rule-ID order; the first firing rule that
// endorses the item wins, and its matching slots become the matched
// attribute set used for message generation. For items that are not
// recommended, the mismatched set comes from the first rule (same
// ordering) that endorses the item, regardless of that rule's score.
//
// # Design properties
//
//   - Deterministic: identical inputs produce identical decisions;
//     ordering is fixed by rule ID, never by storage order.
//   - Total: Evaluate never returns an error. Malformed rule payloads
//     count as non-matches for that rule; missing items and incomplete
//     surveys yield a neutral not-recommended decision.
//   - Configurable: weights, threshold, and exclusion rules are an
//     injected configuration record, not constants.
//
// # Thread safety
//
// The Scorer is stateless apart from its configuration and is safe
// for concurrent use.
package recommend
