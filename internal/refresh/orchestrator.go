// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package refresh rebuilds a user's cached recommendation messages.
// A cycle invalidates the user's entries, gates on survey
// completeness, then walks the full catalog scoring each item and
// generating fresh explanation text. Per-item failures are isolated:
// a failed item's entry simply stays unwritten until the next cycle.
package refresh

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/config"
	"github.com/petmatchdev/petmatch/internal/genai"
	"github.com/petmatchdev/petmatch/internal/metrics"
	"github.com/petmatchdev/petmatch/internal/models"
	"github.com/petmatchdev/petmatch/internal/msgcache"
	"github.com/petmatchdev/petmatch/internal/recommend"
)

// Evaluator is the scoring dependency.
type Evaluator interface {
	Evaluate(ctx context.Context, profile models.Profile, itemID string) recommend.Decision
}

// ItemLister supplies the catalog to walk. Implemented by the store.
type ItemLister interface {
	ListItems(ctx context.Context) ([]models.Item, error)
}

// MessageCache is the cache surface a refresh cycle needs.
type MessageCache interface {
	InvalidateUser(ctx context.Context, username string) (int, error)
	Upsert(ctx context.Context, entry msgcache.Entry) error
}

// Outcome summarizes one refresh cycle.
type Outcome struct {
	CycleID  string
	Username string

	// Invalidated is how many stale entries were removed up front.
	Invalidated int

	// SkippedIncomplete is true when the survey gate stopped the
	// cycle; the user is left with zero cached entries.
	SkippedIncomplete bool

	Total     int
	Processed int
	Failed    int

	Duration time.Duration
}

// Orchestrator runs refresh cycles. Safe for concurrent cycles of
// different users; the trigger policy keeps same-user cycles serial.
type Orchestrator struct {
	cfg     config.RefreshConfig
	scorer  Evaluator
	catalog ItemLister
	cache   MessageCache
	gen     genai.Generator
	logger  zerolog.Logger
}

// NewOrchestrator wires a refresh orchestrator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg config.RefreshConfig, scorer Evaluator, catalog ItemLister,
	cache MessageCache, gen genai.Generator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		scorer:  scorer,
		catalog: catalog,
		cache:   cache,
		gen:     gen,
		logger:  logger.With().Str("component", "refresh").Logger(),
	}
}

// Run executes one refresh cycle for the account. Cycle-level
// failures (invalidate, catalog listing) return an error; per-item
// failures are counted in the outcome and never abort the loop.
func (o *Orchestrator) Run(ctx context.Context, account *models.Account) (Outcome, error) {
	out := Outcome{CycleID: uuid.NewString()}
	if account == nil || account.Username == "" {
		o.logger.Warn().Str("cycle", out.CycleID).Msg("refresh without username is a no-op")
		return out, nil
	}
	out.Username = account.Username

	log := o.logger.With().Str("cycle", out.CycleID).Str("user", account.Username).Logger()
	start := time.Now()
	defer func() {
		out.Duration = time.Since(start)
		metrics.RefreshDuration.Observe(out.Duration.Seconds())
	}()

	removed, err := o.cache.InvalidateUser(ctx, account.Username)
	if err != nil {
		metrics.RefreshCycles.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("cache invalidation failed, aborting refresh")
		return out, err
	}
	out.Invalidated = removed

	if !recommend.SurveyComplete(account.Profile) {
		out.SkippedIncomplete = true
		metrics.RefreshCycles.WithLabelValues("skipped").Inc()
		log.Info().Int("invalidated", removed).Msg("survey incomplete, refresh skipped after invalidation")
		return out, nil
	}

	items, err := o.catalog.ListItems(ctx)
	if err != nil {
		metrics.RefreshCycles.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("catalog listing failed, aborting refresh")
		return out, err
	}
	out.Total = len(items)

	for i := range items {
		if o.refreshItem(ctx, log, account, &items[i]) {
			out.Processed++
		} else {
			out.Failed++
		}
		if o.cfg.ProgressEvery > 0 && (i+1)%o.cfg.ProgressEvery == 0 {
			log.Info().Int("done", i+1).Int("total", out.Total).Msg("refresh progress")
		}
	}

	metrics.RefreshCycles.WithLabelValues("ok").Inc()
	log.Info().
		Int("total", out.Total).
		Int("processed", out.Processed).
		Int("failed", out.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("refresh cycle complete")
	return out, nil
}

// refreshItem scores, generates, and caches one item. A failure
// leaves the item's entry unwritten; the generic fallback text is
// never cached.
func (o *Orchestrator) refreshItem(ctx context.Context, log zerolog.Logger, account *models.Account, item *models.Item) bool {
	decision := o.scorer.Evaluate(ctx, account.Profile, item.ItemID)

	msg, err := o.gen.GenerateMessage(ctx, genai.Request{
		Item:        *item,
		Profile:     account.Profile,
		Recommended: decision.Recommended,
		Conditions:  genai.ConditionsInOrder(decision.Conditions()),
	})
	if err != nil {
		metrics.RefreshItems.WithLabelValues("generation_error").Inc()
		log.Warn().Err(err).Str("item", item.ItemID).Msg("message generation failed, entry left unwritten")
		return false
	}

	err = o.cache.Upsert(ctx, msgcache.Entry{
		Username:    account.Username,
		ItemID:      item.ItemID,
		Recommended: decision.Recommended,
		Message:     msg,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		metrics.RefreshItems.WithLabelValues("cache_error").Inc()
		log.Error().Err(err).Str("item", item.ItemID).Msg("cache upsert failed")
		return false
	}

	metrics.RefreshItems.WithLabelValues("ok").Inc()
	return true
}
