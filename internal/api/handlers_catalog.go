// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/petmatchdev/petmatch/internal/models"
	"github.com/petmatchdev/petmatch/internal/msgcache"
	"github.com/petmatchdev/petmatch/internal/recommend"
	"github.com/petmatchdev/petmatch/internal/store"
)

func (rt *Router) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := rt.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "category listing failed", err)
		return
	}
	respondJSON(w, http.StatusOK, ok(cats, false))
}

func (rt *Router) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	cat, err := rt.store.GetCategory(r.Context(), categoryID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "category not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "category lookup failed", err)
		return
	}
	respondJSON(w, http.StatusOK, ok(cat, false))
}

func (rt *Router) handleListCategoryItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categoryID := chi.URLParam(r, "categoryID")

	if _, err := rt.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "category lookup failed", err)
		return
	}

	items, err := rt.store.ListItemsByCategory(ctx, categoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "item listing failed", err)
		return
	}

	views, anyCached := rt.buildItemViews(ctx, items, r.URL.Query().Get("user"))
	respondJSON(w, http.StatusOK, ok(views, anyCached))
}

func (rt *Router) handleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "itemID")

	item, err := rt.store.GetItem(ctx, itemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "item lookup failed", err)
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "item not found", nil)
		return
	}

	views, anyCached := rt.buildItemViews(ctx, []models.Item{*item}, r.URL.Query().Get("user"))
	respondJSON(w, http.StatusOK, ok(views[0], anyCached))
}

func (rt *Router) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query parameter q is required", nil)
		return
	}

	items, err := rt.store.SearchItems(ctx, strings.Fields(q))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "search failed", err)
		return
	}

	views, anyCached := rt.buildItemViews(ctx, items, r.URL.Query().Get("user"))
	respondJSON(w, http.StatusOK, ok(views, anyCached))
}

// buildItemViews assembles the read-only per-request view models.
// With no (or unknown) browsing user the items pass through bare.
// Otherwise each item consults the message cache first; a hit serves
// the cached decision and text, a miss scores synchronously for the
// flag only and never calls the text generator.
func (rt *Router) buildItemViews(ctx context.Context, items []models.Item, username string) ([]models.ItemView, bool) {
	views := make([]models.ItemView, len(items))
	for i := range items {
		views[i] = models.ItemView{Item: items[i]}
	}

	if username == "" {
		return views, false
	}
	acct, err := rt.store.GetAccount(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			rt.logger.Error().Err(err).Str("user", username).Msg("viewer lookup failed, serving bare items")
		}
		return views, false
	}
	if !recommend.SurveyComplete(acct.Profile) {
		return views, false
	}

	anyCached := false
	for i := range views {
		itemID := views[i].Item.ItemID

		entry, err := rt.cache.Get(ctx, username, itemID)
		switch {
		case err == nil:
			rec := entry.Recommended
			views[i].Recommended = &rec
			views[i].Message = entry.Message
			views[i].Source = models.SourceCache
			anyCached = true
		case errors.Is(err, msgcache.ErrNotFound):
			d := rt.scorer.Evaluate(ctx, acct.Profile, itemID)
			rec := d.Recommended
			views[i].Recommended = &rec
			views[i].Source = models.SourceLive
		default:
			rt.logger.Error().Err(err).Str("user", username).Str("item", itemID).Msg("cache read failed, serving bare item")
		}
	}
	return views, anyCached
}
