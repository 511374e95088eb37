// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petmatchdev/petmatch/internal/events"
	"github.com/petmatchdev/petmatch/internal/models"
	"github.com/petmatchdev/petmatch/internal/msgcache"
	"github.com/petmatchdev/petmatch/internal/store"
)

// accountRequest is the create/update payload. The survey profile is
// part of the account aggregate; sending it updated is what triggers
// a recommendation refresh.
type accountRequest struct {
	Username     string `json:"username" validate:"omitempty,min=1,max=64"`
	Password     string `json:"password" validate:"max=128"`
	Email        string `json:"email" validate:"omitempty,email"`
	FirstName    string `json:"first_name" validate:"max=64"`
	LastName     string `json:"last_name" validate:"max=64"`
	LanguagePref string `json:"language_pref" validate:"max=32"`
	FavCategory  string `json:"fav_category" validate:"max=32"`

	Profile models.Profile `json:"profile"`
}

func (req *accountRequest) toAccount(username string) *models.Account {
	return &models.Account{
		Username:     username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		LanguagePref: req.LanguagePref,
		FavCategory:  req.FavCategory,
		Profile:      req.Profile,
	}
}

func (rt *Router) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required", nil)
		return
	}
	if err := rt.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ctx := r.Context()
	if _, err := rt.store.GetAccount(ctx, req.Username); err == nil {
		respondError(w, http.StatusConflict, "CONFLICT", "account already exists", nil)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "account lookup failed", err)
		return
	}

	acct := req.toAccount(req.Username)
	err := rt.store.InTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertAccount(ctx, acct, req.Password); err != nil {
			return err
		}
		tx.PostCommit(rt.publishProfileUpdated(acct.Username))
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "account creation failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, ok(acct, false))
}

func (rt *Router) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if req.Username != "" && req.Username != username {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username cannot be changed", nil)
		return
	}
	if err := rt.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ctx := r.Context()
	acct := req.toAccount(username)
	err := rt.store.InTx(ctx, func(tx *store.Tx) error {
		// An empty password leaves the stored credential untouched.
		if err := tx.UpdateAccount(ctx, acct, req.Password); err != nil {
			return err
		}
		tx.PostCommit(rt.publishProfileUpdated(username))
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "account update failed", err)
		return
	}

	respondJSON(w, http.StatusOK, ok(acct, false))
}

// publishProfileUpdated returns the post-commit hook for an account
// mutation. The hook re-reads the committed row so the event reflects
// durable state, then publishes exactly one trigger.
func (rt *Router) publishProfileUpdated(username string) func(context.Context) {
	return func(ctx context.Context) {
		committed, err := rt.store.GetAccount(ctx, username)
		if err != nil {
			rt.logger.Error().Err(err).Str("user", username).Msg("post-commit re-read failed, refresh trigger dropped")
			return
		}
		err = rt.bus.PublishProfileUpdated(events.ProfileUpdated{
			Username:   committed.Username,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			rt.logger.Error().Err(err).Str("user", username).Msg("refresh trigger publish failed")
		}
	}
}

func (rt *Router) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	acct, err := rt.store.GetAccount(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "account lookup failed", err)
		return
	}

	respondJSON(w, http.StatusOK, ok(acct, false))
}

func (rt *Router) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	ctx := r.Context()

	if _, err := rt.store.GetAccount(ctx, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "account lookup failed", err)
		return
	}

	entries, err := rt.cache.GetAll(ctx, username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CACHE_ERROR", "recommendation lookup failed", err)
		return
	}

	list := make([]msgcache.Entry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })

	respondJSON(w, http.StatusOK, ok(list, true))
}
