// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package api exposes the JSON HTTP surface: account create/update
// (the refresh trigger), account recommendations, and the
// cache-backed catalog read path. The browsing user is identified by
// a username parameter; authentication lives at an outer boundary.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/config"
	"github.com/petmatchdev/petmatch/internal/events"
	"github.com/petmatchdev/petmatch/internal/msgcache"
	"github.com/petmatchdev/petmatch/internal/recommend"
	"github.com/petmatchdev/petmatch/internal/store"
)

// Publisher publishes the post-commit refresh trigger.
type Publisher interface {
	PublishProfileUpdated(ev events.ProfileUpdated) error
}

// Router holds the API dependencies and builds the chi handler.
type Router struct {
	cfg      config.ServerConfig
	store    *store.Store
	cache    *msgcache.Store
	scorer   *recommend.Scorer
	bus      Publisher
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRouter wires the API router.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(cfg config.ServerConfig, st *store.Store, cache *msgcache.Store,
	scorer *recommend.Scorer, bus Publisher, logger zerolog.Logger) *Router {
	return &Router{
		cfg:      cfg,
		store:    st,
		cache:    cache,
		scorer:   scorer,
		bus:      bus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Handler builds the chi handler tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))
	if rt.cfg.RateLimitReqs > 0 {
		r.Use(httprate.Limit(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	r.Use(metricsMiddleware)

	r.Get("/healthz", rt.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", rt.handleCreateAccount)
			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", rt.handleGetAccount)
				r.Put("/", rt.handleUpdateAccount)
				r.Get("/recommendations", rt.handleGetRecommendations)
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", rt.handleListCategories)
			r.Route("/categories/{categoryID}", func(r chi.Router) {
				r.Get("/", rt.handleGetCategory)
				r.Get("/items", rt.handleListCategoryItems)
			})
			r.Get("/items/{itemID}", rt.handleGetItem)
			r.Get("/search", rt.handleSearchItems)
		})
	})

	return r
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, ok(map[string]string{"status": "healthy"}, false))
}
