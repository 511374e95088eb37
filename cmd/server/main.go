// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package main is the entry point for the PetMatch server.
//
// PetMatch is a self-hosted pet-store backend that recommends catalog
// items from a six-question customer survey. The server initializes
// components in the following order:
//
//  1. Configuration: Koanf v2 with layered sources (defaults, config
//     file, PETMATCH_* environment variables)
//  2. Reference store: DuckDB with accounts, catalog, and survey rules
//  3. Message cache: BadgerDB holding generated explanation text
//  4. Event bus: in-process profile-updated triggers
//  5. Refresh worker: supervised consumer regenerating cached messages
//  6. HTTP server: chi-based JSON API
//
// The server handles graceful shutdown on SIGINT and SIGTERM: the
// supervision tree stops the refresh worker and drains the HTTP
// server within the configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/petmatchdev/petmatch/internal/api"
	"github.com/petmatchdev/petmatch/internal/config"
	"github.com/petmatchdev/petmatch/internal/events"
	"github.com/petmatchdev/petmatch/internal/genai"
	"github.com/petmatchdev/petmatch/internal/logging"
	"github.com/petmatchdev/petmatch/internal/msgcache"
	"github.com/petmatchdev/petmatch/internal/recommend"
	"github.com/petmatchdev/petmatch/internal/refresh"
	"github.com/petmatchdev/petmatch/internal/store"
	"github.com/petmatchdev/petmatch/internal/supervisor"
	"github.com/petmatchdev/petmatch/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Logger()
	log.Info().Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).Msg("starting petmatch server")

	db, err := store.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("open reference store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("reference store close failed")
		}
	}()

	cache, err := msgcache.Open(cfg.Cache.Path, log)
	if err != nil {
		return fmt.Errorf("open message cache: %w", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Error().Err(err).Msg("message cache close failed")
		}
	}()

	scorer, err := recommend.NewScorer(cfg.Recommend.ToScorerConfig(), db, db, log)
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	bus := events.NewBus(cfg.Refresh.QueueBuffer, log)
	defer func() {
		if err := bus.Close(); err != nil {
			log.Error().Err(err).Msg("event bus close failed")
		}
	}()

	generator := genai.NewClient(cfg.Generator, log)
	orchestrator := refresh.NewOrchestrator(cfg.Refresh, scorer, db, cache, generator, log)
	worker := refresh.NewWorker(bus, db, orchestrator, log)

	router := api.NewRouter(cfg.Server, db, cache, scorer, bus, log)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(slog.New(logging.NewSlogHandler()), treeCfg)
	tree.AddWorkerService(worker)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree: %w", err)
	}

	if report, rErr := tree.UnstoppedServiceReport(); rErr == nil && len(report) > 0 {
		for _, svc := range report {
			log.Warn().Str("service", svc.Name).Msg("service did not stop within shutdown timeout")
		}
	}

	log.Info().Msg("petmatch server stopped")
	return nil
}
