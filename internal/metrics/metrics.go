// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package metrics provides Prometheus instrumentation for PetMatch:
// refresh cycle outcomes, message cache efficiency, text-generation
// calls and circuit breaker state, and HTTP request latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refresh orchestrator metrics.

	RefreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_refresh_cycles_total",
			Help: "Total refresh cycles by result (completed, skipped_incomplete, noop)",
		},
		[]string{"result"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "petmatch_refresh_cycle_duration_seconds",
			Help:    "Duration of full refresh cycles in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s .. ~200s
		},
	)

	RefreshItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_refresh_items_total",
			Help: "Per-item refresh outcomes (ok, scoring_error, generation_error, cache_error)",
		},
		[]string{"outcome"},
	)

	// Message cache metrics.

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_message_cache_hits_total",
			Help: "Read-path lookups served from the message cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_message_cache_misses_total",
			Help: "Read-path lookups that fell back to live scoring",
		},
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_message_cache_invalidations_total",
			Help: "Per-user cache invalidations performed",
		},
	)

	// Text-generation collaborator metrics.

	GeneratorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_generator_requests_total",
			Help: "Text-generation requests by status (success, failure, rejected)",
		},
		[]string{"status"},
	)

	GeneratorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "petmatch_generator_request_duration_seconds",
			Help:    "Duration of text-generation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "petmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP metrics.

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petmatch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Event bus metrics.

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_events_published_total",
			Help: "Events published on the in-process bus by topic",
		},
		[]string{"topic"},
	)
)
