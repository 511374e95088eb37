// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package models

import "time"

// APIResponse is the uniform response envelope for all API endpoints.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents a structured error response.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, DATABASE_ERROR,
// RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationSource says where an item's recommendation decision
// came from on the read path.
type RecommendationSource string

const (
	// SourceCache means the decision and message were served from the
	// message cache.
	SourceCache RecommendationSource = "cache"

	// SourceLive means the decision was scored synchronously because
	// the cache had no entry; no message is available in this case.
	SourceLive RecommendationSource = "live"
)

// ItemView is the read-only per-request view model assembled for
// catalog browsing: the item plus the recommendation decision and
// cached explanation for the browsing user, if any.
type ItemView struct {
	Item Item `json:"item"`

	// Recommended is nil when the browsing user is unknown or has an
	// incomplete survey (no flag is shown at all in that case).
	Recommended *bool                `json:"recommended,omitempty"`
	Message     string               `json:"message,omitempty"`
	Source      RecommendationSource `json:"source,omitempty"`
}
