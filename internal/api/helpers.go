// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/petmatchdev/petmatch/internal/logging"
	"github.com/petmatchdev/petmatch/internal/models"
)

// ok wraps payload data in the standard response envelope.
func ok(data interface{}, cached bool) *models.APIResponse {
	return &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Cached:    cached,
		},
	}
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError sends a structured error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("api error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeBody decodes a JSON request body into v, bounding the read.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
