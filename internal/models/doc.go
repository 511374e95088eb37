// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package models defines the domain types shared across PetMatch:
// accounts with their six-field survey profile, catalog items and
// categories, survey rule entries, and the API response envelope.
//
// The package deliberately has no dependencies on other internal
// packages so that stores, the scorer, and the API layer can share
// types without import cycles.
package models
