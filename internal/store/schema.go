// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package store

import "fmt"

// schemaStatements creates the reference tables. DuckDB executes each
// statement separately; CREATE TABLE IF NOT EXISTS makes startup
// idempotent across restarts.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		username      VARCHAR PRIMARY KEY,
		email         VARCHAR NOT NULL DEFAULT '',
		first_name    VARCHAR NOT NULL DEFAULT '',
		last_name     VARCHAR NOT NULL DEFAULT '',
		language_pref VARCHAR NOT NULL DEFAULT '',
		fav_category  VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS signon (
		username VARCHAR PRIMARY KEY,
		password VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		username        VARCHAR PRIMARY KEY,
		residence_env   VARCHAR NOT NULL DEFAULT '',
		care_period     VARCHAR NOT NULL DEFAULT '',
		pet_color_pref  VARCHAR NOT NULL DEFAULT '',
		pet_size_pref   VARCHAR NOT NULL DEFAULT '',
		activity_time   VARCHAR NOT NULL DEFAULT '',
		diet_management VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id VARCHAR PRIMARY KEY,
		name        VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		item_id     VARCHAR PRIMARY KEY,
		product_id  VARCHAR NOT NULL,
		category_id VARCHAR NOT NULL,
		name        VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		list_price  DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS survey_rules (
		rule_id         INTEGER PRIMARY KEY,
		residence_env   VARCHAR NOT NULL DEFAULT '',
		care_period     VARCHAR NOT NULL DEFAULT '',
		pet_color_pref  VARCHAR NOT NULL DEFAULT '',
		pet_size_pref   VARCHAR NOT NULL DEFAULT '',
		activity_time   VARCHAR NOT NULL DEFAULT '',
		diet_management VARCHAR NOT NULL DEFAULT '',
		endorsed_json   VARCHAR NOT NULL DEFAULT ''
	)`,
}

func (s *Store) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
