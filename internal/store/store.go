// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package store is the DuckDB-backed reference store: accounts with
// their survey profiles, the catalog (categories and items), and the
// survey rule entries the scorer matches against. Mutations run
// through InTx, which supports post-commit hooks so refresh triggers
// fire only after durable commit.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/config"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the DuckDB connection. Safe for concurrent use; writes
// are serialized through database/sql's connection pool.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// New opens (or creates) the database at cfg.Path and initializes the
// schema. An empty path opens an in-memory database, which is what
// tests use.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	} else {
		// Ensure the parent directory exists; DuckDB will not create it.
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load of extensions to avoid network
	// access in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		conn:   conn,
		logger: logger.With().Str("component", "store").Logger(),
	}

	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Conn exposes the underlying connection for packages that need
// direct access, such as migrations in tooling.
func (s *Store) Conn() *sql.DB {
	return s.conn
}
