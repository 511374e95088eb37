// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package msgcache persists generated recommendation messages in
// BadgerDB, keyed per (username, item). The cache is the only home of
// generated text: the read path serves from it, the refresh
// orchestrator rebuilds it, and nothing else writes recommendation
// messages anywhere.
package msgcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/metrics"
)

// ErrNotFound is returned when no cached message exists for the
// requested (username, item) pair.
var ErrNotFound = errors.New("message not found")

// recKeyPrefix namespaces recommendation entries in the shared Badger
// instance. The key layout is rec:<username>:<itemID>, so a per-user
// prefix scan covers exactly one user's entries. Usernames may not
// contain ':'.
const recKeyPrefix = "rec:"

// Entry is one cached recommendation message.
type Entry struct {
	Username    string    `json:"username"`
	ItemID      string    `json:"itemId"`
	Recommended bool      `json:"recommended"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Store is a BadgerDB-backed message cache. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens a message cache at path. An empty path opens an
// in-memory instance, which is what tests use.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open message cache: %w", err)
	}
	return NewStore(db, logger), nil
}

// NewStore wraps an already-open Badger instance.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(db *badger.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "msgcache").Logger(),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func entryKey(username, itemID string) []byte {
	return []byte(recKeyPrefix + username + ":" + itemID)
}

func userPrefix(username string) []byte {
	return []byte(recKeyPrefix + username + ":")
}

// Upsert stores or replaces the entry for (entry.Username,
// entry.ItemID). LastUpdated is stamped here if the caller left it
// zero.
func (s *Store) Upsert(_ context.Context, entry Entry) error {
	if entry.Username == "" || entry.ItemID == "" {
		return errors.New("upsert requires username and item ID")
	}
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(entryKey(entry.Username, entry.ItemID), data); err != nil {
			return fmt.Errorf("set cache entry: %w", err)
		}
		return nil
	})
}

// Get returns the cached entry for (username, itemID), or ErrNotFound.
func (s *Store) Get(_ context.Context, username, itemID string) (*Entry, error) {
	var entry Entry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(username, itemID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get cache entry: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.CacheMisses.Inc()
		}
		return nil, err
	}

	metrics.CacheHits.Inc()
	return &entry, nil
}

// GetAll returns every cached entry for username, keyed by item ID.
// A user with no entries gets an empty map, not an error.
func (s *Store) GetAll(_ context.Context, username string) (map[string]Entry, error) {
	entries := make(map[string]Entry)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(username)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("decode cache entry: %w", err)
			}
			entries[entry.ItemID] = entry
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan user entries: %w", err)
	}

	return entries, nil
}

// InvalidateUser deletes every cached entry for username and returns
// how many were removed. Deleting a user with no entries is a no-op.
func (s *Store) InvalidateUser(_ context.Context, username string) (int, error) {
	// Collect keys under a read transaction first; deleting while
	// iterating the same transaction is not supported.
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(username)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list user entries: %w", err)
	}

	count := 0
	for _, key := range keys {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return count, fmt.Errorf("delete cache entry: %w", err)
		}
		count++
	}

	if count > 0 {
		metrics.CacheInvalidations.Add(float64(count))
		s.logger.Debug().Str("user", username).Int("entries", count).Msg("invalidated cached messages")
	}
	return count, nil
}
