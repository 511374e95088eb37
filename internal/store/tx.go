// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx is one store transaction. Mutating methods live on Tx so every
// write is transactional, and callers can register post-commit hooks
// that run only after the transaction is durably committed. Hooks
// registered on a transaction that rolls back never run.
type Tx struct {
	tx    *sql.Tx
	hooks []func(context.Context)
}

// PostCommit registers fn to run after a successful commit. Hooks run
// in registration order, synchronously, with the InTx context. A hook
// observing the database sees the committed state.
func (t *Tx) PostCommit(fn func(context.Context)) {
	t.hooks = append(t.hooks, fn)
}

// InTx runs fn inside a transaction. If fn returns an error the
// transaction is rolled back and the error returned; otherwise the
// transaction is committed and any registered post-commit hooks run.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	t := &Tx{tx: sqlTx}
	if err := fn(t); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	for _, hook := range t.hooks {
		hook(ctx)
	}
	return nil
}
