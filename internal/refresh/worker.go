// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package refresh

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/events"
	"github.com/petmatchdev/petmatch/internal/models"
)

// AccountSource re-reads committed accounts. Implemented by the store.
type AccountSource interface {
	GetAccount(ctx context.Context, username string) (*models.Account, error)
}

// Worker consumes profile-updated events and runs refresh cycles.
// It implements suture.Service: Serve blocks until the context is
// cancelled, and the supervisor restarts it on failure.
//
// The worker re-reads the account from the store rather than trusting
// the event payload: the event is a trigger, the committed row is the
// truth.
type Worker struct {
	bus      *events.Bus
	accounts AccountSource
	orch     *Orchestrator
	logger   zerolog.Logger
}

// NewWorker wires a refresh worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWorker(bus *events.Bus, accounts AccountSource, orch *Orchestrator, logger zerolog.Logger) *Worker {
	return &Worker{
		bus:      bus,
		accounts: accounts,
		orch:     orch,
		logger:   logger.With().Str("component", "refresh-worker").Logger(),
	}
}

// String implements suture's service naming.
func (w *Worker) String() string {
	return "refresh-worker"
}

// Serve implements suture.Service.
func (w *Worker) Serve(ctx context.Context) error {
	ch, err := w.bus.SubscribeProfileUpdated(ctx)
	if err != nil {
		return err
	}
	w.logger.Info().Msg("refresh worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return ctx.Err()
			}
			w.handle(ctx, msg)
			// Events are fire-and-forget triggers; a failed cycle is
			// logged, not redelivered.
			msg.Ack()
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *message.Message) {
	ev, err := events.DecodeProfileUpdated(msg)
	if err != nil {
		w.logger.Error().Err(err).Msg("dropping undecodable profile-updated event")
		return
	}

	account, err := w.accounts.GetAccount(ctx, ev.Username)
	if err != nil {
		w.logger.Error().Err(err).Str("user", ev.Username).Msg("account re-read failed, refresh dropped")
		return
	}

	if _, err := w.orch.Run(ctx, account); err != nil {
		w.logger.Error().Err(err).Str("user", ev.Username).Msg("refresh cycle failed")
	}
}
