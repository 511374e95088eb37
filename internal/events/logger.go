// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// watermillLogger adapts zerolog to watermill's LoggerAdapter.
type watermillLogger struct {
	log zerolog.Logger
}

func (l watermillLogger) withFields(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}

func (l watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.withFields(l.log.Error().Err(err), fields).Msg(msg)
}

func (l watermillLogger) Info(msg string, fields watermill.LogFields) {
	// Watermill's info-level chatter is debug noise for us.
	l.withFields(l.log.Debug(), fields).Msg(msg)
}

func (l watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.withFields(l.log.Debug(), fields).Msg(msg)
}

func (l watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.withFields(l.log.Trace(), fields).Msg(msg)
}

func (l watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return watermillLogger{log: ctx.Logger()}
}
