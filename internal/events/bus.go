// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package events carries the in-process event bus. The only traffic
// today is the profile-updated trigger published after an account
// commit and consumed by the refresh worker.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/metrics"
)

// TopicProfileUpdated carries ProfileUpdated events.
const TopicProfileUpdated = "profile.updated"

// ProfileUpdated signals that an account (and possibly its survey
// profile) was durably committed. One event per commit.
type ProfileUpdated struct {
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Bus is an in-process pub/sub bus. Messages are delivered to
// subscribers active at publish time; the buffer absorbs bursts.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewBus creates a bus with the given per-subscriber buffer size.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(buffer int, logger zerolog.Logger) *Bus {
	log := logger.With().Str("component", "events").Logger()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(buffer),
	}, watermillLogger{log})
	return &Bus{pubsub: pubsub, logger: log}
}

// PublishProfileUpdated publishes one profile-updated event.
func (b *Bus) PublishProfileUpdated(ev ProfileUpdated) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal profile-updated event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicProfileUpdated, msg); err != nil {
		return fmt.Errorf("publish profile-updated event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(TopicProfileUpdated).Inc()
	return nil
}

// SubscribeProfileUpdated subscribes to profile-updated events. The
// channel closes when ctx is cancelled or the bus shuts down.
func (b *Bus) SubscribeProfileUpdated(ctx context.Context) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, TopicProfileUpdated)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicProfileUpdated, err)
	}
	return ch, nil
}

// DecodeProfileUpdated parses a bus message payload.
func DecodeProfileUpdated(msg *message.Message) (ProfileUpdated, error) {
	var ev ProfileUpdated
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ProfileUpdated{}, fmt.Errorf("decode profile-updated event: %w", err)
	}
	return ev, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
