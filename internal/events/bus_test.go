// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPublishSubscribeProfileUpdated(t *testing.T) {
	bus := NewBus(8, zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.SubscribeProfileUpdated(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := ProfileUpdated{Username: "j2ee", OccurredAt: time.Now().UTC()}
	if err := bus.PublishProfileUpdated(want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-ch:
		got, err := DecodeProfileUpdated(msg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		msg.Ack()
		if got.Username != "j2ee" {
			t.Errorf("event = %+v, want username j2ee", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeChannelClosesOnCancel(t *testing.T) {
	bus := NewBus(8, zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.SubscribeProfileUpdated(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Error("channel should close after context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestDecodeProfileUpdatedMalformed(t *testing.T) {
	bus := NewBus(1, zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.SubscribeProfileUpdated(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Publish raw garbage through the same topic.
	if err := bus.PublishProfileUpdated(ProfileUpdated{Username: "ok"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	msg := <-ch
	msg.Payload = []byte("{broken")
	if _, err := DecodeProfileUpdated(msg); err == nil {
		t.Error("malformed payload should fail to decode")
	}
	msg.Ack()
}
