// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisChannelPrefix = "collabhub:"

// RedisBroker publishes events on Redis channels so every API instance
// sees writes made by the others.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects to the Redis server at url (redis://...).
func NewRedisBroker(ctx context.Context, url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisBroker{client: client}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.client.Publish(ctx, redisChannelPrefix+ev.Collection, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, collection string) (*Subscription, error) {
	ps := b.client.Subscribe(ctx, redisChannelPrefix+collection)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", collection, err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(out)
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()

	return newSubscription(out, func() {
		ps.Close()
		<-done
	}), nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

// Client exposes the underlying connection so other Redis-backed
// components can share it.
func (b *RedisBroker) Client() *redis.Client {
	return b.client
}
