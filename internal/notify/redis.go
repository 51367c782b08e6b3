package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis pub/sub channel carrying mutation events.
const DefaultChannel = "mitienda:events"

// RedisBridge publishes events through Redis pub/sub so every server process
// sees mutations made by any of them. Inbound messages are relayed into the
// local Hub, which feeds the SSE connections of this process.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *slog.Logger
}

// NewRedisBridge constructs a bridge over the given client and channel.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, logger *slog.Logger) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBridge{client: client, channel: channel, hub: hub, logger: logger}
}

// Publish sends the event to the Redis channel. Implements Notifier: errors
// are logged and swallowed, never returned to the mutating caller.
func (b *RedisBridge) Publish(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("encode event", slog.String("event", event.Name), slog.Any("error", err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Error("publish event", slog.String("event", event.Name), slog.Any("error", err))
	}
}

// Run subscribes to the channel and relays messages into the hub until the
// context is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("decode relayed event", slog.Any("error", err))
				continue
			}
			b.hub.Publish(ctx, event)
		}
	}
}
