package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notify:user:"

// RedisBroker fans events out over Redis Pub/Sub, one channel per user.
// Pub/Sub gives the at-most-once, no-backlog semantics the pipeline
// wants: publishing to a channel nobody subscribes to is a no-op.
type RedisBroker struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisBroker(rdb *redis.Client, log *slog.Logger) *RedisBroker {
	if log == nil {
		log = slog.Default()
	}
	return &RedisBroker{rdb: rdb, log: log}
}

func channelFor(userID string) string { return channelPrefix + userID }

func (b *RedisBroker) Publish(ctx context.Context, userID string, ev Event) error {
	if userID == "" {
		return fmt.Errorf("notify: user id is required")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, channelFor(userID), payload).Err(); err != nil {
		return fmt.Errorf("notify: publish: %w", err)
	}
	return nil
}

// Subscribe joins the user's channel. Events arriving while the returned
// channel's buffer is full are dropped; a slow consumer must not back up
// the broker.
func (b *RedisBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("notify: user id is required")
	}

	sub := b.rdb.Subscribe(ctx, channelFor(userID))
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("notify: subscribe: %w", err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("notify: dropping malformed event", "err", err)
				continue
			}
			select {
			case out <- ev:
			default:
				b.log.Warn("notify: dropping event for slow consumer", "user_id", userID)
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
