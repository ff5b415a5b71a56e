package notify

import (
	"context"
	"sync"
)

// MemoryBroker is an in-process Broadcaster/Subscriber for tests.
// It records every published event per user and forwards to any live
// subscriptions, dropping when a subscriber's buffer is full.
type MemoryBroker struct {
	mu        sync.Mutex
	published map[string][]Event
	subs      map[string][]chan Event
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		published: make(map[string][]Event),
		subs:      make(map[string][]chan Event),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, userID string, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[userID] = append(b.published[userID], ev)
	for _, ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[userID] = append(b.subs[userID], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[userID]
		for i, c := range list {
			if c == ch {
				b.subs[userID] = append(list[:i], list[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel, nil
}

// Subscribers reports how many live subscriptions userID has.
func (b *MemoryBroker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// Events returns everything published to userID so far.
func (b *MemoryBroker) Events(userID string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.published[userID]))
	copy(out, b.published[userID])
	return out
}
