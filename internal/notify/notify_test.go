package notify

import (
	"context"
	"testing"

	"callintake-platform/internal/recordings"
)

func TestMemoryBroker_AddressesEventsPerUser(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	evA := Event{Type: EventCallStatus, CallID: "c1", Status: recordings.StatusTranscribing}
	evB := Event{Type: EventCallStatus, CallID: "c2", Status: recordings.StatusTranscribed}

	if err := b.Publish(ctx, "alice", evA); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := b.Publish(ctx, "bob", evB); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := b.Events("alice"); len(got) != 1 || got[0].CallID != "c1" {
		t.Fatalf("alice should only see her event, got %+v", got)
	}
	if got := b.Events("bob"); len(got) != 1 || got[0].CallID != "c2" {
		t.Fatalf("bob should only see his event, got %+v", got)
	}
}

func TestMemoryBroker_SubscribeReceivesAndUnsubscribes(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx, "alice")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ev := Event{Type: EventClientApproved, CallID: "c1", Status: recordings.StatusApproved, ClientID: "cl1"}
	if err := b.Publish(ctx, "alice", ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := <-ch
	if got.Type != EventClientApproved || got.ClientID != "cl1" {
		t.Fatalf("unexpected event %+v", got)
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after cancel")
	}

	// Publishing after unsubscribe must not panic or block.
	if err := b.Publish(ctx, "alice", ev); err != nil {
		t.Fatalf("publish after cancel: %v", err)
	}
}
