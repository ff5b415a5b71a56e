package audit

import (
	"context"
	"testing"
	"time"
)

func TestAppend_FillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return fixed }

	err := svc.LogDecision(context.Background(), EventTypeApprove, "rev1", "r1", "e1", "c1", "approved")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("events = %d, want 1", len(evs))
	}
	e := evs[0]
	if e.ID == "" || !e.CreatedAt.Equal(fixed) {
		t.Fatalf("id/timestamp not stamped: %+v", e)
	}
	if e.Type != EventTypeApprove || e.ClientID != "c1" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestAppend_RequiresTypeAndActor(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Type: EventTypeReject}); err != ErrInvalidEvent {
		t.Fatalf("missing actor: err = %v", err)
	}
	if err := svc.Append(context.Background(), Event{ActorUserID: "rev1"}); err != ErrInvalidEvent {
		t.Fatalf("missing type: err = %v", err)
	}
}

func TestLogReprocess(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogReprocess(context.Background(), "agent1", "r1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	evs := repo.Events()
	if len(evs) != 1 || evs[0].Type != EventTypeReprocess || evs[0].RecordingID != "r1" {
		t.Fatalf("unexpected events: %+v", evs)
	}
}
