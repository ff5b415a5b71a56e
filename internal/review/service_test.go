package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/recordings"
)

type fixture struct {
	svc     *Service
	exts    *extraction.MemoryStore
	recs    *recordings.MemoryStore
	clients *clients.MemoryStore
	broker  *notify.MemoryBroker
}

func strp(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	exts := extraction.NewMemoryStore()
	recs := recordings.NewMemoryStore()
	cls := clients.NewMemoryStore()
	broker := notify.NewMemoryBroker()

	svc := NewService(NewMemoryStore(exts, recs, cls), broker, nil, nil)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0) }
	return &fixture{svc: svc, exts: exts, recs: recs, clients: cls, broker: broker}
}

func (f *fixture) seed(t *testing.T) extraction.Record {
	t.Helper()
	ctx := context.Background()
	if err := f.recs.Create(ctx, recordings.CallRecording{
		ID:         "rec1",
		UploadedBy: "agent1",
		Status:     recordings.StatusReadyForReview,
	}); err != nil {
		t.Fatalf("seed recording: %v", err)
	}
	ext, err := f.exts.Upsert(ctx, extraction.Record{
		ID:          "ext1",
		RecordingID: "rec1",
		Fields: extraction.Fields{
			ClientName: strp("Jane"),
			Email:      strp("jane@x.com"),
		},
	})
	if err != nil {
		t.Fatalf("seed extraction: %v", err)
	}
	return ext
}

func TestApprove_CreatesClientAndAdvancesRecording(t *testing.T) {
	f := newFixture(t)
	ext := f.seed(t)
	ctx := context.Background()

	out, client, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !out.IsApproved || out.ReviewedBy == nil || *out.ReviewedBy != "reviewer1" || out.ReviewedAt == nil {
		t.Fatalf("approval metadata not stamped: %+v", out)
	}
	if client.Name != "Jane" || client.Email == nil || *client.Email != "jane@x.com" {
		t.Fatalf("client snapshot wrong: %+v", client)
	}
	if client.ExtractionID != ext.ID {
		t.Fatalf("client must back-reference extraction")
	}

	rec, _ := f.recs.Get(ctx, "rec1")
	if rec.Status != recordings.StatusApproved {
		t.Fatalf("recording status = %s, want APPROVED", rec.Status)
	}

	evs := f.broker.Events("reviewer1")
	if len(evs) != 1 || evs[0].Type != notify.EventClientApproved || evs[0].ClientID != client.ID {
		t.Fatalf("expected client_approved notification with client id, got %+v", evs)
	}
}

func TestApprove_AppliesCorrectiveEdits(t *testing.T) {
	f := newFixture(t)
	ext := f.seed(t)

	out, client, err := f.svc.Approve(context.Background(), ext.ID, ApproveRequest{
		Edits: extraction.Fields{
			ClientName:  strp("Jane Doe"),
			CompanyName: strp("Acme"),
		},
		Notes: strp("fixed name"),
	}, "reviewer1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if *out.ClientName != "Jane Doe" || *out.CompanyName != "Acme" {
		t.Fatalf("edits not applied: %+v", out.Fields)
	}
	if *out.Email != "jane@x.com" {
		t.Fatalf("unedited field must be retained")
	}
	if client.Name != "Jane Doe" {
		t.Fatalf("client must snapshot corrected fields, got %q", client.Name)
	}
	if out.ReviewNotes == nil || *out.ReviewNotes != "fixed name" {
		t.Fatalf("notes not stored: %+v", out.ReviewNotes)
	}
}

func TestApprove_RequiresClientName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.recs.Create(ctx, recordings.CallRecording{ID: "rec2", UploadedBy: "agent1", Status: recordings.StatusReadyForReview})
	ext, _ := f.exts.Upsert(ctx, extraction.Record{ID: "ext2", RecordingID: "rec2"})

	if _, _, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer1"); err == nil {
		t.Fatalf("expected error for empty extraction without name edit")
	}
	// Providing the name via edits makes the empty extraction approvable.
	if _, _, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{
		Edits: extraction.Fields{ClientName: strp("Manual Entry")},
	}, "reviewer1"); err != nil {
		t.Fatalf("approve with name edit: %v", err)
	}
}

func TestApprove_TwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ext := f.seed(t)
	ctx := context.Background()

	if _, _, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer1"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, _, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second approve: want ErrConflict, got %v", err)
	}

	cls, _ := f.clients.List(ctx)
	if len(cls) != 1 {
		t.Fatalf("exactly one client row, got %d", len(cls))
	}
}

func TestRejectThenApproveConflicts(t *testing.T) {
	f := newFixture(t)
	ext := f.seed(t)
	ctx := context.Background()

	out, err := f.svc.Reject(ctx, ext.ID, RejectRequest{}, "reviewer1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if out.IsApproved {
		t.Fatalf("rejected extraction must not be approved")
	}
	if out.ReviewNotes == nil || *out.ReviewNotes != "rejected" {
		t.Fatalf("default reject notes expected, got %+v", out.ReviewNotes)
	}

	rec, _ := f.recs.Get(ctx, "rec1")
	if rec.Status != recordings.StatusRejected {
		t.Fatalf("recording status = %s, want REJECTED", rec.Status)
	}

	if _, _, err := f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("approve after reject: want ErrConflict, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, ext.ID, RejectRequest{}, "reviewer2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("double reject: want ErrConflict, got %v", err)
	}

	cls, _ := f.clients.List(ctx)
	if len(cls) != 0 {
		t.Fatalf("reject must not create clients, got %d", len(cls))
	}
	evs := f.broker.Events("reviewer1")
	if len(evs) != 1 || evs[0].Type != notify.EventClientRejected {
		t.Fatalf("expected client_rejected notification, got %+v", evs)
	}
}

func TestApprove_ConcurrentAttemptsCreateOneClient(t *testing.T) {
	f := newFixture(t)
	ext := f.seed(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.svc.Approve(ctx, ext.ID, ApproveRequest{}, "reviewer1")
		}(i)
	}
	wg.Wait()

	var okCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 {
		t.Fatalf("exactly one approve must win, got %d", okCount)
	}
	cls, _ := f.clients.List(ctx)
	if len(cls) != 1 {
		t.Fatalf("exactly one client row, got %d", len(cls))
	}
}

func TestReview_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.svc.Approve(context.Background(), "missing", ApproveRequest{}, "r"); !errors.Is(err, extraction.ErrNotFound) {
		t.Fatalf("want extraction.ErrNotFound, got %v", err)
	}
}
