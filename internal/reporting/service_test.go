package reporting

import (
	"context"
	"testing"
	"time"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/recordings"
)

func TestFunnelSummary(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	in := from.Add(24 * time.Hour)

	repo := NewMemoryRepo()
	add := func(id string, status recordings.Status, at time.Time) {
		repo.Recordings = append(repo.Recordings, recordings.CallRecording{ID: id, Status: status, UploadedAt: at})
	}
	add("r1", recordings.StatusApproved, in)
	add("r2", recordings.StatusApproved, in)
	add("r3", recordings.StatusRejected, in)
	add("r4", recordings.StatusReadyForReview, in)
	add("r5", recordings.StatusTranscribing, in)
	add("r6", recordings.StatusTranscriptionFailed, in)
	add("r7", recordings.StatusApproved, from.AddDate(0, -1, 0)) // outside range
	repo.Clients = append(repo.Clients,
		clients.Client{ID: "c1", OnboardedAt: in},
		clients.Client{ID: "c2", OnboardedAt: in},
	)

	svc := NewService(repo)
	got, err := svc.FunnelSummary(context.Background(), FunnelSummaryRequest{Range: TimeRange{From: from, To: to}})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if got.TotalUploads != 6 {
		t.Fatalf("total = %d, want 6 (range-filtered)", got.TotalUploads)
	}
	if got.Approved != 2 || got.Rejected != 1 || got.ReadyForReview != 1 || got.InPipeline != 1 || got.TranscriptionFailed != 1 {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	if got.ClientsOnboarded != 2 {
		t.Fatalf("clients = %d, want 2", got.ClientsOnboarded)
	}
	if want := 2.0 / 3.0; got.ApprovalRate != want {
		t.Fatalf("approval rate = %f, want %f", got.ApprovalRate, want)
	}
}

func TestFunnelSummary_ValidatesRange(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	now := time.Now()

	cases := []TimeRange{
		{},
		{From: now},
		{From: now, To: now},
		{From: now, To: now.Add(-time.Hour)},
	}
	for _, r := range cases {
		if _, err := svc.FunnelSummary(context.Background(), FunnelSummaryRequest{Range: r}); err != ErrInvalidRequest {
			t.Fatalf("range %+v: err = %v, want ErrInvalidRequest", r, err)
		}
	}
}

func TestFunnelSummary_NoDecisions(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepo()
	repo.Recordings = append(repo.Recordings, recordings.CallRecording{ID: "r1", Status: recordings.StatusUploaded, UploadedAt: from})

	svc := NewService(repo)
	got, err := svc.FunnelSummary(context.Background(), FunnelSummaryRequest{Range: TimeRange{From: from, To: from.AddDate(0, 1, 0)}})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.ApprovalRate != 0 {
		t.Fatalf("approval rate must be 0 with no decisions, got %f", got.ApprovalRate)
	}
}
