package reporting

import (
	"context"
	"sync"
	"time"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/recordings"
)

// MemoryRepo is a test repository fed with literal rows.

type MemoryRepo struct {
	mu         sync.Mutex
	Recordings []recordings.CallRecording
	Clients    []clients.Client
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListRecordings(ctx context.Context, from, to time.Time) ([]recordings.CallRecording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordings.CallRecording
	for _, rec := range r.Recordings {
		if !rec.UploadedAt.Before(from) && rec.UploadedAt.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountClients(ctx context.Context, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Clients {
		if !c.OnboardedAt.Before(from) && c.OnboardedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
