package recordings

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
// It is not intended for production use.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]CallRecording

	// Statuses records every status a recording passed through, in order.
	// Useful for asserting stage progressions.
	Statuses map[string][]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recs:     make(map[string]CallRecording),
		Statuses: make(map[string][]Status),
	}
}

func (s *MemoryStore) Create(ctx context.Context, rec CallRecording) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	s.Statuses[rec.ID] = append(s.Statuses[rec.ID], rec.Status)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (CallRecording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return CallRecording{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	s.recs[id] = rec
	s.Statuses[id] = append(s.Statuses[id], status)
	return nil
}

func (s *MemoryStore) SetTranscript(ctx context.Context, id string, transcript string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.Transcript = &transcript
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	s.recs[id] = rec
	s.Statuses[id] = append(s.Statuses[id], status)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, uploadedBy string) ([]CallRecording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CallRecording
	for _, rec := range s.recs {
		if uploadedBy == "" || rec.UploadedBy == uploadedBy {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}
