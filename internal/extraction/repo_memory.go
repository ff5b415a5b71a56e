package extraction

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]Record // keyed by extraction id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

func (s *MemoryStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range s.recs {
		if existing.RecordingID == rec.RecordingID {
			existing.Fields = rec.Fields
			existing.RawResponse = rec.RawResponse
			existing.IsApproved = false
			existing.ReviewedBy = nil
			existing.ReviewedAt = nil
			existing.ReviewNotes = nil
			existing.UpdatedAt = now
			s.recs[id] = existing
			return existing, nil
		}
	}

	rec.IsApproved = false
	rec.ReviewedBy = nil
	rec.ReviewedAt = nil
	rec.ReviewNotes = nil
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.recs[rec.ID] = rec
	return rec, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) GetByRecording(ctx context.Context, recordingID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recs {
		if rec.RecordingID == recordingID {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

// Put replaces a record directly, bypassing upsert semantics.
// Used by the review memory store and test setup.
func (s *MemoryStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
}

// Count returns the number of stored extractions.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}
