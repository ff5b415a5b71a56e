package review

import (
	"context"
	"sync"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/recordings"
)

// MemoryStore implements Store over the in-memory repositories for
// tests. A single mutex stands in for the row locks: decisions on any
// extraction are fully serialized, which is a superset of the guard the
// service needs.
type MemoryStore struct {
	mu sync.Mutex

	Exts    *extraction.MemoryStore
	Recs    *recordings.MemoryStore
	Clients *clients.MemoryStore
}

func NewMemoryStore(exts *extraction.MemoryStore, recs *recordings.MemoryStore, cls *clients.MemoryStore) *MemoryStore {
	return &MemoryStore{Exts: exts, Recs: recs, Clients: cls}
}

func (s *MemoryStore) InTx(ctx context.Context, extractionID string, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext, err := s.Exts.Get(ctx, extractionID)
	if err != nil {
		return err
	}
	rec, err := s.Recs.Get(ctx, ext.RecordingID)
	if err != nil {
		return err
	}
	return fn(ctx, &memTx{store: s, ext: ext, rec: rec})
}

type memTx struct {
	store *MemoryStore
	ext   extraction.Record
	rec   recordings.CallRecording
}

func (t *memTx) Extraction() extraction.Record       { return t.ext }
func (t *memTx) Recording() recordings.CallRecording { return t.rec }

func (t *memTx) UpdateExtraction(ctx context.Context, rec extraction.Record) error {
	t.store.Exts.Put(rec)
	return nil
}

func (t *memTx) InsertClient(ctx context.Context, c clients.Client) error {
	t.store.Clients.Add(c)
	return nil
}

func (t *memTx) SetRecordingStatus(ctx context.Context, status recordings.Status) error {
	return t.store.Recs.SetStatus(ctx, t.rec.ID, status)
}
