package review

import (
	"context"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/recordings"
)

// Tx is the unit of work for one review decision. The extraction and
// its parent recording are loaded under the store's serialization guard
// before fn runs, so the check-then-act in the service cannot race a
// concurrent decision on the same extraction.
type Tx interface {
	Extraction() extraction.Record
	Recording() recordings.CallRecording

	UpdateExtraction(ctx context.Context, rec extraction.Record) error
	InsertClient(ctx context.Context, c clients.Client) error
	SetRecordingStatus(ctx context.Context, status recordings.Status) error
}

// Store serializes review decisions per extraction.
//
// The Postgres implementation uses row locks inside a transaction; the
// memory implementation uses a mutex. Either satisfies the guard the
// service relies on.
type Store interface {
	InTx(ctx context.Context, extractionID string, fn func(ctx context.Context, tx Tx) error) error
}
