package extraction

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("extraction: not found")

// Store is the persistence contract for extracted client info.
//
// Upsert is keyed on the recording id: rerunning the extraction stage
// replaces the fields and raw response of the existing row and resets
// all review metadata (unapproved, no reviewer, no timestamp, no notes).
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	GetByRecording(ctx context.Context, recordingID string) (Record, error)
}
