package recordings

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("recordings: not found")

// Store is the persistence contract for call recordings.
//
// SetTranscript stores the transcript and the new status in one write so
// a crash between the two cannot leave a transcribed recording without
// its text.
type Store interface {
	Create(ctx context.Context, rec CallRecording) error
	Get(ctx context.Context, id string) (CallRecording, error)
	SetStatus(ctx context.Context, id string, status Status) error
	SetTranscript(ctx context.Context, id string, transcript string, status Status) error

	// List returns recordings owned by uploadedBy, newest first.
	// An empty uploadedBy lists everything (admin view).
	List(ctx context.Context, uploadedBy string) ([]CallRecording, error)
}
