package pipeline

import (
	"context"
	"errors"
	"fmt"

	"callintake-platform/internal/recordings"
)

// ErrNotReprocessable is returned when a recording's current state does
// not allow (re)starting the pipeline.
var ErrNotReprocessable = errors.New("pipeline: recording cannot be processed in its current state")

// Trigger is the pipeline entry point: it marks a recording as queued
// and schedules the transcription stage. It returns as soon as the task
// is enqueued; it never waits for stage completion.
type Trigger struct {
	recs  recordings.Store
	queue Queue
}

func NewTrigger(recs recordings.Store, queue Queue) *Trigger {
	return &Trigger{recs: recs, queue: queue}
}

// Start schedules transcription for the recording.
//
// Reprocess policy: allowed from UPLOADED, TRANSCRIBED, READY_FOR_REVIEW
// and both failure states. Refused while a stage is running (the stage
// owns the recording) and after a review decision (APPROVED/REJECTED are
// final; the client record must not be silently invalidated).
func (t *Trigger) Start(ctx context.Context, recordingID string) error {
	rec, err := t.recs.Get(ctx, recordingID)
	if err != nil {
		return err
	}
	if rec.Status.InProgress() || rec.Status.Terminal() {
		return fmt.Errorf("%w: status %s", ErrNotReprocessable, rec.Status)
	}

	// Reset to UPLOADED before enqueueing so readers never observe a
	// queued recording in a stale failure state.
	if err := t.recs.SetStatus(ctx, recordingID, recordings.StatusUploaded); err != nil {
		return err
	}
	return t.queue.Enqueue(ctx, Task{Kind: TaskTranscribe, RecordingID: recordingID})
}
