package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"callintake-platform/internal/media"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/recordings"
	"callintake-platform/internal/stt"
)

// TranscribeStage turns a recording's audio blob into transcript text
// and chains the extraction stage on success.
//
// Failures are terminal for this run: the status records the failure,
// the owner is notified, and nothing is retried until a human triggers
// reprocessing.
type TranscribeStage struct {
	recs     recordings.Store
	blobs    media.BlobStore
	stt      stt.Transcriber
	queue    Queue
	notifier notify.Broadcaster
	log      *slog.Logger
}

func NewTranscribeStage(recs recordings.Store, blobs media.BlobStore, t stt.Transcriber, queue Queue, notifier notify.Broadcaster, log *slog.Logger) *TranscribeStage {
	if log == nil {
		log = slog.Default()
	}
	return &TranscribeStage{recs: recs, blobs: blobs, stt: t, queue: queue, notifier: notifier, log: log}
}

func (s *TranscribeStage) Run(ctx context.Context, recordingID string) error {
	rec, err := s.recs.Get(ctx, recordingID)
	if err != nil {
		// Nothing to mark failed if the row itself is gone.
		return fmt.Errorf("transcribe %s: %w", recordingID, err)
	}

	if err := s.recs.SetStatus(ctx, rec.ID, recordings.StatusTranscribing); err != nil {
		return fmt.Errorf("transcribe %s: %w", rec.ID, err)
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:   notify.EventCallStatus,
		CallID: rec.ID,
		Status: recordings.StatusTranscribing,
	})

	audio, err := s.readBlob(rec.AudioPath)
	if err != nil {
		return s.fail(ctx, rec, fmt.Errorf("reading audio: %w", err))
	}

	text, err := s.stt.Transcribe(ctx, rec.FileName, audio)
	if err != nil {
		return s.fail(ctx, rec, fmt.Errorf("stt call: %w", err))
	}

	if err := s.recs.SetTranscript(ctx, rec.ID, text, recordings.StatusTranscribed); err != nil {
		return s.fail(ctx, rec, fmt.Errorf("storing transcript: %w", err))
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:   notify.EventCallStatus,
		CallID: rec.ID,
		Status: recordings.StatusTranscribed,
	})

	// Chain extraction as its own task so it stays independently
	// schedulable, rather than running inline here.
	if err := s.queue.Enqueue(ctx, Task{Kind: TaskExtract, RecordingID: rec.ID}); err != nil {
		// The transcript is already stored. Leave the recording at
		// TRANSCRIBED so the status names the step that actually broke
		// and reprocessing can resume from there.
		s.log.Error("enqueue extraction failed", "recording_id", rec.ID, "err", err)
		return fmt.Errorf("transcribe %s: enqueue extraction: %w", rec.ID, err)
	}

	s.log.Info("recording transcribed", "recording_id", rec.ID)
	return nil
}

func (s *TranscribeStage) readBlob(path string) ([]byte, error) {
	rc, err := s.blobs.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *TranscribeStage) fail(ctx context.Context, rec recordings.CallRecording, cause error) error {
	if err := s.recs.SetStatus(ctx, rec.ID, recordings.StatusTranscriptionFailed); err != nil {
		s.log.Error("failed to record transcription failure", "recording_id", rec.ID, "err", err)
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:   notify.EventCallStatus,
		CallID: rec.ID,
		Status: recordings.StatusTranscriptionFailed,
		Detail: cause.Error(),
	})
	return fmt.Errorf("transcribe %s: %w", rec.ID, cause)
}

func (s *TranscribeStage) emit(ctx context.Context, userID string, ev notify.Event) {
	if err := s.notifier.Publish(ctx, userID, ev); err != nil {
		s.log.Warn("notification publish failed", "user_id", userID, "call_id", ev.CallID, "err", err)
	}
}
