package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"callintake-platform/internal/extraction"
	"callintake-platform/internal/llm"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/recordings"

	"github.com/google/uuid"
)

// ExtractStage runs the LLM tool call over a transcript and upserts the
// resulting candidate fields for human review.
//
// An empty tool result is still a success: the recording reaches
// READY_FOR_REVIEW with a blank extraction so the reviewer can fill it
// in manually. Only service/storage failures mark EXTRACTION_FAILED,
// and then no partial extraction is committed.
type ExtractStage struct {
	recs      recordings.Store
	exts      extraction.Store
	extractor llm.InfoExtractor
	notifier  notify.Broadcaster
	log       *slog.Logger
}

func NewExtractStage(recs recordings.Store, exts extraction.Store, ex llm.InfoExtractor, notifier notify.Broadcaster, log *slog.Logger) *ExtractStage {
	if log == nil {
		log = slog.Default()
	}
	return &ExtractStage{recs: recs, exts: exts, extractor: ex, notifier: notifier, log: log}
}

func (s *ExtractStage) Run(ctx context.Context, recordingID string) error {
	rec, err := s.recs.Get(ctx, recordingID)
	if err != nil {
		return fmt.Errorf("extract %s: %w", recordingID, err)
	}
	if rec.Transcript == nil || *rec.Transcript == "" {
		return s.fail(ctx, rec, fmt.Errorf("no transcript on recording"))
	}

	if err := s.recs.SetStatus(ctx, rec.ID, recordings.StatusExtractingInfo); err != nil {
		return fmt.Errorf("extract %s: %w", rec.ID, err)
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:   notify.EventCallStatus,
		CallID: rec.ID,
		Status: recordings.StatusExtractingInfo,
	})

	fields, raw, err := s.extractor.Extract(ctx, *rec.Transcript)
	if err != nil {
		return s.fail(ctx, rec, fmt.Errorf("llm call: %w", err))
	}

	// Upsert keyed on the recording: reprocessing replaces the previous
	// extraction and wipes any earlier review metadata.
	saved, err := s.exts.Upsert(ctx, extraction.Record{
		ID:          uuid.NewString(),
		RecordingID: rec.ID,
		Fields:      fields,
		RawResponse: raw,
	})
	if err != nil {
		return s.fail(ctx, rec, fmt.Errorf("storing extraction: %w", err))
	}

	if err := s.recs.SetStatus(ctx, rec.ID, recordings.StatusReadyForReview); err != nil {
		return s.fail(ctx, rec, fmt.Errorf("advancing status: %w", err))
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:         notify.EventCallStatus,
		CallID:       rec.ID,
		Status:       recordings.StatusReadyForReview,
		ExtractionID: saved.ID,
	})

	s.log.Info("recording ready for review", "recording_id", rec.ID, "extraction_id", saved.ID, "empty", fields.Empty())
	return nil
}

func (s *ExtractStage) fail(ctx context.Context, rec recordings.CallRecording, cause error) error {
	if err := s.recs.SetStatus(ctx, rec.ID, recordings.StatusExtractionFailed); err != nil {
		s.log.Error("failed to record extraction failure", "recording_id", rec.ID, "err", err)
	}
	s.emit(ctx, rec.UploadedBy, notify.Event{
		Type:   notify.EventCallStatus,
		CallID: rec.ID,
		Status: recordings.StatusExtractionFailed,
		Detail: cause.Error(),
	})
	return fmt.Errorf("extract %s: %w", rec.ID, cause)
}

func (s *ExtractStage) emit(ctx context.Context, userID string, ev notify.Event) {
	if err := s.notifier.Publish(ctx, userID, ev); err != nil {
		s.log.Warn("notification publish failed", "user_id", userID, "call_id", ev.CallID, "err", err)
	}
}
