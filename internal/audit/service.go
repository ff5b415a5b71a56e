package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to agents by default.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" || e.ActorUserID == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogDecision records an approve or reject on an extraction. clientID is
// empty for rejections.
func (s *Service) LogDecision(ctx context.Context, t EventType, actorUserID, recordingID, extractionID, clientID, message string) error {
	return s.Append(ctx, Event{
		Type:         t,
		ActorUserID:  actorUserID,
		RecordingID:  recordingID,
		ExtractionID: extractionID,
		ClientID:     clientID,
		Message:      message,
	})
}

// LogReprocess records a manual pipeline restart.
func (s *Service) LogReprocess(ctx context.Context, actorUserID, recordingID string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeReprocess,
		ActorUserID: actorUserID,
		RecordingID: recordingID,
		Message:     "pipeline restarted",
	})
}
