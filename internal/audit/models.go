package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor capture is best-effort; do not block review flows on audit failures.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user causing the event.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`

	// Target identifiers (optional, depending on the event type).
	RecordingID  string `json:"recording_id,omitempty" db:"recording_id"`
	ExtractionID string `json:"extraction_id,omitempty" db:"extraction_id"`
	ClientID     string `json:"client_id,omitempty" db:"client_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeApprove   EventType = "extraction_approved"
	EventTypeReject    EventType = "extraction_rejected"
	EventTypeReprocess EventType = "recording_reprocessed"
)
