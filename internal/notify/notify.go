package notify

import (
	"context"

	"callintake-platform/internal/recordings"
)

type EventType string

const (
	EventCallStatus     EventType = "call_status"
	EventClientApproved EventType = "client_approved"
	EventClientRejected EventType = "client_rejected"
)

// Event is a status update pushed to the user who owns a recording.
// Delivery is best-effort and at-most-once: a user with no open stream
// simply misses the event, and nothing is replayed.
type Event struct {
	Type   EventType          `json:"type"`
	CallID string             `json:"call_id"`
	Status recordings.Status  `json:"status"`
	Detail string             `json:"detail,omitempty"`

	ExtractionID string `json:"extraction_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
}

// Broadcaster delivers events to a user's channel.
// Pipeline stages fire and forget: they log Publish errors and move on,
// never blocking a state transition on delivery.
type Broadcaster interface {
	Publish(ctx context.Context, userID string, ev Event) error
}

// Subscriber is the receive side, used by the SSE handler. The returned
// cancel func must be called on disconnect to leave the user's group.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error)
}
