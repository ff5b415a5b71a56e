package extraction

import (
	"encoding/json"
	"time"
)

// Fields are the candidate client-contact fields pulled out of a
// transcript. A nil pointer means the model did not find that piece of
// information; empty strings are never stored.
type Fields struct {
	ClientName      *string `json:"client_name,omitempty"`
	CompanyName     *string `json:"company_name,omitempty"`
	ContactNumber   *string `json:"contact_number,omitempty"`
	Email           *string `json:"email,omitempty"`
	ServiceInterest *string `json:"service_interest,omitempty"`
}

// Empty reports whether no field was extracted.
func (f Fields) Empty() bool {
	return f.ClientName == nil && f.CompanyName == nil && f.ContactNumber == nil &&
		f.Email == nil && f.ServiceInterest == nil
}

// Record is the extraction attached to a recording, one per recording.
// RawResponse holds the verbatim LLM service response for audit.
type Record struct {
	ID          string `json:"id" db:"id"`
	RecordingID string `json:"recording_id" db:"recording_id"`

	Fields

	IsApproved  bool       `json:"is_approved" db:"is_approved"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewNotes *string    `json:"review_notes,omitempty" db:"review_notes"`

	RawResponse json.RawMessage `json:"raw_llm_response,omitempty" db:"raw_llm_response"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Decided reports whether a reviewer has already acted on this record.
// Rejection stamps ReviewedAt while leaving IsApproved false, so the
// timestamp, not the flag, is the terminal marker.
func (r Record) Decided() bool {
	return r.ReviewedAt != nil
}
