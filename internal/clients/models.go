package clients

import "time"

// Client is a committed, onboarded client record.
//
// Rows are created exactly once, as a side effect of approving an
// extraction, and are never mutated afterwards. The fields are a
// snapshot of the extraction at approval time, corrective edits
// included.
type Client struct {
	ID               string  `json:"id" db:"id"`
	Name             string  `json:"name" db:"name"`
	Company          *string `json:"company,omitempty" db:"company"`
	ContactNumber    *string `json:"contact_number,omitempty" db:"contact_number"`
	Email            *string `json:"email,omitempty" db:"email"`
	ServicePurchased *string `json:"service_purchased,omitempty" db:"service_purchased"`

	OnboardedAt  time.Time `json:"onboarded_at" db:"onboarded_at"`
	ExtractionID string    `json:"extraction_id" db:"extraction_id"`
}
