package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// FunnelSummaryRequest requests aggregated intake-funnel metrics over a
// time range (recording upload time, client onboard time).

type FunnelSummaryRequest struct {
	Range TimeRange `json:"range"`
}

type FunnelSummary struct {
	TotalUploads int `json:"total_uploads"`

	InPipeline          int `json:"in_pipeline"`
	ReadyForReview      int `json:"ready_for_review"`
	Approved            int `json:"approved"`
	Rejected            int `json:"rejected"`
	TranscriptionFailed int `json:"transcription_failed"`
	ExtractionFailed    int `json:"extraction_failed"`

	ClientsOnboarded int `json:"clients_onboarded"`

	// ApprovalRate is approved over decided (approved + rejected),
	// zero when nothing was decided yet.
	ApprovalRate float64 `json:"approval_rate"`
}
