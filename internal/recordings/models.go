package recordings

import "time"

// CallRecording is an uploaded call-audio artifact and its pipeline state.
//
// The pipeline never deletes recordings; it only advances Status and
// fills Transcript. The audio blob itself lives on disk under the media
// dir; AudioPath is relative to it.
type CallRecording struct {
	ID         string `json:"id" db:"id"`
	UploadedBy string `json:"uploaded_by" db:"uploaded_by"`
	FileName   string `json:"file_name" db:"file_name"`
	AudioPath  string `json:"-" db:"audio_path"`

	Status     Status  `json:"status" db:"status"`
	Transcript *string `json:"transcript,omitempty" db:"transcript"`

	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusUploaded            Status = "UPLOADED"
	StatusTranscribing        Status = "TRANSCRIBING"
	StatusTranscribed         Status = "TRANSCRIBED"
	StatusExtractingInfo      Status = "EXTRACTING_INFO"
	StatusReadyForReview      Status = "READY_FOR_REVIEW"
	StatusApproved            Status = "APPROVED"
	StatusRejected            Status = "REJECTED"
	StatusTranscriptionFailed Status = "TRANSCRIPTION_FAILED"
	StatusExtractionFailed    Status = "EXTRACTION_FAILED"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUploaded, StatusTranscribing, StatusTranscribed,
		StatusExtractingInfo, StatusReadyForReview,
		StatusApproved, StatusRejected,
		StatusTranscriptionFailed, StatusExtractionFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is a review decision; once a recording is
// approved or rejected the pipeline never touches it again.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// InProgress reports whether a stage currently owns the recording.
func (s Status) InProgress() bool {
	return s == StatusTranscribing || s == StatusExtractingInfo
}
