package recordings

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusUploaded, StatusTranscribing, StatusTranscribed,
		StatusExtractingInfo, StatusReadyForReview,
		StatusApproved, StatusRejected,
		StatusTranscriptionFailed, StatusExtractionFailed,
	} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status("REPROCESSING").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
}

func TestStatusClassification(t *testing.T) {
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Fatalf("approved/rejected must be terminal")
	}
	if StatusTranscriptionFailed.Terminal() {
		t.Fatalf("stage failure is recoverable via reprocess, not terminal")
	}
	if !StatusTranscribing.InProgress() || !StatusExtractingInfo.InProgress() {
		t.Fatalf("stage-owned statuses must report in progress")
	}
	if StatusReadyForReview.InProgress() {
		t.Fatalf("ready for review is not stage-owned")
	}
}
