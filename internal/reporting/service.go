package reporting

import (
	"context"
	"errors"
	"time"

	"callintake-platform/internal/recordings"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
// Implementations should query the same immutable-ish sources the API
// serves (recording rows, insert-only client rows).

type Repository interface {
	ListRecordings(ctx context.Context, from, to time.Time) ([]recordings.CallRecording, error)
	CountClients(ctx context.Context, from, to time.Time) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// FunnelSummary aggregates upload-to-client conversion over the range.
func (s *Service) FunnelSummary(ctx context.Context, req FunnelSummaryRequest) (FunnelSummary, error) {
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return FunnelSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return FunnelSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListRecordings(ctx, req.Range.From, req.Range.To)
	if err != nil {
		return FunnelSummary{}, err
	}

	out := FunnelSummary{}
	for _, r := range rows {
		out.TotalUploads++
		switch r.Status {
		case recordings.StatusReadyForReview:
			out.ReadyForReview++
		case recordings.StatusApproved:
			out.Approved++
		case recordings.StatusRejected:
			out.Rejected++
		case recordings.StatusTranscriptionFailed:
			out.TranscriptionFailed++
		case recordings.StatusExtractionFailed:
			out.ExtractionFailed++
		default:
			// UPLOADED, TRANSCRIBING, TRANSCRIBED, EXTRACTING_INFO
			out.InPipeline++
		}
	}

	onboarded, err := s.repo.CountClients(ctx, req.Range.From, req.Range.To)
	if err != nil {
		return FunnelSummary{}, err
	}
	out.ClientsOnboarded = onboarded

	if decided := out.Approved + out.Rejected; decided > 0 {
		out.ApprovalRate = float64(out.Approved) / float64(decided)
	}
	return out, nil
}
