package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"callintake-platform/internal/audit"
	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/notify"
	"callintake-platform/internal/recordings"

	"github.com/google/uuid"
)

var (
	// ErrConflict means a terminal review decision already exists.
	ErrConflict = errors.New("review: extraction already decided")
	// ErrInvalidArgument covers malformed approve/reject payloads.
	ErrInvalidArgument = errors.New("review: invalid argument")
)

const defaultRejectNotes = "rejected"

// Service is the human review step: it turns a pending extraction into
// either an onboarded Client (approve) or a terminal rejection.
//
// Invariants enforced here, inside one store transaction:
// - an extraction is decided at most once; approve and reject are
//   mutually exclusive and final
// - exactly one Client row exists per approved extraction, also under
//   concurrent double-submission
// - recording status and extraction decision never disagree
type Service struct {
	store    Store
	notifier notify.Broadcaster
	audit    *audit.Service
	clock    func() time.Time
	log      *slog.Logger
}

// NewService builds the review service. aud may be nil to disable the
// audit trail (tests mostly do).
func NewService(store Store, notifier notify.Broadcaster, aud *audit.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, notifier: notifier, audit: aud, clock: time.Now, log: log}
}

// ApproveRequest carries optional corrective edits applied to the
// extraction before it is snapshotted into the client record. Nil
// pointers leave the extracted value untouched.
type ApproveRequest struct {
	Edits extraction.Fields
	Notes *string
}

type RejectRequest struct {
	Notes *string
}

// Approve commits the extraction: applies edits, stamps the decision,
// creates the Client snapshot and moves the recording to APPROVED, all
// in one transaction. Fails with ErrConflict if a decision exists.
func (s *Service) Approve(ctx context.Context, extractionID string, req ApproveRequest, actorID string) (extraction.Record, clients.Client, error) {
	if actorID == "" {
		return extraction.Record{}, clients.Client{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var outExt extraction.Record
	var outClient clients.Client

	err := s.store.InTx(ctx, extractionID, func(ctx context.Context, tx Tx) error {
		ext := tx.Extraction()
		rec := tx.Recording()

		if ext.Decided() || rec.Status.Terminal() {
			return ErrConflict
		}

		applyEdits(&ext.Fields, req.Edits)
		if ext.ClientName == nil {
			// A client record needs at least a name; reviewers supply it
			// as a corrective edit when the model found none.
			return fmt.Errorf("%w: client name is required to approve", ErrInvalidArgument)
		}

		ext.IsApproved = true
		ext.ReviewedBy = &actorID
		ext.ReviewedAt = &now
		if req.Notes != nil {
			ext.ReviewNotes = req.Notes
		}
		ext.UpdatedAt = now
		if err := tx.UpdateExtraction(ctx, ext); err != nil {
			return err
		}

		client := clients.Client{
			ID:               uuid.NewString(),
			Name:             *ext.ClientName,
			Company:          ext.CompanyName,
			ContactNumber:    ext.ContactNumber,
			Email:            ext.Email,
			ServicePurchased: ext.ServiceInterest,
			OnboardedAt:      now,
			ExtractionID:     ext.ID,
		}
		if err := tx.InsertClient(ctx, client); err != nil {
			return err
		}
		if err := tx.SetRecordingStatus(ctx, recordings.StatusApproved); err != nil {
			return err
		}

		outExt = ext
		outClient = client
		return nil
	})
	if err != nil {
		return extraction.Record{}, clients.Client{}, err
	}

	s.emit(ctx, actorID, notify.Event{
		Type:         notify.EventClientApproved,
		CallID:       outExt.RecordingID,
		Status:       recordings.StatusApproved,
		ExtractionID: outExt.ID,
		ClientID:     outClient.ID,
	})
	s.trail(ctx, audit.EventTypeApprove, actorID, outExt, outClient.ID, "client onboarded")
	return outExt, outClient, nil
}

// Reject marks the extraction as reviewed-and-declined and moves the
// recording to REJECTED. No client record is created.
func (s *Service) Reject(ctx context.Context, extractionID string, req RejectRequest, actorID string) (extraction.Record, error) {
	if actorID == "" {
		return extraction.Record{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var outExt extraction.Record

	err := s.store.InTx(ctx, extractionID, func(ctx context.Context, tx Tx) error {
		ext := tx.Extraction()
		rec := tx.Recording()

		if ext.Decided() || rec.Status.Terminal() {
			return ErrConflict
		}

		notes := defaultRejectNotes
		if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
			notes = *req.Notes
		}

		ext.IsApproved = false
		ext.ReviewedBy = &actorID
		ext.ReviewedAt = &now
		ext.ReviewNotes = &notes
		ext.UpdatedAt = now
		if err := tx.UpdateExtraction(ctx, ext); err != nil {
			return err
		}
		if err := tx.SetRecordingStatus(ctx, recordings.StatusRejected); err != nil {
			return err
		}

		outExt = ext
		return nil
	})
	if err != nil {
		return extraction.Record{}, err
	}

	s.emit(ctx, actorID, notify.Event{
		Type:         notify.EventClientRejected,
		CallID:       outExt.RecordingID,
		Status:       recordings.StatusRejected,
		ExtractionID: outExt.ID,
	})
	s.trail(ctx, audit.EventTypeReject, actorID, outExt, "", "extraction rejected")
	return outExt, nil
}

// applyEdits overwrites extracted values with non-empty corrective
// edits. Blank edits are ignored rather than clearing fields.
func applyEdits(dst *extraction.Fields, edits extraction.Fields) {
	set := func(dstField **string, edit *string) {
		if edit == nil {
			return
		}
		v := strings.TrimSpace(*edit)
		if v == "" {
			return
		}
		*dstField = &v
	}
	set(&dst.ClientName, edits.ClientName)
	set(&dst.CompanyName, edits.CompanyName)
	set(&dst.ContactNumber, edits.ContactNumber)
	set(&dst.Email, edits.Email)
	set(&dst.ServiceInterest, edits.ServiceInterest)
}

func (s *Service) emit(ctx context.Context, userID string, ev notify.Event) {
	if err := s.notifier.Publish(ctx, userID, ev); err != nil {
		s.log.Warn("notification publish failed", "user_id", userID, "call_id", ev.CallID, "err", err)
	}
}

// trail appends to the audit log; failures never fail the decision.
func (s *Service) trail(ctx context.Context, t audit.EventType, actorID string, ext extraction.Record, clientID, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogDecision(ctx, t, actorID, ext.RecordingID, ext.ID, clientID, msg); err != nil {
		s.log.Warn("audit append failed", "extraction_id", ext.ID, "err", err)
	}
}
