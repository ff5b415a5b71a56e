package review

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"callintake-platform/internal/clients"
	"callintake-platform/internal/extraction"
	"callintake-platform/internal/recordings"
	"callintake-platform/pkg/utils"
)

// PostgresStore runs review decisions inside a single transaction,
// locking the extraction row and then its recording row (always in that
// order, so concurrent decisions cannot deadlock).
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) InTx(ctx context.Context, extractionID string, fn func(ctx context.Context, tx Tx) error) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		ext, err := lockExtraction(ctx, tx, extractionID)
		if err != nil {
			return err
		}
		rec, err := lockRecording(ctx, tx, ext.RecordingID)
		if err != nil {
			return err
		}
		return fn(ctx, &pgTx{tx: tx, ext: ext, rec: rec, clock: s.clock})
	})
}

type pgTx struct {
	tx    *sql.Tx
	ext   extraction.Record
	rec   recordings.CallRecording
	clock func() time.Time
}

func (t *pgTx) Extraction() extraction.Record       { return t.ext }
func (t *pgTx) Recording() recordings.CallRecording { return t.rec }

func (t *pgTx) UpdateExtraction(ctx context.Context, rec extraction.Record) error {
	const q = `
UPDATE extracted_client_info SET
  client_name = $2, company_name = $3, contact_number = $4, email = $5, service_interest = $6,
  is_approved = $7, reviewed_by = $8, reviewed_at = $9, review_notes = $10, updated_at = $11
WHERE id = $1
`
	_, err := t.tx.ExecContext(ctx, q,
		rec.ID,
		rec.ClientName,
		rec.CompanyName,
		rec.ContactNumber,
		rec.Email,
		rec.ServiceInterest,
		rec.IsApproved,
		rec.ReviewedBy,
		rec.ReviewedAt,
		rec.ReviewNotes,
		rec.UpdatedAt,
	)
	return err
}

func (t *pgTx) InsertClient(ctx context.Context, c clients.Client) error {
	const q = `
INSERT INTO clients (id, name, company, contact_number, email, service_purchased, onboarded_at, extraction_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := t.tx.ExecContext(ctx, q,
		c.ID,
		c.Name,
		c.Company,
		c.ContactNumber,
		c.Email,
		c.ServicePurchased,
		c.OnboardedAt,
		c.ExtractionID,
	)
	return err
}

func (t *pgTx) SetRecordingStatus(ctx context.Context, status recordings.Status) error {
	const q = `UPDATE call_recordings SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, t.rec.ID, status, t.clock().UTC())
	return err
}

func lockExtraction(ctx context.Context, tx *sql.Tx, id string) (extraction.Record, error) {
	const q = `
SELECT id, recording_id, client_name, company_name, contact_number, email, service_interest,
  is_approved, reviewed_by, reviewed_at, review_notes, raw_llm_response, created_at, updated_at
FROM extracted_client_info
WHERE id = $1
FOR UPDATE
`
	var rec extraction.Record
	var raw []byte
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&rec.ID,
		&rec.RecordingID,
		&rec.ClientName,
		&rec.CompanyName,
		&rec.ContactNumber,
		&rec.Email,
		&rec.ServiceInterest,
		&rec.IsApproved,
		&rec.ReviewedBy,
		&rec.ReviewedAt,
		&rec.ReviewNotes,
		&raw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return extraction.Record{}, extraction.ErrNotFound
		}
		return extraction.Record{}, err
	}
	rec.RawResponse = raw
	return rec, nil
}

func lockRecording(ctx context.Context, tx *sql.Tx, id string) (recordings.CallRecording, error) {
	const q = `
SELECT id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at
FROM call_recordings
WHERE id = $1
FOR UPDATE
`
	var rec recordings.CallRecording
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&rec.ID,
		&rec.UploadedBy,
		&rec.FileName,
		&rec.AudioPath,
		&rec.Status,
		&rec.Transcript,
		&rec.UploadedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recordings.CallRecording{}, recordings.ErrNotFound
		}
		return recordings.CallRecording{}, err
	}
	return rec, nil
}
