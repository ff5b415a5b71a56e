package extraction

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresStore persists extractions in the extracted_client_info table
// (see schema.sql). The UNIQUE constraint on recording_id backs Upsert.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	now := s.clock().UTC()
	const q = `
INSERT INTO extracted_client_info (
  id, recording_id, client_name, company_name, contact_number, email, service_interest,
  is_approved, reviewed_by, reviewed_at, review_notes, raw_llm_response, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7, FALSE, NULL, NULL, NULL, $8, $9, $9
)
ON CONFLICT (recording_id) DO UPDATE SET
  client_name      = EXCLUDED.client_name,
  company_name     = EXCLUDED.company_name,
  contact_number   = EXCLUDED.contact_number,
  email            = EXCLUDED.email,
  service_interest = EXCLUDED.service_interest,
  is_approved      = FALSE,
  reviewed_by      = NULL,
  reviewed_at      = NULL,
  review_notes     = NULL,
  raw_llm_response = EXCLUDED.raw_llm_response,
  updated_at       = EXCLUDED.updated_at
RETURNING id, recording_id, client_name, company_name, contact_number, email, service_interest,
  is_approved, reviewed_by, reviewed_at, review_notes, raw_llm_response, created_at, updated_at
`
	row := s.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.RecordingID,
		rec.ClientName,
		rec.CompanyName,
		rec.ContactNumber,
		rec.Email,
		rec.ServiceInterest,
		[]byte(rec.RawResponse),
		now,
	)
	return scanRecord(row)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	const q = selectRecord + ` WHERE id = $1`
	return scanRecord(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresStore) GetByRecording(ctx context.Context, recordingID string) (Record, error) {
	const q = selectRecord + ` WHERE recording_id = $1`
	return scanRecord(s.db.QueryRowContext(ctx, q, recordingID))
}

const selectRecord = `
SELECT id, recording_id, client_name, company_name, contact_number, email, service_interest,
  is_approved, reviewed_by, reviewed_at, review_notes, raw_llm_response, created_at, updated_at
FROM extracted_client_info`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var raw []byte
	err := row.Scan(
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
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.RawResponse = raw
	return rec, nil
}
