package recordings

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresStore persists recordings in the call_recordings table
// (see schema.sql).
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) Create(ctx context.Context, rec CallRecording) error {
	const q = `
INSERT INTO call_recordings (id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := s.db.ExecContext(ctx, q,
		rec.ID,
		rec.UploadedBy,
		rec.FileName,
		rec.AudioPath,
		rec.Status,
		rec.Transcript,
		rec.UploadedAt,
		rec.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (CallRecording, error) {
	const q = `
SELECT id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at
FROM call_recordings
WHERE id = $1
`
	return scanRecording(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status Status) error {
	const q = `
UPDATE call_recordings SET status = $2, updated_at = $3 WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, id, status, s.clock().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) SetTranscript(ctx context.Context, id string, transcript string, status Status) error {
	const q = `
UPDATE call_recordings SET transcript = $2, status = $3, updated_at = $4 WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, id, transcript, status, s.clock().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) List(ctx context.Context, uploadedBy string) ([]CallRecording, error) {
	const qAll = `
SELECT id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at
FROM call_recordings
ORDER BY uploaded_at DESC
`
	const qOwner = `
SELECT id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at
FROM call_recordings
WHERE uploaded_by = $1
ORDER BY uploaded_at DESC
`
	var rows *sql.Rows
	var err error
	if uploadedBy == "" {
		rows, err = s.db.QueryContext(ctx, qAll)
	} else {
		rows, err = s.db.QueryContext(ctx, qOwner, uploadedBy)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallRecording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner) (CallRecording, error) {
	var rec CallRecording
	err := row.Scan(
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
			return CallRecording{}, ErrNotFound
		}
		return CallRecording{}, err
	}
	return rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
