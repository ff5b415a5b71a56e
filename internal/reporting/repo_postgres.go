package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"callintake-platform/internal/recordings"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) ListRecordings(ctx context.Context, from, to time.Time) ([]recordings.CallRecording, error) {
	const q = `
		SELECT id, uploaded_by, file_name, audio_path, status, transcript, uploaded_at, updated_at
		FROM call_recordings
		WHERE uploaded_at >= $1 AND uploaded_at < $2
		ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting: list recordings: %w", err)
	}
	defer rows.Close()

	var out []recordings.CallRecording
	for rows.Next() {
		var rec recordings.CallRecording
		if err := rows.Scan(
			&rec.ID, &rec.UploadedBy, &rec.FileName, &rec.AudioPath,
			&rec.Status, &rec.Transcript, &rec.UploadedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("reporting: scan recording: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CountClients(ctx context.Context, from, to time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM clients WHERE onboarded_at >= $1 AND onboarded_at < $2`

	var n int
	if err := r.db.QueryRowContext(ctx, q, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("reporting: count clients: %w", err)
	}
	return n, nil
}
