package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo appends audit events to the audit_events table.
// Reads happen out-of-band (ops tooling); the service never queries back.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
		INSERT INTO audit_events
			(id, type, actor_user_id, recording_id, extraction_id, client_id, message, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		e.ID, string(e.Type), e.ActorUserID,
		e.RecordingID, e.ExtractionID, e.ClientID,
		e.Message, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}
