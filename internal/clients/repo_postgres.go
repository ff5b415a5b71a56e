package clients

import (
	"context"
	"database/sql"
)

// PostgresStore reads clients from the clients table (see schema.sql).
// Inserts happen inside the review transaction; see internal/review.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]Client, error) {
	const q = `
SELECT id, name, company, contact_number, email, service_purchased, onboarded_at, extraction_id
FROM clients
ORDER BY onboarded_at DESC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Company,
			&c.ContactNumber,
			&c.Email,
			&c.ServicePurchased,
			&c.OnboardedAt,
			&c.ExtractionID,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
