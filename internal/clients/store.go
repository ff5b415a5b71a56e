package clients

import "context"

// Store is the persistence contract for onboarded clients.
// Insert-only; the review service creates rows inside its own
// transaction via the review store, so this interface only covers reads
// plus the memory implementation used in tests.
type Store interface {
	List(ctx context.Context) ([]Client, error)
}
