package llm

import (
	"context"
	"encoding/json"

	"callintake-platform/internal/extraction"
)

// InfoExtractor pulls structured client-contact fields out of a call
// transcript. The raw response is returned verbatim for audit storage.
//
// A response without the expected tool invocation is not an error: it
// yields empty Fields so the recording can still reach review for
// manual entry.
type InfoExtractor interface {
	Extract(ctx context.Context, transcript string) (extraction.Fields, json.RawMessage, error)
}
