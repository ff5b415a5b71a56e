package stt

import "context"

// Transcriber turns call audio into text.
// Implementations own their transport timeouts; the pipeline inherits
// whatever the client enforces and adds none of its own.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
}
