package pipeline

import "context"

// TaskKind identifies a pipeline stage.
type TaskKind string

const (
	TaskTranscribe TaskKind = "transcribe"
	TaskExtract    TaskKind = "extract"
)

// Task is one unit of stage work for one recording.
type Task struct {
	Kind        TaskKind `json:"kind"`
	RecordingID string   `json:"recording_id"`
}

// Queue is the enqueue side of the stage job queue. Callers return as
// soon as the task is durably queued; stage outcomes travel back via
// recording status and notifications, never return values.
type Queue interface {
	Enqueue(ctx context.Context, t Task) error
}

// Consumer is the worker side. Dequeue blocks until a task is available,
// the poll interval elapses (ok=false) or ctx is done.
type Consumer interface {
	Dequeue(ctx context.Context) (t Task, ok bool, err error)
}
