package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker consumes stage tasks and dispatches them to the stages.
// Stage errors are logged, never propagated: by the time Run returns,
// the stage has already recorded its outcome on the recording.
type Worker struct {
	consumer   Consumer
	transcribe *TranscribeStage
	extract    *ExtractStage
	log        *slog.Logger

	// idlePause spaces out polls when Dequeue reports no work without
	// blocking (memory queue, degraded redis).
	idlePause time.Duration
}

func NewWorker(consumer Consumer, transcribe *TranscribeStage, extract *ExtractStage, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		consumer:   consumer,
		transcribe: transcribe,
		extract:    extract,
		log:        log,
		idlePause:  200 * time.Millisecond,
	}
}

// Run processes tasks on concurrency goroutines until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, concurrency int) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			w.loop(ctx, slot)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, slot int) {
	for {
		if ctx.Err() != nil {
			return
		}
		processed, err := w.RunOnce(ctx)
		if err != nil {
			w.log.Error("worker iteration failed", "slot", slot, "err", err)
		}
		if processed {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.idlePause):
		}
	}
}

// RunOnce claims and processes at most one task.
// Returns true if a task was handled, regardless of its outcome.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	task, ok, err := w.consumer.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	switch task.Kind {
	case TaskTranscribe:
		if err := w.transcribe.Run(ctx, task.RecordingID); err != nil {
			w.log.Warn("transcription stage failed", "recording_id", task.RecordingID, "err", err)
		}
	case TaskExtract:
		if err := w.extract.Run(ctx, task.RecordingID); err != nil {
			w.log.Warn("extraction stage failed", "recording_id", task.RecordingID, "err", err)
		}
	default:
		w.log.Error("unknown task kind", "kind", task.Kind, "recording_id", task.RecordingID)
	}
	return true, nil
}
