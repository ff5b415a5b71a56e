package pipeline

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process queue for tests: tasks are recorded in
// order and handed back FIFO by Dequeue.
type MemoryQueue struct {
	mu    sync.Mutex
	tasks []Task
}

func NewMemoryQueue() *MemoryQueue { return &MemoryQueue{} }

func (q *MemoryQueue) Enqueue(ctx context.Context, t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Task, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return Task{}, false, nil
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true, nil
}

// Tasks returns a copy of the pending tasks.
func (q *MemoryQueue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
