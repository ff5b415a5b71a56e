package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const jobListKey = "pipeline:jobs"

// RedisQueue is a Redis-list-backed job queue: LPUSH to enqueue,
// BRPOP to consume. Tasks for different recordings carry no ordering
// guarantee; within one recording, ordering comes from chained
// enqueueing (extract is only ever queued by a successful transcribe).
type RedisQueue struct {
	rdb  *redis.Client
	poll time.Duration
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb, poll: 5 * time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, t Task) error {
	if t.RecordingID == "" {
		return fmt.Errorf("pipeline: recording id is required")
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("pipeline: marshal task: %w", err)
	}
	if err := q.rdb.LPush(ctx, jobListKey, payload).Err(); err != nil {
		return fmt.Errorf("pipeline: enqueue: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Task, bool, error) {
	// Short block so ctx cancellation is noticed between polls.
	res, err := q.rdb.BRPop(ctx, q.poll, jobListKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Task{}, false, nil
		}
		if ctx.Err() != nil {
			return Task{}, false, ctx.Err()
		}
		return Task{}, false, fmt.Errorf("pipeline: dequeue: %w", err)
	}
	// res is [key, value]
	if len(res) != 2 {
		return Task{}, false, fmt.Errorf("pipeline: unexpected brpop reply %v", res)
	}
	var t Task
	if err := json.Unmarshal([]byte(res[1]), &t); err != nil {
		return Task{}, false, fmt.Errorf("pipeline: decode task: %w", err)
	}
	return t, true, nil
}
