package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key is the Redis list that carries playback events to the stats worker.
const Key = "bracketwrap:events"

// EventQueue is a FIFO of encoded playback events backed by a Redis list.
type EventQueue struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewEventQueue(rdb *redis.Client, logger *slog.Logger) *EventQueue {
	return &EventQueue{rdb: rdb, logger: logger}
}

// Enqueue appends one encoded event.
func (q *EventQueue) Enqueue(ctx context.Context, payload []byte) error {
	if err := q.rdb.RPush(ctx, Key, payload).Err(); err != nil {
		q.logger.Error("Failed to enqueue event", "error", err, "key", Key)
		return fmt.Errorf("failed to enqueue event: %w", err)
	}
	return nil
}

// Dequeue removes the oldest event. It returns nil when the queue is empty.
func (q *EventQueue) Dequeue(ctx context.Context) ([]byte, error) {
	result, err := q.rdb.LPop(ctx, Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}
	return result, nil
}

// BlockingDequeue waits up to timeout for an event. A timeout or a cancelled
// context returns nil, nil so callers can poll for shutdown.
func (q *EventQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := q.rdb.BLPop(ctx, timeout, Key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	return []byte(result[1]), nil
}

// Depth returns the number of events waiting.
func (q *EventQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.rdb.LLen(ctx, Key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}
