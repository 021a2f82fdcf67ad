package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/bracket-wrap/internal/services/events"
	"github.com/jwebster45206/bracket-wrap/internal/services/queue"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_RecordsBroadcastEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := quietLogger()
	q := queue.NewEventQueue(client, log)
	stats := storage.NewStatsStore(client, time.Hour, log)
	b := events.NewBroadcaster(client, log)
	w := New(q, stats, log, "worker-test")

	ctx := context.Background()
	session := uuid.New()
	require.NoError(t, b.PublishStoryStarted(ctx, session, "b1", 3))
	require.NoError(t, b.PublishSlideChanged(ctx, session, "b1", 0, 1, "twin"))
	require.NoError(t, b.PublishSlideShared(ctx, session, "b1", "twin", "https://bracketwrap.com/share/s2"))
	require.NoError(t, b.PublishSlideChanged(ctx, session, "b1", 1, 2, "wrap-up"))
	require.NoError(t, b.PublishStoryFinished(ctx, session, "b1"))
	require.NoError(t, b.PublishStoryFinished(ctx, session, "b1"))

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, depth)

	for i := 0; i < depth; i++ {
		took, err := w.processNext()
		require.NoError(t, err)
		require.True(t, took)
	}

	got, err := stats.Stats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Started)
	assert.Equal(t, int64(1), got.Finished)
	assert.Equal(t, int64(1), got.Shares)
	assert.Equal(t, map[string]int64{"twin": 1, "wrap-up": 1}, got.SlideViews)
}

func TestWorker_DropsBadEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := quietLogger()
	q := queue.NewEventQueue(client, log)
	stats := storage.NewStatsStore(client, time.Hour, log)
	w := New(q, stats, log, "")
	assert.Contains(t, w.ID(), "worker-")

	ctx := context.Background()
	for _, payload := range []string{
		`not json`,
		`{"type":"story.started"}`,
		`{"type":"story.slide_changed","bracket_id":"b1","data":{}}`,
		`{"type":"story.rewound","bracket_id":"b1"}`,
	} {
		require.NoError(t, q.Enqueue(ctx, []byte(payload)))
		took, err := w.processNext()
		require.NoError(t, err)
		assert.True(t, took, payload)
	}

	_, err := stats.Stats(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// chanQueue hands out payloads from a channel and honours the timeout.
type chanQueue chan []byte

func (c chanQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	select {
	case p := <-c:
		return p, nil
	case <-ctx.Done():
		return nil, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

type countingRecorder struct {
	mu      sync.Mutex
	started int
}

func (r *countingRecorder) RecordStarted(ctx context.Context, bracketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	return nil
}

func (r *countingRecorder) RecordSlideView(ctx context.Context, bracketID, slideID string) error {
	return nil
}

func (r *countingRecorder) RecordShare(ctx context.Context, bracketID, slideID string) error {
	return nil
}

func (r *countingRecorder) RecordFinished(ctx context.Context, bracketID, sessionID string) (bool, error) {
	return true, nil
}

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

func TestWorker_StartStop(t *testing.T) {
	q := make(chanQueue, 2)
	rec := &countingRecorder{}
	w := New(q, rec, quietLogger(), "w1")

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	q <- []byte(`{"type":"story.started","bracket_id":"b1"}`)
	q <- []byte(`{"type":"story.started","bracket_id":"b2"}`)
	require.Eventually(t, func() bool { return rec.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	w.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
