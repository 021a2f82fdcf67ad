package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bracket-wrap/internal/services/events"
)

const (
	workerTimeout = 5 * time.Second
	errorBackoff  = time.Second
)

// Queue is the consuming side of queue.EventQueue.
type Queue interface {
	BlockingDequeue(ctx context.Context, timeout time.Duration) ([]byte, error)
}

// Recorder is the write side of storage.StatsStore.
type Recorder interface {
	RecordStarted(ctx context.Context, bracketID string) error
	RecordSlideView(ctx context.Context, bracketID, slideID string) error
	RecordShare(ctx context.Context, bracketID, slideID string) error
	RecordFinished(ctx context.Context, bracketID, sessionID string) (bool, error)
}

// Worker folds queued playback events into per-bracket stats.
type Worker struct {
	id      string
	queue   Queue
	stats   Recorder
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	backoff time.Duration
}

// New creates a worker. An empty workerID gets a generated one.
func New(q Queue, stats Recorder, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:      workerID,
		queue:   q,
		stats:   stats,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		backoff: errorBackoff,
	}
}

func (w *Worker) ID() string {
	return w.id
}

// Start processes events until Stop is called.
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if _, err := w.processNext(); err != nil {
				w.log.Error("Error processing event", "error", err, "worker_id", w.id)
				select {
				case <-w.ctx.Done():
				case <-time.After(w.backoff):
				}
			}
		}
	}
}

// Stop asks Start to return after the current event.
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNext handles at most one event. It reports whether one was taken
// off the queue.
func (w *Worker) processNext() (bool, error) {
	ctx, cancel := context.WithTimeout(w.ctx, workerTimeout+time.Second)
	defer cancel()

	payload, err := w.queue.BlockingDequeue(ctx, workerTimeout)
	if err != nil {
		return false, fmt.Errorf("failed to dequeue event: %w", err)
	}
	if payload == nil {
		return false, nil
	}

	var ev events.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		w.log.Warn("Dropping malformed event", "worker_id", w.id, "error", err)
		return true, nil
	}
	return true, w.record(w.ctx, ev)
}

func (w *Worker) record(ctx context.Context, ev events.Event) error {
	if ev.BracketID == "" {
		w.log.Warn("Dropping event without bracket", "worker_id", w.id, "type", ev.Type, "session_id", ev.SessionID)
		return nil
	}

	log := w.log.With("worker_id", w.id, "type", ev.Type, "bracket_id", ev.BracketID, "session_id", ev.SessionID)

	switch ev.Type {
	case events.EventTypeStoryStarted:
		return w.stats.RecordStarted(ctx, ev.BracketID)
	case events.EventTypeSlideChanged:
		slideID, _ := ev.Data["slide_id"].(string)
		if slideID == "" {
			log.Warn("Slide change without slide id")
			return nil
		}
		return w.stats.RecordSlideView(ctx, ev.BracketID, slideID)
	case events.EventTypeSlideShared:
		slideID, _ := ev.Data["slide_id"].(string)
		return w.stats.RecordShare(ctx, ev.BracketID, slideID)
	case events.EventTypeStoryFinished:
		counted, err := w.stats.RecordFinished(ctx, ev.BracketID, ev.SessionID)
		if err != nil {
			return err
		}
		log.Debug("Story finished", "counted", counted)
		return nil
	default:
		log.Warn("Ignoring unknown event type")
		return nil
	}
}
