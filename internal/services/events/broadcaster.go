package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bracket-wrap/internal/services/queue"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeStoryStarted  EventType = "story.started"
	EventTypeSlideChanged  EventType = "story.slide_changed"
	EventTypeSlideShared   EventType = "story.slide_shared"
	EventTypeStoryFinished EventType = "story.finished"
)

// Event is one playback event for a viewer session.
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	BracketID string         `json:"bracket_id,omitempty"`
	Time      time.Time      `json:"time"`
	Data      map[string]any `json:"data,omitempty"`
}

// Broadcaster publishes playback events to Redis Pub/Sub for live viewers
// and appends them to the event queue for the stats worker.
type Broadcaster struct {
	redisClient *redis.Client
	queue       *queue.EventQueue
	logger      *slog.Logger
	now         func() time.Time
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		queue:       queue.NewEventQueue(redisClient, logger),
		logger:      logger,
		now:         time.Now,
	}
}

// Channel returns the Pub/Sub channel for a session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("story-events:%s", sessionID)
}

// PublishStoryStarted publishes a story.started event
func (b *Broadcaster) PublishStoryStarted(ctx context.Context, sessionID uuid.UUID, bracketID string, total int) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeStoryStarted,
		BracketID: bracketID,
		Data:      map[string]any{"total": total},
	})
}

// PublishSlideChanged publishes a story.slide_changed event
func (b *Broadcaster) PublishSlideChanged(ctx context.Context, sessionID uuid.UUID, bracketID string, from, to int, slideID string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeSlideChanged,
		BracketID: bracketID,
		Data: map[string]any{
			"from":     from,
			"to":       to,
			"slide_id": slideID,
		},
	})
}

// PublishSlideShared publishes a story.slide_shared event
func (b *Broadcaster) PublishSlideShared(ctx context.Context, sessionID uuid.UUID, bracketID, slideID, shareURL string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeSlideShared,
		BracketID: bracketID,
		Data: map[string]any{
			"slide_id":  slideID,
			"share_url": shareURL,
		},
	})
}

// PublishStoryFinished publishes a story.finished event
func (b *Broadcaster) PublishStoryFinished(ctx context.Context, sessionID uuid.UUID, bracketID string) error {
	return b.publish(ctx, sessionID, Event{
		Type:      EventTypeStoryFinished,
		BracketID: bracketID,
	})
}

func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)
	event.SessionID = sessionID.String()
	event.Time = b.now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := b.queue.Enqueue(ctx, data); err != nil {
		return err
	}

	b.logger.Debug("Event published", "channel", channel, "event_type", event.Type)
	return nil
}
