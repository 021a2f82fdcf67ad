package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is one viewer's playback of a story.
type Session struct {
	ID        uuid.UUID
	BracketID string
	GroupID   string
	Slide     int
	UpdatedAt time.Time
}

// SessionStore keeps sessions in Redis hashes so a viewer can resume where
// they left off. The latest session per bracket/group is indexed separately.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(id uuid.UUID) string {
	return "bracketwrap:session:" + id.String()
}

func latestKey(bracketID, groupID string) string {
	return fmt.Sprintf("bracketwrap:latest:%s:%s", bracketID, groupID)
}

// Start creates a session at slide 0 and makes it the latest for its story.
func (s *SessionStore) Start(ctx context.Context, bracketID, groupID string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New(),
		BracketID: bracketID,
		GroupID:   groupID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Debug("Session started", "session_id", sess.ID, "bracket_id", bracketID)
	return sess, nil
}

// SaveSlide records the viewer's current slide.
func (s *SessionStore) SaveSlide(ctx context.Context, sess *Session, slide int) error {
	sess.Slide = slide
	sess.UpdatedAt = time.Now().UTC()
	return s.save(ctx, sess)
}

func (s *SessionStore) save(ctx context.Context, sess *Session) error {
	key := sessionKey(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"bracket_id", sess.BracketID,
			"group_id", sess.GroupID,
			"slide", sess.Slide,
			"updated_at", sess.UpdatedAt.Format(time.RFC3339Nano),
		)
		p.Set(ctx, latestKey(sess.BracketID, sess.GroupID), sess.ID.String(), s.ttl)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to save session", "session_id", sess.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get loads a session by ID.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	slide, err := strconv.Atoi(fields["slide"])
	if err != nil {
		return nil, fmt.Errorf("session %s has bad slide %q: %w", id, fields["slide"], err)
	}
	updated, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])
	return &Session{
		ID:        id,
		BracketID: fields["bracket_id"],
		GroupID:   fields["group_id"],
		Slide:     slide,
		UpdatedAt: updated,
	}, nil
}

// Latest returns the most recently saved session for a story.
func (s *SessionStore) Latest(ctx context.Context, bracketID, groupID string) (*Session, error) {
	raw, err := s.client.Get(ctx, latestKey(bracketID, groupID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("no session for bracket %s: %w", bracketID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load latest session: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("latest session id %q: %w", raw, err)
	}
	return s.Get(ctx, id)
}
