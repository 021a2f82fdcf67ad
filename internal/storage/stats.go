package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stats are the playback counters for one bracket's story.
type Stats struct {
	BracketID   string           `json:"bracket_id"`
	Started     int64            `json:"started"`
	Finished    int64            `json:"finished"`
	Shares      int64            `json:"shares"`
	SlideViews  map[string]int64 `json:"slide_views"`
	SlideShares map[string]int64 `json:"slide_shares,omitempty"`
}

const (
	fieldStarted  = "started"
	fieldFinished = "finished"
	fieldShares   = "shares"
	viewPrefix    = "view:"
	sharePrefix   = "share:"
)

// StatsStore aggregates playback events into one Redis hash per bracket.
type StatsStore struct {
	client *redis.Client
	// finishedTTL bounds how long a session is remembered as finished.
	finishedTTL time.Duration
	logger      *slog.Logger
}

func NewStatsStore(client *redis.Client, finishedTTL time.Duration, logger *slog.Logger) *StatsStore {
	return &StatsStore{client: client, finishedTTL: finishedTTL, logger: logger}
}

func statsKey(bracketID string) string {
	return "bracketwrap:stats:" + bracketID
}

func finishedKey(sessionID string) string {
	return "bracketwrap:finished:" + sessionID
}

func (s *StatsStore) RecordStarted(ctx context.Context, bracketID string) error {
	return s.incr(ctx, bracketID, fieldStarted)
}

func (s *StatsStore) RecordSlideView(ctx context.Context, bracketID, slideID string) error {
	return s.incr(ctx, bracketID, viewPrefix+slideID)
}

func (s *StatsStore) RecordShare(ctx context.Context, bracketID, slideID string) error {
	return s.incr(ctx, bracketID, fieldShares, sharePrefix+slideID)
}

// RecordFinished counts a finished story once per session. It reports
// whether this call was the one that counted it.
func (s *StatsStore) RecordFinished(ctx context.Context, bracketID, sessionID string) (bool, error) {
	first, err := s.client.SetNX(ctx, finishedKey(sessionID), bracketID, s.finishedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session finished: %w", err)
	}
	if !first {
		s.logger.Debug("Session already counted as finished", "session_id", sessionID)
		return false, nil
	}
	return true, s.incr(ctx, bracketID, fieldFinished)
}

func (s *StatsStore) incr(ctx context.Context, bracketID string, fields ...string) error {
	key := statsKey(bracketID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, f := range fields {
			p.HIncrBy(ctx, key, f, 1)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update stats", "bracket_id", bracketID, "fields", fields, "error", err)
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// Stats returns the counters for a bracket, or ErrNotFound when nothing has
// been recorded for it.
func (s *StatsStore) Stats(ctx context.Context, bracketID string) (*Stats, error) {
	fields, err := s.client.HGetAll(ctx, statsKey(bracketID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("stats for %s: %w", bracketID, ErrNotFound)
	}

	out := &Stats{BracketID: bracketID, SlideViews: make(map[string]int64)}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.logger.Warn("Skipping bad stats field", "bracket_id", bracketID, "field", field, "value", raw)
			continue
		}
		switch {
		case field == fieldStarted:
			out.Started = n
		case field == fieldFinished:
			out.Finished = n
		case field == fieldShares:
			out.Shares = n
		case strings.HasPrefix(field, viewPrefix):
			out.SlideViews[strings.TrimPrefix(field, viewPrefix)] = n
		case strings.HasPrefix(field, sharePrefix):
			if out.SlideShares == nil {
				out.SlideShares = make(map[string]int64)
			}
			out.SlideShares[strings.TrimPrefix(field, sharePrefix)] = n
		}
	}
	return out, nil
}
