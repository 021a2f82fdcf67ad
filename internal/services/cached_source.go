package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// CachePrefix namespaces every key this package writes.
const CachePrefix = "bracketwrap:"

// CachedSource puts a Cache in front of a Source. Cache errors are logged
// and the call falls through to the Source.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ Source = (*CachedSource)(nil)

func NewCachedSource(source Source, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedSource) Teams(ctx context.Context) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := c.cached(ctx, CachePrefix+"teams", &teams, func() (any, error) {
		return c.source.Teams(ctx)
	})
	return teams, err
}

func (c *CachedSource) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	key := fmt.Sprintf("%sslides:%s:%s:%d", CachePrefix, bracketID, groupID, year)
	var data *bracket.SlidesData
	err := c.cached(ctx, key, &data, func() (any, error) {
		return c.source.Slides(ctx, bracketID, groupID, year)
	})
	return data, err
}

func (c *CachedSource) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	key := fmt.Sprintf("%sgroups:%s:%d", CachePrefix, strings.ToLower(strings.TrimSpace(query)), year)
	var groups []bracket.Group
	err := c.cached(ctx, key, &groups, func() (any, error) {
		return c.source.SearchGroups(ctx, query, year)
	})
	return groups, err
}

// cached decodes key into out on a hit. On a miss it calls load, stores the
// result and decodes it into out.
func (c *CachedSource) cached(ctx context.Context, key string, out any, load func() (any, error)) error {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed, using source", "key", key, "error", err)
	} else if raw != "" {
		if err := json.Unmarshal([]byte(raw), out); err == nil {
			c.logger.Debug("Cache hit", "key", key)
			return nil
		}
		c.logger.Warn("Discarding unreadable cache entry", "key", key)
	}

	v, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
	return json.Unmarshal(data, out)
}
