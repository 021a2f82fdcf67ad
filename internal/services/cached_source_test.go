package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	teamsCalls  int
	slidesCalls int
	groupCalls  int
	err         error
}

func (s *countingSource) Teams(ctx context.Context) ([]bracket.Team, error) {
	s.teamsCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []bracket.Team{{ID: "uconn", Name: "UConn", Seed: 1}}, nil
}

func (s *countingSource) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	s.slidesCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &bracket.SlidesData{Bracket: bracket.Bracket{ID: bracketID, Year: year}}, nil
}

func (s *countingSource) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	s.groupCalls++
	return []bracket.Group{{ID: "g1", Name: query}}, nil
}

func TestCachedSource_HitAndMiss(t *testing.T) {
	src := &countingSource{}
	cache := NewMockCache()
	cs := NewCachedSource(src, cache, time.Minute, quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := cs.Slides(ctx, "b1", "g1", 2024)
		require.NoError(t, err)
		assert.Equal(t, "b1", data.Bracket.ID)
		assert.Equal(t, 2024, data.Bracket.Year)
	}
	assert.Equal(t, 1, src.slidesCalls)
	require.Len(t, cache.SetCalls, 1)
	assert.Equal(t, "bracketwrap:slides:b1:g1:2024", cache.SetCalls[0].Key)
	assert.Equal(t, time.Minute, cache.SetCalls[0].Expiration)

	_, err := cs.Slides(ctx, "b1", "", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, src.slidesCalls, "different group is a different key")

	for i := 0; i < 2; i++ {
		teams, err := cs.Teams(ctx)
		require.NoError(t, err)
		assert.Len(t, teams, 1)
	}
	assert.Equal(t, 1, src.teamsCalls)

	_, err = cs.SearchGroups(ctx, "Office", 0)
	require.NoError(t, err)
	_, err = cs.SearchGroups(ctx, " office ", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, src.groupCalls, "queries are normalized")
}

func TestCachedSource_CacheFailuresFallThrough(t *testing.T) {
	src := &countingSource{}
	cache := NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", errors.New("connection refused")
	}
	cache.SetFunc = func(ctx context.Context, key string, value any, expiration time.Duration) error {
		return errors.New("connection refused")
	}
	cs := NewCachedSource(src, cache, time.Minute, quietLogger())

	for i := 0; i < 2; i++ {
		teams, err := cs.Teams(context.Background())
		require.NoError(t, err)
		assert.Len(t, teams, 1)
	}
	assert.Equal(t, 2, src.teamsCalls)
}

func TestCachedSource_CorruptEntry(t *testing.T) {
	src := &countingSource{}
	cache := NewMockCache()
	require.NoError(t, cache.Set(context.Background(), "bracketwrap:teams", "{not json", 0))
	cs := NewCachedSource(src, cache, time.Minute, quietLogger())

	teams, err := cs.Teams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, 1, src.teamsCalls)
}

func TestCachedSource_SourceError(t *testing.T) {
	src := &countingSource{err: ErrNotFound}
	cache := NewMockCache()
	cs := NewCachedSource(src, cache, time.Minute, quietLogger())

	_, err := cs.Slides(context.Background(), "nope", "", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, cache.SetCalls, 0)
}

func TestCachedSource_WithRedis(t *testing.T) {
	_, redisSvc := setupTestRedis(t)
	src := &countingSource{}
	cs := NewCachedSource(src, redisSvc, time.Minute, quietLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cs.Slides(ctx, "b1", "", 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.slidesCalls)

	exists, err := redisSvc.Exists(ctx, "bracketwrap:slides:b1::0")
	require.NoError(t, err)
	assert.True(t, exists)
}
