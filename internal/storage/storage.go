package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// ErrNotFound is returned when a bracket, group or session does not exist.
var ErrNotFound = errors.New("not found")

// Store serves the bracket data behind the API.
type Store interface {
	// Slides returns the story payload for a bracket. When groupID is set and
	// does not match the payload's group, the group sections are dropped. A
	// non-zero year must match the bracket's year.
	Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error)

	// SearchGroups matches query case-insensitively against group names.
	SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error)

	// Teams returns every tournament team.
	Teams(ctx context.Context) ([]bracket.Team, error)
}
