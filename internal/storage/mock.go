package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// MockStore is an in-memory Store for handler tests.
type MockStore struct {
	mu     sync.RWMutex
	slides map[string]*bracket.SlidesData
	groups []bracket.Group
	teams  []bracket.Team
	err    error
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{slides: make(map[string]*bracket.SlidesData)}
}

// SetError makes every call fail with err until cleared with nil.
func (m *MockStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockStore) AddSlides(data *bracket.SlidesData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slides[data.Bracket.ID] = data
}

func (m *MockStore) AddGroup(g bracket.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = append(m.groups, g)
}

func (m *MockStore) SetTeams(teams []bracket.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams = teams
}

func (m *MockStore) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.slides[bracketID]
	if !ok || (year > 0 && d.Bracket.Year != 0 && d.Bracket.Year != year) {
		return nil, fmt.Errorf("bracket %s: %w", bracketID, ErrNotFound)
	}
	out := *d
	if groupID != "" && (out.Group == nil || out.Group.ID != groupID) {
		out.Group = nil
		out.Wrapped.Group = nil
	}
	return &out, nil
}

func (m *MockStore) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	needle := strings.ToLower(query)
	var out []bracket.Group
	for _, g := range m.groups {
		if year > 0 && g.Year != year {
			continue
		}
		if strings.Contains(strings.ToLower(g.Name), needle) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockStore) Teams(ctx context.Context) ([]bracket.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.teams, nil
}
