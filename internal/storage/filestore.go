package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// FileStore implements Store over a data directory:
//
//	slides/{bracketID}.json
//	groups/*.json
//	teams.json
type FileStore struct {
	dataDir string
	logger  *slog.Logger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dataDir string, logger *slog.Logger) *FileStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStore{dataDir: dataDir, logger: logger}
}

func (s *FileStore) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	if !validName(bracketID) {
		return nil, fmt.Errorf("bracket %q: %w", bracketID, ErrNotFound)
	}
	path := filepath.Join(s.dataDir, "slides", bracketID+".json")
	s.logger.Debug("Loading slides", "bracket_id", bracketID, "path", path)

	var data bracket.SlidesData
	if err := readJSON(path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("bracket %s: %w", bracketID, ErrNotFound)
		}
		return nil, err
	}

	if year > 0 && data.Bracket.Year != 0 && data.Bracket.Year != year {
		return nil, fmt.Errorf("bracket %s for %d: %w", bracketID, year, ErrNotFound)
	}
	if groupID != "" && (data.Group == nil || data.Group.ID != groupID) {
		data.Group = nil
		data.Wrapped.Group = nil
	}
	return &data, nil
}

func (s *FileStore) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	dir := filepath.Join(s.dataDir, "groups")
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []bracket.Group

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var g bracket.Group
		if err := readJSON(path, &g); err != nil {
			s.logger.Warn("Failed to read group file", "path", path, "error", err)
			return nil
		}
		if year > 0 && g.Year != year {
			return nil
		}
		if needle == "" || strings.Contains(strings.ToLower(g.Name), needle) {
			out = append(out, g)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to walk groups directory", "error", err)
		return nil, fmt.Errorf("failed to search groups: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) Teams(ctx context.Context) ([]bracket.Team, error) {
	var teams []bracket.Team
	if err := readJSON(filepath.Join(s.dataDir, "teams.json"), &teams); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("teams: %w", ErrNotFound)
		}
		return nil, err
	}
	return teams, nil
}

func readJSON(path string, out any) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(file, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validName rejects IDs that could escape the data directory.
func validName(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
