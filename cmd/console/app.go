package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bracket-wrap/internal/config"
	"github.com/jwebster45206/bracket-wrap/internal/services"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/slides"

	tea "github.com/charmbracelet/bubbletea"
)

// Sessions remembers where a viewer is in a story.
type Sessions interface {
	Start(ctx context.Context, bracketID, groupID string) (*storage.Session, error)
	SaveSlide(ctx context.Context, sess *storage.Session, slide int) error
	Latest(ctx context.Context, bracketID, groupID string) (*storage.Session, error)
}

// Publisher announces playback events to other listeners.
type Publisher interface {
	PublishStoryStarted(ctx context.Context, sessionID uuid.UUID, bracketID string, total int) error
	PublishSlideChanged(ctx context.Context, sessionID uuid.UUID, bracketID string, from, to int, slideID string) error
	PublishSlideShared(ctx context.Context, sessionID uuid.UUID, bracketID, slideID, shareURL string) error
	PublishStoryFinished(ctx context.Context, sessionID uuid.UUID, bracketID string) error
}

// App holds the console's dependencies. Sessions, Events and Cache are nil
// when Redis is unavailable; the player works without them.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Cache    services.Cache
	Source   services.Source
	Sessions Sessions
	Events   Publisher

	// CopyText puts text on the system clipboard.
	CopyText func(text string) error
	// RunProgram runs a Bubble Tea model until it quits.
	RunProgram func(m tea.Model) error
}

// source returns the configured Source, building the REST client (behind
// the cache when there is one) on first use.
func (a *App) source() services.Source {
	if a.Source != nil {
		return a.Source
	}
	var src services.Source = services.NewBracketClient(a.Config.APIBaseURL, &http.Client{Timeout: 30 * time.Second})
	if a.Cache != nil {
		src = services.NewCachedSource(src, a.Cache, a.Config.CacheTTL, a.Logger)
	}
	a.Source = src
	return src
}

// playRequest is what the play command asks for.
type playRequest struct {
	BracketID string
	GroupID   string
	Year      int
	Slide     int // zero-based resume slide, -1 when not given
	Resume    bool
	NoIntro   bool
}

// loadedStory is everything the player needs once the data has arrived.
type loadedStory struct {
	Data     *bracket.SlidesData
	Teams    bracket.TeamIndex
	Registry *slides.Registry
	Session  *storage.Session
	Start    int
	Resumed  bool
}

// loadStory fetches teams and slides, builds the slide list, and opens a
// viewer session. Team and session failures are logged and tolerated.
func (a *App) loadStory(ctx context.Context, req playRequest) (*loadedStory, error) {
	src := a.source()

	data, err := src.Slides(ctx, req.BracketID, req.GroupID, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket %s: %w", req.BracketID, err)
	}

	var teams bracket.TeamIndex
	if list, err := src.Teams(ctx); err != nil {
		a.Logger.Warn("Failed to load teams, showing raw ids", "error", err)
	} else {
		teams = bracket.IndexTeams(list)
	}

	if err := data.Validate(teams); err != nil {
		a.Logger.Warn("Slide data failed validation", "bracket_id", req.BracketID, "error", err)
	}

	reg, err := slides.Compose(data)
	if err != nil {
		return nil, err
	}

	ls := &loadedStory{Data: data, Teams: teams, Registry: reg}
	if req.Slide >= 0 {
		ls.Start = req.Slide
	}
	a.openSession(ctx, req, ls)
	return ls, nil
}

func (a *App) openSession(ctx context.Context, req playRequest, ls *loadedStory) {
	if a.Sessions == nil {
		return
	}
	if req.Resume && req.Slide < 0 {
		sess, err := a.Sessions.Latest(ctx, req.BracketID, req.GroupID)
		switch {
		case err == nil:
			ls.Session = sess
			ls.Start = min(sess.Slide, ls.Registry.Len()-1)
			ls.Resumed = true
			return
		case errors.Is(err, storage.ErrNotFound):
			a.Logger.Info("No session to resume, starting over", "bracket_id", req.BracketID)
		default:
			a.Logger.Warn("Failed to load session", "error", err)
		}
	}
	sess, err := a.Sessions.Start(ctx, req.BracketID, req.GroupID)
	if err != nil {
		a.Logger.Warn("Failed to start session", "error", err)
		return
	}
	ls.Session = sess
}
