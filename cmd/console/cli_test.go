package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/bracket-wrap/internal/config"
	"github.com/jwebster45206/bracket-wrap/internal/services"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data  *bracket.SlidesData
	teams []bracket.Team
	err   error
}

func (s *stubSource) Teams(ctx context.Context) ([]bracket.Team, error) {
	return s.teams, nil
}

func (s *stubSource) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubSource) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	return nil, nil
}

func sampleData() *bracket.SlidesData {
	return &bracket.SlidesData{
		Bracket: bracket.Bracket{ID: "b1", Name: "Chalk Walk", Year: 2024, Member: bracket.Member{DisplayName: "Ryan"}},
		Wrapped: bracket.Wrapped{
			Bracket: bracket.BracketSections{
				ChampionPickNational: &bracket.Section[bracket.ChampionPick]{
					ShareID: "share-champ",
					Data:    bracket.ChampionPick{TeamID: "uconn", Percentage: 12.5, Brackets: 1200},
				},
				ChalkScore: &bracket.Section[bracket.Chalk]{
					ShareID: "share-chalk",
					Data:    bracket.Chalk{Percentile: 80, UpsetsCount: 9, BracketCount: 5000},
				},
			},
		},
	}
}

func testApp(src services.Source) *App {
	cfg := &config.Config{
		APIBaseURL:     "http://localhost:8080",
		Year:           2024,
		SwipeThreshold: 50,
		CacheTTL:       time.Minute,
	}
	return &App{
		Config:     cfg,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Source:     src,
		CopyText:   func(string) error { return nil },
		RunProgram: func(tea.Model) error { return nil },
	}
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []scriptStep
		wantErr string
	}{
		{
			name:  "all inputs",
			input: "skip next\nprev goto 3 swipe -80 click 70 80 wait 1.5s",
			want: []scriptStep{
				{op: "skip"},
				{op: "next"},
				{op: "prev"},
				{op: "goto", n: 3},
				{op: "swipe", n: -80},
				{op: "click", n: 70, width: 80},
				{op: "wait", wait: 1500 * time.Millisecond},
			},
		},
		{name: "empty", input: "  ", want: nil},
		{name: "case insensitive", input: "NEXT", want: []scriptStep{{op: "next"}}},
		{name: "unknown", input: "jump", wantErr: `unknown input "jump"`},
		{name: "missing goto arg", input: "goto", wantErr: "goto: missing argument"},
		{name: "bad number", input: "swipe far", wantErr: `swipe: "far" is not a number`},
		{name: "bad width", input: "click 1 0", wantErr: "width must be positive"},
		{name: "bad duration", input: "wait soon", wantErr: `wait: bad duration "soon"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScript(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptCommand(t *testing.T) {
	app := testApp(&stubSource{data: sampleData()})

	cmd := NewRootCommand(app)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"script", "--bracket", "b1", "--no-intro",
		"--inputs", "wait 4s next wait 500ms goto 9 goto 1"})

	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "story: 3 slides: champion, chalk, wrap-up")
	assert.Contains(t, got, "slide 1/3 idle loaded=true")
	assert.Contains(t, got, "next => exit")
	assert.Contains(t, got, "slide 1/3 exiting loaded=true")
	assert.Contains(t, got, "slide 2/3 idle loaded=false")
	assert.Contains(t, got, "error: goto 8 of 3: slide index out of range")
	assert.Contains(t, got, "change  slide 2/3 idle loaded=false -> slide 1/3 idle loaded=false")
}

func TestScriptCommand_Intro(t *testing.T) {
	app := testApp(&stubSource{data: sampleData()})

	cmd := NewRootCommand(app)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"script", "--bracket", "b1", "--inputs", "wait 3s skip"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "stage=intro/welcome")
	assert.Contains(t, out.String(), "stage=intro/reveal")
	assert.Contains(t, out.String(), "stage=intro\n")
}

func TestScriptCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		src  *stubSource
	}{
		{name: "bad input", args: []string{"script", "--bracket", "b1", "--inputs", "jump"}, src: &stubSource{data: sampleData()}},
		{name: "missing bracket flag", args: []string{"script", "--inputs", "next"}, src: &stubSource{data: sampleData()}},
		{name: "not found", args: []string{"script", "--bracket", "nope"}, src: &stubSource{err: services.ErrNotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand(testApp(tt.src))
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestPlayCommand(t *testing.T) {
	app := testApp(&stubSource{data: sampleData()})
	var ran Player
	app.RunProgram = func(m tea.Model) error {
		ran = m.(Player)
		return nil
	}

	cmd := NewRootCommand(app)
	cmd.SetArgs([]string{"play", "--bracket", " b1 ", "--slide", "2", "--group", "g1"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "b1", ran.req.BracketID)
	assert.Equal(t, "g1", ran.req.GroupID)
	assert.Equal(t, 1, ran.req.Slide)
	assert.Equal(t, 2024, ran.req.Year)
	assert.True(t, ran.loading)
}

func TestPlayCommand_RunFailure(t *testing.T) {
	app := testApp(&stubSource{data: sampleData()})
	app.RunProgram = func(tea.Model) error { return assert.AnError }

	cmd := NewRootCommand(app)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"play", "--bracket", "b1"})
	err := cmd.Execute()

	code, ok := IsExitError(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestPlayCommand_APIFlag(t *testing.T) {
	app := testApp(nil)
	app.RunProgram = func(tea.Model) error { return nil }

	cmd := NewRootCommand(app)
	cmd.SetArgs([]string{"play", "--api", "http://example.test", "--bracket", "b1"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "http://example.test", app.Config.APIBaseURL)
	_, ok := app.source().(*services.BracketClient)
	assert.True(t, ok)
}

func setupSessions(t *testing.T) *storage.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewSessionStore(client, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoadStory_Sessions(t *testing.T) {
	ctx := context.Background()
	sessions := setupSessions(t)
	app := testApp(&stubSource{data: sampleData()})
	app.Sessions = sessions

	req := playRequest{BracketID: "b1", Slide: -1, Resume: true}

	// nothing to resume yet
	ls, err := app.loadStory(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, ls.Session)
	assert.False(t, ls.Resumed)
	assert.Equal(t, 0, ls.Start)

	require.NoError(t, sessions.SaveSlide(ctx, ls.Session, 2))

	resumed, err := app.loadStory(ctx, req)
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)
	assert.Equal(t, 2, resumed.Start)
	assert.Equal(t, ls.Session.ID, resumed.Session.ID)

	// an explicit slide wins over the stored session
	req.Slide = 1
	fresh, err := app.loadStory(ctx, req)
	require.NoError(t, err)
	assert.False(t, fresh.Resumed)
	assert.Equal(t, 1, fresh.Start)
	assert.NotEqual(t, ls.Session.ID, fresh.Session.ID)
}

func TestLoadStory_NoSessions(t *testing.T) {
	app := testApp(&stubSource{data: sampleData()})

	ls, err := app.loadStory(context.Background(), playRequest{BracketID: "b1", Slide: -1, Resume: true})
	require.NoError(t, err)
	assert.Nil(t, ls.Session)
	assert.Equal(t, 3, ls.Registry.Len())
}
