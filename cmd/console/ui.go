package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/bracket-wrap/internal/player"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/navigation"
	"github.com/jwebster45206/bracket-wrap/pkg/reveal"
	"github.com/jwebster45206/bracket-wrap/pkg/story"
	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
)

const (
	// frameInterval redraws the progress bar.
	frameInterval = 100 * time.Millisecond
	// statusTTL is how long a flash message stays in the help row.
	statusTTL = 2 * time.Second
	// loadTimeout bounds fetching a story.
	loadTimeout = 30 * time.Second
)

// Player is the Bubble Tea model that plays one story.
// https://github.com/charmbracelet/bubbletea
type Player struct {
	app     *App
	req     playRequest
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	width  int
	height int

	prompting bool
	loading   bool
	err       error

	story    *loadedStory
	playback *player.Playback
	finished bool

	paused bool
	frozen []float64

	status      string
	statusUntil time.Time

	showQuitModal bool

	// timers turns timer requests into commands. Tests swap in a virtual
	// scheduler.
	timers func(reqs []timeline.Request) tea.Cmd
}

type storyLoadedMsg struct {
	story *loadedStory
	err   error
}

type timerMsg struct {
	token timeline.Token
}

type frameMsg struct{}

type sharedMsg struct {
	url string
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	segmentFullStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255"))

	segmentEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	shareButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewPlayer(app *App, req playRequest) Player {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	ti := textinput.New()
	ti.Placeholder = "bracket id"
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 64
	ti.Width = 40

	m := Player{
		app:     app,
		req:     req,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
		input:   ti,
		timers:  tickTimers,
	}
	if req.BracketID == "" {
		m.prompting = true
		m.input.Focus()
	} else {
		m.loading = true
	}
	return m
}

func (m Player) Init() tea.Cmd {
	if m.prompting {
		return textinput.Blink
	}
	return tea.Batch(m.spinner.Tick, m.loadStory())
}

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		return m, nil
	}

	// Timers keep firing under the modals so a pending exit still commits.
	switch msg := msg.(type) {
	case timerMsg:
		return m.handleTimer(msg)
	case frameMsg:
		return m, frameTick()
	case sharedMsg:
		if msg.err != nil {
			m.app.Logger.Warn("Failed to copy share link", "error", msg.err)
			m.flash("could not copy link")
		} else {
			m.flash("copied " + msg.url)
		}
		return m, nil
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.prompting {
		return m.updatePrompt(msg)
	}
	if m.loading {
		return m.updateLoading(msg)
	}
	if m.err != nil {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Player) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			id := strings.TrimSpace(m.input.Value())
			if id == "" {
				return m, nil
			}
			m.req.BracketID = id
			m.prompting = false
			m.loading = true
			m.input.Blur()
			return m, tea.Batch(m.spinner.Tick, m.loadStory())
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Player) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.app.Logger.Error("Failed to load story", "bracket_id", m.req.BracketID, "error", msg.err)
			return m, nil
		}
		return m.startPlayback(msg.story)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Player) startPlayback(ls *loadedStory) (tea.Model, tea.Cmd) {
	log := m.app.Logger
	if ls.Session != nil {
		log = log.With("session_id", ls.Session.ID.String())
	}
	pb, err := player.New(ls.Registry, ls.Teams, player.Options{
		Start:          ls.Start,
		SkipIntro:      m.req.NoIntro || ls.Resumed || m.req.Slide >= 0,
		SwipeThreshold: m.app.Config.SwipeThreshold,
		Observers: []story.Observer{func(prev, next story.State) {
			log.Debug("Story state changed", "from", prev.String(), "to", next.String())
		}},
	})
	if err != nil {
		m.err = err
		return m, nil
	}
	m.story = ls
	m.playback = pb
	log.Info("Story started", "bracket_id", m.req.BracketID, "slides", ls.Registry.Len(), "start", ls.Start)

	return m, tea.Batch(m.drain(), frameTick(), m.publishStarted())
}

func (m Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := m.playback.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.showQuitModal = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.togglePause()
		return m, nil
	case key.Matches(msg, m.keys.Share):
		if m.playback.InIntro() {
			m.playback.SkipIntro()
			return m, m.drain()
		}
		return m, m.share()
	case key.Matches(msg, m.keys.Next):
		m.playback.Key(navigation.KeyRight)
	case key.Matches(msg, m.keys.Prev):
		m.playback.Key(navigation.KeyLeft)
	default:
		m.playback.Key(navigation.KeyNone)
	}
	cmd := tea.Batch(m.drain(), m.afterChange(prev))
	return m, cmd
}

func (m Player) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.playback.PointerDown(msg.X)
		}
		return m, nil
	case tea.MouseActionRelease:
		prev := m.playback.State()
		layout := buildLayout(m.width, m.height, m.shareVisible())
		target := navigation.HitTest(layout, msg.X, msg.Y)
		res := m.playback.PointerUp(msg.X, m.width, target)
		var share tea.Cmd
		if res == navigation.ResultIgnored && target != nil && target.ID == elemShare {
			share = m.share()
		}
		cmd := tea.Batch(m.drain(), m.afterChange(prev), share)
		return m, cmd
	}
	return m, nil
}

func (m Player) handleTimer(msg timerMsg) (tea.Model, tea.Cmd) {
	if m.playback == nil {
		return m, nil
	}
	prev := m.playback.State()
	m.playback.HandleTimer(timeline.Fired{Token: msg.token})
	cmd := tea.Batch(m.drain(), m.afterChange(prev))
	return m, cmd
}

func (m *Player) togglePause() {
	m.paused = !m.paused
	if m.paused {
		m.frozen = m.playback.Segments()
		m.flash("paused")
	} else {
		m.frozen = nil
		m.flash("")
	}
}

func (m *Player) flash(text string) {
	m.status = text
	m.statusUntil = time.Now().Add(statusTTL)
}

// drain hands queued timer requests to the host.
func (m Player) drain() tea.Cmd {
	if m.playback == nil {
		return nil
	}
	reqs := m.playback.Drain()
	if len(reqs) == 0 {
		return nil
	}
	return m.timers(reqs)
}

// tickTimers schedules each request as a Bubble Tea tick.
func tickTimers(reqs []timeline.Request) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, r := range reqs {
		tok := r.Token
		cmds = append(cmds, tea.Tick(r.After, func(time.Time) tea.Msg {
			return timerMsg{token: tok}
		}))
	}
	return tea.Batch(cmds...)
}

// afterChange persists and announces a slide change.
func (m *Player) afterChange(prev story.State) tea.Cmd {
	next := m.playback.State()
	if next.Current == prev.Current || m.story.Session == nil {
		return nil
	}
	finished := next.IsLast() && !m.finished
	if finished {
		m.finished = true
	}

	app, sess := m.app, m.story.Session
	bracketID := m.req.BracketID
	slideID := ""
	if s, err := m.playback.Slide(); err == nil {
		slideID = s.ID()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Sessions.SaveSlide(ctx, sess, next.Current); err != nil {
			app.Logger.Warn("Failed to save session", "session_id", sess.ID, "error", err)
		}
		if app.Events == nil {
			return nil
		}
		if err := app.Events.PublishSlideChanged(ctx, sess.ID, bracketID, prev.Current, next.Current, slideID); err != nil {
			app.Logger.Warn("Failed to publish slide change", "error", err)
		}
		if finished {
			if err := app.Events.PublishStoryFinished(ctx, sess.ID, bracketID); err != nil {
				app.Logger.Warn("Failed to publish story finished", "error", err)
			}
		}
		return nil
	}
}

func (m Player) publishStarted() tea.Cmd {
	if m.app.Events == nil || m.story.Session == nil {
		return nil
	}
	app, sess := m.app, m.story.Session
	bracketID, total := m.req.BracketID, m.story.Registry.Len()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Events.PublishStoryStarted(ctx, sess.ID, bracketID, total); err != nil {
			app.Logger.Warn("Failed to publish story start", "error", err)
		}
		return nil
	}
}

// shareVisible reports whether the current slide is showing its share
// button: it has a share id, its footer is up, and it is not exiting.
func (m Player) shareVisible() bool {
	if m.playback == nil || m.playback.InIntro() || m.playback.State().IsExiting() {
		return false
	}
	s, err := m.playback.Slide()
	if err != nil || s.ShareID() == "" {
		return false
	}
	return m.playback.Stage() == reveal.StageFooter
}

func (m Player) share() tea.Cmd {
	if !m.shareVisible() {
		return nil
	}
	s, _ := m.playback.Slide()
	url := bracket.ShareURL(s.ShareID())
	app := m.app
	var sessionID string
	var publish func(ctx context.Context) error
	if sess := m.story.Session; sess != nil && app.Events != nil {
		sessionID = sess.ID.String()
		bracketID, slideID := m.req.BracketID, s.ID()
		publish = func(ctx context.Context) error {
			return app.Events.PublishSlideShared(ctx, sess.ID, bracketID, slideID, url)
		}
	}
	return func() tea.Msg {
		if err := app.CopyText(url); err != nil {
			return sharedMsg{url: url, err: err}
		}
		if publish != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := publish(ctx); err != nil {
				app.Logger.Warn("Failed to publish share", "session_id", sessionID, "error", err)
			}
		}
		return sharedMsg{url: url}
	}
}

func (m Player) loadStory() tea.Cmd {
	app, req := m.app, m.req
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ls, err := app.loadStory(ctx, req)
		return storyLoadedMsg{story: ls, err: err}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m Player) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.Type {
	case tea.KeyCtrlC, tea.KeyEnter:
		return m.quit()
	}
	switch k.String() {
	case "y", "Y", "q":
		return m.quit()
	case "n", "N", "esc":
		m.showQuitModal = false
	}
	return m, nil
}

func (m Player) quit() (tea.Model, tea.Cmd) {
	if m.playback != nil {
		m.playback.Close()
	}
	return m, tea.Quit
}

func (m Player) View() string {
	if m.width == 0 || m.height == 0 {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.prompting {
		return m.renderModal("Bracket Wrap",
			"Enter a bracket ID to play its story.\n\n"+m.input.View()+"\n\n"+
				promptStyle.Render("Enter to start, Esc to exit"))
	}
	if m.loading {
		return m.renderModal("Loading",
			m.spinner.View()+" "+loadingStyle.Render("Fetching bracket "+m.req.BracketID+"..."))
	}
	if m.err != nil {
		return m.renderModal("Error",
			errorStyle.Render(fmt.Sprintf("Failed to load story: %v", m.err))+"\n\n"+
				promptStyle.Render("Press q to exit"))
	}
	if m.playback.InIntro() {
		return m.renderIntro()
	}

	rows := []string{
		m.renderProgress(),
		"",
		lipgloss.Place(m.width, slideHeight(m.height), lipgloss.Center, lipgloss.Center,
			m.playback.Render(min(m.width-4, 72), slideHeight(m.height))),
		m.renderShareRow(),
		m.renderHelpRow(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Player) renderIntro() string {
	var body string
	switch m.playback.IntroStage() {
	case player.IntroWelcome:
		body = titleStyle.Render("BRACKET WRAP")
	case player.IntroReveal:
		body = titleStyle.Render("BRACKET WRAP") + "\n\n" + "Your tournament, wrapped."
	default:
		body = promptStyle.Render("Your tournament, wrapped.")
	}
	hint := promptStyle.Render("press any key to skip")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, body, "", hint))
}

// renderProgress draws one bar per slide, split by single spaces.
func (m Player) renderProgress() string {
	segs := m.frozen
	if segs == nil {
		segs = m.playback.Segments()
	}
	n := len(segs)
	if n == 0 {
		return ""
	}
	cell := max((m.width-(n-1))/n, 1)
	parts := make([]string, n)
	for i, f := range segs {
		filled := int(f * float64(cell))
		parts[i] = segmentFullStyle.Render(strings.Repeat("━", filled)) +
			segmentEmptyStyle.Render(strings.Repeat("━", cell-filled))
	}
	return strings.Join(parts, " ")
}

func (m Player) renderShareRow() string {
	if !m.shareVisible() {
		return ""
	}
	return strings.Repeat(" ", shareButtonX(m.width)) + shareButtonStyle.Render(shareLabel)
}

func (m Player) renderHelpRow() string {
	if m.status != "" && time.Now().Before(m.statusUntil) {
		return statusStyle.Render(m.status)
	}
	if m.paused {
		return statusStyle.Render("paused")
	}
	return m.help.View(m.keys)
}

func (m Player) renderModal(title, body string) string {
	content := modalTitleStyle.Render(title) + "\n\n" + body
	modal := modalStyle.Width(60).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m Player) renderQuitModal() string {
	return m.renderModal("Quit Story?",
		"Are you sure you want to quit?\n\n"+promptStyle.Render("Y/Enter: Yes • N/Esc: No"))
}
