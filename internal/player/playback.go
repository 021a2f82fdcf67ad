// Package player ties the story controller, the per-slide reveal, the intro
// sequence and the progress bar into one timeline owner. The Bubble Tea
// console and the headless script runner both drive a Playback.
package player

import (
	"errors"
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/navigation"
	"github.com/jwebster45206/bracket-wrap/pkg/reveal"
	"github.com/jwebster45206/bracket-wrap/pkg/slides"
	"github.com/jwebster45206/bracket-wrap/pkg/story"
	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
)

// Intro stage IDs.
const (
	IntroWelcome = "welcome"
	IntroReveal  = "reveal"
	IntroExiting = "exiting"
	IntroDone    = "done"
)

// IntroStages is the intro sequence played before the first slide.
func IntroStages() []reveal.Stage {
	return []reveal.Stage{
		{ID: IntroWelcome},
		{ID: IntroReveal, Delay: 2500 * time.Millisecond},
		{ID: IntroExiting, Delay: 3000 * time.Millisecond},
		{ID: IntroDone, Delay: 1200 * time.Millisecond},
	}
}

// Options configures a Playback. Zero values use the package defaults.
type Options struct {
	Start          int
	SkipIntro      bool
	ExitDuration   time.Duration
	LoadGate       time.Duration
	SwipeThreshold int
	Observers      []story.Observer

	// Clock reports the time the progress bar is measured against. It
	// defaults to wall time since New.
	Clock func() time.Duration
}

// Playback is a timeline.Owner. It is not safe for concurrent use.
type Playback struct {
	registry *slides.Registry
	teams    bracket.TeamIndex
	ctrl     *story.Controller
	nav      *navigation.Adapter
	slide    *reveal.Sequencer
	intro    *reveal.Sequencer
	progress *story.Progress
	clock    func() time.Duration

	introDone bool
	lastGen   uint64
	closed    bool
}

// New builds a Playback over reg. Unless opts.SkipIntro is set, or a resume
// position other than the first slide is given, the intro plays first and
// the story's timers are held back until it finishes.
func New(reg *slides.Registry, teams bracket.TeamIndex, opts Options) (*Playback, error) {
	ctrlOpts := []story.Option{story.WithStart(opts.Start)}
	if opts.ExitDuration > 0 {
		ctrlOpts = append(ctrlOpts, story.WithExitDuration(opts.ExitDuration))
	}
	if opts.LoadGate > 0 {
		ctrlOpts = append(ctrlOpts, story.WithLoadGate(opts.LoadGate))
	}
	for _, o := range opts.Observers {
		ctrlOpts = append(ctrlOpts, story.WithObserver(o))
	}

	ctrl, err := story.New(reg.Len(), ctrlOpts...)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		origin := time.Now()
		clock = func() time.Duration { return time.Since(origin) }
	}

	p := &Playback{
		registry: reg,
		teams:    teams,
		ctrl:     ctrl,
		nav:      navigation.NewAdapter(ctrl, opts.SwipeThreshold),
		slide:    reveal.New(),
		intro:    reveal.NewKind(timeline.TimerIntro, IntroStages()...),
		progress: story.NewProgress(reg.Len(), opts.LoadGate),
		clock:    clock,
	}

	if opts.SkipIntro || opts.Start > 0 {
		p.SkipIntro()
	} else {
		p.intro.Start()
	}
	return p, nil
}

// HandleTimer routes a fired timer to the intro, the controller or the
// current slide's reveal. It reports whether anything changed.
func (p *Playback) HandleTimer(f timeline.Fired) bool {
	if p.closed {
		return false
	}
	if f.Token.Kind == timeline.TimerIntro {
		if !p.intro.HandleTimer(f) {
			return false
		}
		if p.intro.Done() {
			p.startStory()
		}
		return true
	}
	if !p.introDone {
		return false
	}
	changed := p.ctrl.HandleTimer(f) || p.slide.HandleTimer(f)
	p.sync()
	return changed
}

// Drain returns the timers queued since the previous call. Story timers stay
// queued while the intro is playing.
func (p *Playback) Drain() []timeline.Request {
	out := p.intro.Drain()
	if p.introDone {
		out = append(out, p.ctrl.Drain()...)
		out = append(out, p.slide.Drain()...)
	}
	return out
}

// SkipIntro ends the intro and shows the story straight away.
func (p *Playback) SkipIntro() {
	if p.introDone {
		return
	}
	p.intro.Finish()
	p.startStory()
}

// InIntro reports whether the intro is still playing.
func (p *Playback) InIntro() bool {
	return !p.introDone
}

// IntroStage returns the intro's current stage.
func (p *Playback) IntroStage() string {
	return p.intro.Current()
}

// State returns the story state.
func (p *Playback) State() story.State {
	return p.ctrl.State()
}

// Stage returns the current slide's reveal stage.
func (p *Playback) Stage() string {
	return p.slide.Current()
}

// Slide returns the slide being shown.
func (p *Playback) Slide() (slides.Slide, error) {
	return p.registry.At(p.ctrl.State().Current)
}

// Registry returns the slides being played.
func (p *Playback) Registry() *slides.Registry {
	return p.registry
}

// Key handles a navigation key. During the intro any key skips it.
func (p *Playback) Key(k navigation.Key) navigation.Result {
	if p.skipping() {
		return navigation.ResultNone
	}
	defer p.sync()
	return p.nav.Key(k)
}

// PointerDown records the start of a press.
func (p *Playback) PointerDown(x int) {
	if p.closed {
		return
	}
	p.nav.PointerDown(x)
}

// PointerUp completes a press. A short press is treated as a click on
// target at x across a screen width wide.
func (p *Playback) PointerUp(x, width int, target *navigation.Element) navigation.Result {
	if p.closed {
		return navigation.ResultNone
	}
	if !p.introDone {
		p.nav.CancelPointer()
		p.SkipIntro()
		return navigation.ResultNone
	}
	defer p.sync()
	if res := p.nav.PointerUp(x); res != navigation.ResultNone {
		return res
	}
	return p.nav.Click(x, width, target)
}

// GoTo jumps to slide i.
func (p *Playback) GoTo(i int) error {
	if p.closed {
		return story.ErrUnmounted
	}
	p.SkipIntro()
	defer p.sync()
	return p.ctrl.GoTo(i)
}

// Segments returns the progress bar fill at the playback clock.
func (p *Playback) Segments() []float64 {
	if !p.introDone {
		return make([]float64, p.registry.Len())
	}
	return p.progress.Segments(p.clock())
}

// Render draws the current slide. A missing slide renders the fallback
// frame instead of failing.
func (p *Playback) Render(width, height int) string {
	s, err := p.Slide()
	if errors.Is(err, slides.ErrNoSlide) {
		return slides.Fallback(width)
	}
	return s.Render(slides.View{
		Width:   width,
		Height:  height,
		Stage:   p.slide.Current(),
		Exiting: p.ctrl.State().IsExiting(),
		Teams:   p.teams,
	})
}

// Close cancels every outstanding timer. Fired events arriving afterwards
// are ignored.
func (p *Playback) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.ctrl.Unmount()
	p.slide.Stop()
	p.intro.Stop()
}

// Closed reports whether Close has been called.
func (p *Playback) Closed() bool {
	return p.closed
}

func (p *Playback) skipping() bool {
	if p.closed {
		return true
	}
	if !p.introDone {
		p.SkipIntro()
		return true
	}
	return false
}

func (p *Playback) startStory() {
	p.introDone = true
	p.sync()
}

// sync restarts the reveal and the progress segment whenever the controller
// begins a new slide.
func (p *Playback) sync() {
	st := p.ctrl.State()
	if st.Generation == p.lastGen {
		return
	}
	p.lastGen = st.Generation
	var stages []reveal.Stage
	if s, err := p.registry.At(st.Current); err == nil {
		stages = s.Stages()
	}
	p.slide.Restart(stages...)
	p.progress.Reset(st.Current, p.clock())
}
