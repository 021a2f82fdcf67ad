// Package story implements the story playback controller: which slide is
// showing, the exit transition before an animated advance, and the load gate
// that decides whether an advance is animated at all.
//
// The controller never sleeps or starts goroutines. Every delay is emitted as
// a timeline.Request and only takes effect when the matching timeline.Fired
// event is handed back through HandleTimer.
package story

import (
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
)

const (
	// DefaultExitDuration is how long the exit animation plays before the
	// next slide is committed.
	DefaultExitDuration = 500 * time.Millisecond
	// DefaultLoadGate is how long a slide must be on screen before an advance
	// plays the exit animation. It matches the progress bar fill duration.
	DefaultLoadGate = 4000 * time.Millisecond
)

// Observer is called after every state change with the previous and new state.
type Observer func(prev, next State)

// Option configures a Controller.
type Option func(*Controller)

// WithExitDuration overrides DefaultExitDuration.
func WithExitDuration(d time.Duration) Option {
	return func(c *Controller) { c.exitDuration = d }
}

// WithLoadGate overrides DefaultLoadGate.
func WithLoadGate(d time.Duration) Option {
	return func(c *Controller) { c.loadGate = d }
}

// WithObserver registers a change callback.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// WithStart begins the story at index i instead of 0. Out-of-range values
// are clamped.
func WithStart(i int) Option {
	return func(c *Controller) { c.start = i }
}

// Controller owns the story state. It is not safe for concurrent use; the
// host is expected to drive it from a single event loop.
type Controller struct {
	state        State
	exitDuration time.Duration
	loadGate     time.Duration
	observers    []Observer
	start        int
	seq          uint64
	outbox       []timeline.Request
	exitToken    timeline.Token
	unmounted    bool
}

// New creates a controller for a story of total slides and starts the first
// slide, which queues its load-gate timer.
func New(total int, opts ...Option) (*Controller, error) {
	if total <= 0 {
		return nil, ErrNoSlides
	}
	c := &Controller{
		exitDuration: DefaultExitDuration,
		loadGate:     DefaultLoadGate,
	}
	for _, opt := range opts {
		opt(c)
	}
	start := min(max(c.start, 0), total-1)
	c.state = State{Current: start, Total: total, Phase: PhaseIdle}
	c.beginSlide()
	return c, nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state
}

// Next moves to the following slide immediately. It reports whether the
// index changed; on the last slide it does nothing.
func (c *Controller) Next() bool {
	if c.unmounted || c.state.IsLast() {
		return false
	}
	c.moveTo(c.state.Current + 1)
	return true
}

// Prev moves to the preceding slide immediately. It reports whether the
// index changed; on the first slide it does nothing.
func (c *Controller) Prev() bool {
	if c.unmounted || c.state.IsFirst() {
		return false
	}
	c.moveTo(c.state.Current - 1)
	return true
}

// GoTo jumps to slide i. An index outside [0, total) leaves the state
// untouched and returns an error wrapping ErrSlideOutOfRange. Jumping to the
// current slide succeeds without restarting it.
func (c *Controller) GoTo(i int) error {
	if c.unmounted {
		return ErrUnmounted
	}
	if i < 0 || i >= c.state.Total {
		return rangeError(i, c.state.Total)
	}
	if i == c.state.Current && c.state.Phase == PhaseIdle {
		return nil
	}
	c.moveTo(i)
	return nil
}

// TriggerNext starts the exit animation; the next slide is committed when
// the exit timer fires. It is ignored on the last slide and while an exit is
// already playing, so repeated input cannot skip a slide.
func (c *Controller) TriggerNext() bool {
	if c.unmounted || c.state.IsLast() || c.state.Phase == PhaseExiting {
		return false
	}
	prev := c.state
	c.state.Phase = PhaseExiting
	c.exitToken = c.schedule(timeline.TimerExit, c.exitDuration)
	c.notify(prev)
	return true
}

// HandleTimer applies a fired timer. It reports whether the state changed.
// Timers scheduled for an earlier slide, or before Unmount, are dropped.
func (c *Controller) HandleTimer(f timeline.Fired) bool {
	if c.unmounted || f.Token.Generation != c.state.Generation {
		return false
	}
	switch f.Token.Kind {
	case timeline.TimerExit:
		if c.state.Phase != PhaseExiting || f.Token != c.exitToken {
			return false
		}
		c.moveTo(c.state.Current + 1)
		return true
	case timeline.TimerLoadGate:
		if c.state.Loaded {
			return false
		}
		prev := c.state
		c.state.Loaded = true
		c.notify(prev)
		return true
	default:
		return false
	}
}

// Drain returns the timer requests queued since the previous call.
func (c *Controller) Drain() []timeline.Request {
	out := c.outbox
	c.outbox = nil
	return out
}

// Unmount invalidates every outstanding timer and stops the controller from
// accepting further input.
func (c *Controller) Unmount() {
	if c.unmounted {
		return
	}
	c.unmounted = true
	c.state.Generation++
	c.outbox = nil
}

// Unmounted reports whether Unmount has been called.
func (c *Controller) Unmounted() bool {
	return c.unmounted
}

func (c *Controller) moveTo(i int) {
	prev := c.state
	c.state.Current = i
	c.beginSlide()
	c.notify(prev)
}

// beginSlide resets per-slide state. Bumping the generation cancels the
// previous slide's load gate and any pending exit.
func (c *Controller) beginSlide() {
	c.state.Generation++
	c.state.Phase = PhaseIdle
	c.state.Loaded = false
	c.exitToken = timeline.Token{}
	c.schedule(timeline.TimerLoadGate, c.loadGate)
}

func (c *Controller) schedule(kind timeline.Kind, after time.Duration) timeline.Token {
	c.seq++
	tok := timeline.Token{Kind: kind, Generation: c.state.Generation, Seq: c.seq}
	c.outbox = append(c.outbox, timeline.Request{Token: tok, After: after})
	return tok
}

func (c *Controller) notify(prev State) {
	for _, o := range c.observers {
		o(prev, c.state)
	}
}
