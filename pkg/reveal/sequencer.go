// Package reveal provides the staged-reveal sequencer slides use to show an
// intro, then their content, then a footer, each after its own delay.
package reveal

import (
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
)

// Stage names one step of a reveal. Delay is measured from the previous stage.
type Stage struct {
	ID    string
	Delay time.Duration
}

// Sequencer walks a fixed list of stages. Before the first stage fires the
// sequencer is at the empty stage "".
type Sequencer struct {
	kind    timeline.Kind
	stages  []Stage
	pos     int // index of the last reached stage, -1 before the first
	gen     uint64
	seq     uint64
	waiting timeline.Token
	outbox  []timeline.Request
}

// New creates a sequencer whose timers carry timeline.TimerReveal.
func New(stages ...Stage) *Sequencer {
	return NewKind(timeline.TimerReveal, stages...)
}

// NewKind creates a sequencer whose timers carry the given kind.
func NewKind(kind timeline.Kind, stages ...Stage) *Sequencer {
	return &Sequencer{kind: kind, stages: stages, pos: -1}
}

// Start rewinds to the empty stage and schedules the first stage. Timers
// from an earlier Start are ignored from here on.
func (s *Sequencer) Start() {
	s.gen++
	s.pos = -1
	s.outbox = nil
	s.scheduleNext()
}

// Restart swaps in a new stage list and starts it. The generation keeps
// counting, so timers from the previous list are still ignored.
func (s *Sequencer) Restart(stages ...Stage) {
	s.stages = stages
	s.Start()
}

// Stop cancels the remaining stages without rewinding.
func (s *Sequencer) Stop() {
	s.gen++
	s.waiting = timeline.Token{}
	s.outbox = nil
}

// Finish jumps to the last stage and cancels pending timers.
func (s *Sequencer) Finish() {
	s.Stop()
	s.pos = len(s.stages) - 1
}

// HandleTimer advances one stage when f is the timer this sequencer is
// waiting on. It reports whether the stage changed.
func (s *Sequencer) HandleTimer(f timeline.Fired) bool {
	if f.Token.Kind != s.kind || f.Token.Generation != s.gen || f.Token != s.waiting {
		return false
	}
	s.waiting = timeline.Token{}
	s.pos++
	s.scheduleNext()
	return true
}

// Drain returns the timer requests queued since the previous call.
func (s *Sequencer) Drain() []timeline.Request {
	out := s.outbox
	s.outbox = nil
	return out
}

// Current returns the ID of the last reached stage, or "" before the first.
func (s *Sequencer) Current() string {
	if s.pos < 0 {
		return ""
	}
	return s.stages[s.pos].ID
}

// Reached reports whether stage id has been reached.
func (s *Sequencer) Reached(id string) bool {
	for i := 0; i <= s.pos && i < len(s.stages); i++ {
		if s.stages[i].ID == id {
			return true
		}
	}
	return false
}

// Done reports whether the final stage has been reached.
func (s *Sequencer) Done() bool {
	return s.pos == len(s.stages)-1
}

func (s *Sequencer) scheduleNext() {
	next := s.pos + 1
	if next >= len(s.stages) {
		return
	}
	s.seq++
	s.waiting = timeline.Token{Kind: s.kind, Generation: s.gen, Seq: s.seq}
	s.outbox = append(s.outbox, timeline.Request{Token: s.waiting, After: s.stages[next].Delay})
}
