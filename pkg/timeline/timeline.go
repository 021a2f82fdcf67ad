// Package timeline models delayed work as data. Components emit Requests,
// a host schedules them (a Bubble Tea tick or the virtual Scheduler), and the
// resulting Fired events are fed back to the component that asked for them.
package timeline

import (
	"fmt"
	"time"
)

// Kind identifies what a timer is for.
type Kind string

const (
	// TimerExit ends the exit-animation window and commits the next slide.
	TimerExit Kind = "exit"
	// TimerLoadGate marks the current slide as fully loaded.
	TimerLoadGate Kind = "load_gate"
	// TimerReveal advances a slide's staged reveal.
	TimerReveal Kind = "reveal"
	// TimerIntro advances the intro sequence.
	TimerIntro Kind = "intro"
)

// Token identifies one scheduled timer. Generation ties the timer to the
// owner state it was scheduled for; owners drop tokens from older generations.
type Token struct {
	Kind       Kind   `json:"kind"`
	Generation uint64 `json:"generation"`
	Seq        uint64 `json:"seq"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s/%d/%d", t.Kind, t.Generation, t.Seq)
}

// Request asks the host to deliver Token after the given delay.
type Request struct {
	Token Token
	After time.Duration
}

// Fired is delivered to the owner once a Request's delay has elapsed.
type Fired struct {
	Token Token
	At    time.Duration
}
