package story

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSlides is returned when a story is created without any slides.
	ErrNoSlides = errors.New("story has no slides")
	// ErrSlideOutOfRange is returned by GoTo for an index outside [0, total).
	ErrSlideOutOfRange = errors.New("slide index out of range")
	// ErrUnmounted is returned when a controller is used after Unmount.
	ErrUnmounted = errors.New("story is unmounted")
)

// Phase is the controller's position in the exit-transition state machine.
type Phase int

const (
	// PhaseIdle shows the current slide with navigation enabled.
	PhaseIdle Phase = iota
	// PhaseExiting plays the exit animation before the next slide is committed.
	PhaseExiting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExiting:
		return "exiting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the story. It is a value; mutating it has no effect
// on the controller it came from.
type State struct {
	Current    int
	Total      int
	Phase      Phase
	Loaded     bool   // current slide finished its load window
	Generation uint64 // bumps every time a slide starts
}

// IsExiting reports whether the exit animation is playing.
func (s State) IsExiting() bool {
	return s.Phase == PhaseExiting
}

// IsFirst reports whether the current slide is the first one.
func (s State) IsFirst() bool {
	return s.Current == 0
}

// IsLast reports whether the current slide is the last one.
func (s State) IsLast() bool {
	return s.Current == s.Total-1
}

func (s State) String() string {
	return fmt.Sprintf("slide %d/%d %s loaded=%t", s.Current+1, s.Total, s.Phase, s.Loaded)
}

func rangeError(index, total int) error {
	return fmt.Errorf("goto %d of %d: %w", index, total, ErrSlideOutOfRange)
}
