// Package navigation turns keyboard, swipe and click input into story
// navigation.
package navigation

import (
	"github.com/jwebster45206/bracket-wrap/pkg/story"
)

// DefaultSwipeThreshold is the minimum horizontal travel, in pointer units,
// for a press/release pair to count as a swipe.
const DefaultSwipeThreshold = 50

// Navigator is the part of the story controller the adapter drives.
type Navigator interface {
	State() story.State
	Next() bool
	Prev() bool
	TriggerNext() bool
}

// Key is a navigation key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
)

// Result describes what an input did.
type Result int

const (
	// ResultNone means the input was not a navigation gesture.
	ResultNone Result = iota
	// ResultPrev means Prev was invoked.
	ResultPrev
	// ResultNext means Next was invoked (immediate advance).
	ResultNext
	// ResultExit means TriggerNext was invoked (animated advance).
	ResultExit
	// ResultIgnored means the click landed on an interactive element.
	ResultIgnored
)

func (r Result) String() string {
	switch r {
	case ResultPrev:
		return "prev"
	case ResultNext:
		return "next"
	case ResultExit:
		return "exit"
	case ResultIgnored:
		return "ignored"
	default:
		return "none"
	}
}

// Adapter maps input events onto a Navigator.
type Adapter struct {
	nav       Navigator
	threshold int
	start     int
	pressed   bool
}

// NewAdapter returns an adapter driving nav. A non-positive threshold uses
// DefaultSwipeThreshold.
func NewAdapter(nav Navigator, threshold int) *Adapter {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &Adapter{nav: nav, threshold: threshold}
}

// Advance moves forward. Once the current slide has finished loading, and it
// is not the last slide, the move plays the exit animation; otherwise it cuts
// straight to the next slide.
func (a *Adapter) Advance() Result {
	st := a.nav.State()
	if st.Loaded && !st.IsLast() {
		a.nav.TriggerNext()
		return ResultExit
	}
	a.nav.Next()
	return ResultNext
}

// Key handles a key press.
func (a *Adapter) Key(k Key) Result {
	switch k {
	case KeyRight:
		return a.Advance()
	case KeyLeft:
		a.nav.Prev()
		return ResultPrev
	default:
		return ResultNone
	}
}

// PointerDown records where a press or touch started.
func (a *Adapter) PointerDown(x int) {
	a.start = x
	a.pressed = true
}

// PointerUp completes a swipe. Travel beyond the threshold to the right goes
// back, to the left goes forward. Shorter travel, or a release without a
// recorded press, returns ResultNone.
func (a *Adapter) PointerUp(x int) Result {
	if !a.pressed {
		return ResultNone
	}
	a.pressed = false
	delta := x - a.start
	if abs(delta) <= a.threshold {
		return ResultNone
	}
	if delta > 0 {
		a.nav.Prev()
		return ResultPrev
	}
	return a.Advance()
}

// CancelPointer forgets a recorded press.
func (a *Adapter) CancelPointer() {
	a.pressed = false
}

// Click handles a click at x on a screen width wide. Clicks on interactive
// elements are ignored; otherwise the left half goes back and the right half
// goes forward.
func (a *Adapter) Click(x, width int, target *Element) Result {
	if IsInteractive(target) {
		return ResultIgnored
	}
	if 2*x < width {
		a.nav.Prev()
		return ResultPrev
	}
	return a.Advance()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
