package story

import (
	"errors"
	"testing"
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, total int, opts ...Option) (*Controller, *timeline.Scheduler) {
	t.Helper()
	c, err := New(total, opts...)
	require.NoError(t, err)
	return c, timeline.NewScheduler()
}

func TestNew_RejectsEmptyStory(t *testing.T) {
	for _, total := range []int{0, -1} {
		_, err := New(total)
		assert.ErrorIs(t, err, ErrNoSlides)
	}
}

func TestNew_InitialState(t *testing.T) {
	c, _ := newTestController(t, 9)
	st := c.State()
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, 9, st.Total)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.False(t, st.Loaded)

	reqs := c.Drain()
	require.Len(t, reqs, 1)
	assert.Equal(t, timeline.TimerLoadGate, reqs[0].Token.Kind)
	assert.Equal(t, DefaultLoadGate, reqs[0].After)
	assert.Empty(t, c.Drain(), "drain clears the outbox")
}

func TestNew_WithStartClamps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"in range", 4, 4},
		{"negative", -3, 0},
		{"past end", 20, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, 9, WithStart(tt.start))
			assert.Equal(t, tt.want, c.State().Current)
		})
	}
}

func TestNext_AdvancesByOne(t *testing.T) {
	const total = 9
	for i := 0; i < total-1; i++ {
		c, _ := newTestController(t, total, WithStart(i))
		assert.True(t, c.Next())
		assert.Equal(t, i+1, c.State().Current)
	}
}

func TestNext_NoOpOnLastSlide(t *testing.T) {
	c, _ := newTestController(t, 9, WithStart(8))
	before := c.State()
	c.Drain()

	for i := 0; i < 3; i++ {
		assert.False(t, c.Next())
	}
	assert.Equal(t, before, c.State())
	assert.Empty(t, c.Drain(), "no timers for a no-op")
}

func TestPrev(t *testing.T) {
	c, _ := newTestController(t, 9)
	assert.False(t, c.Prev(), "prev on first slide is a no-op")
	assert.Equal(t, 0, c.State().Current)

	require.NoError(t, c.GoTo(5))
	assert.True(t, c.Prev())
	assert.Equal(t, 4, c.State().Current)
}

func TestGoTo(t *testing.T) {
	const total = 9
	for i := 0; i < total; i++ {
		c, _ := newTestController(t, total)
		require.NoError(t, c.GoTo(i))
		assert.Equal(t, i, c.State().Current)
	}

	for _, j := range []int{-1, total, total + 5, -100} {
		c, _ := newTestController(t, total, WithStart(3))
		before := c.State()
		err := c.GoTo(j)
		assert.True(t, errors.Is(err, ErrSlideOutOfRange), "index %d", j)
		assert.Equal(t, before, c.State())
	}
}

func TestGoTo_CurrentSlideDoesNotRestart(t *testing.T) {
	c, s := newTestController(t, 9, WithStart(2))
	s.Run(DefaultLoadGate, c)
	require.True(t, c.State().Loaded)

	require.NoError(t, c.GoTo(2))
	assert.True(t, c.State().Loaded)
	assert.Empty(t, c.Drain())
}

func TestTriggerNext_ExitThenCommit(t *testing.T) {
	c, s := newTestController(t, 9)
	s.Run(DefaultLoadGate, c)

	require.True(t, c.TriggerNext())
	st := c.State()
	assert.True(t, st.IsExiting())
	assert.Equal(t, 0, st.Current)

	s.Run(DefaultExitDuration-time.Millisecond, c)
	assert.True(t, c.State().IsExiting(), "still exiting before the window closes")

	s.Run(time.Millisecond, c)
	st = c.State()
	assert.False(t, st.IsExiting())
	assert.Equal(t, 1, st.Current)
	assert.False(t, st.Loaded, "new slide starts unloaded")
}

func TestTriggerNext_IgnoredWhileExiting(t *testing.T) {
	c, s := newTestController(t, 9)
	s.Run(DefaultLoadGate, c)

	require.True(t, c.TriggerNext())
	assert.False(t, c.TriggerNext())
	assert.False(t, c.TriggerNext())

	s.Run(time.Second, c)
	assert.Equal(t, 1, c.State().Current, "repeated triggers advance exactly once")
}

func TestTriggerNext_NoOpOnLastSlide(t *testing.T) {
	c, s := newTestController(t, 3, WithStart(2))
	s.Run(DefaultLoadGate, c)

	assert.False(t, c.TriggerNext())
	assert.False(t, c.State().IsExiting())
}

func TestNext_CancelsPendingExit(t *testing.T) {
	c, s := newTestController(t, 9)
	s.Run(DefaultLoadGate, c)

	require.True(t, c.TriggerNext())
	require.True(t, c.Next())
	assert.Equal(t, 1, c.State().Current)
	assert.False(t, c.State().IsExiting())

	s.Run(time.Second, c)
	assert.Equal(t, 1, c.State().Current, "stale exit timer must not advance again")
}

func TestLoadGate(t *testing.T) {
	c, s := newTestController(t, 9)

	s.Run(DefaultLoadGate-time.Millisecond, c)
	assert.False(t, c.State().Loaded)

	s.Run(time.Millisecond, c)
	assert.True(t, c.State().Loaded)

	c.Next()
	assert.False(t, c.State().Loaded, "loaded flag resets on slide change")
}

func TestLoadGate_StaleAfterNavigation(t *testing.T) {
	c, s := newTestController(t, 9)
	s.Run(2*time.Second, c)
	c.Next()

	// The first slide's gate fires at 4s; the second slide's at 6s.
	s.Run(2*time.Second, c)
	assert.False(t, c.State().Loaded)

	s.Run(2*time.Second, c)
	assert.True(t, c.State().Loaded)
}

func TestUnmount_DropsTimers(t *testing.T) {
	c, s := newTestController(t, 9)
	s.Run(DefaultLoadGate, c)
	require.True(t, c.TriggerNext())
	reqs := c.Drain()
	require.Len(t, reqs, 1)

	c.Unmount()
	s.Schedule(reqs...)
	for _, f := range s.Advance(time.Second) {
		assert.False(t, c.HandleTimer(f))
	}

	assert.Equal(t, 0, c.State().Current)
	assert.True(t, c.Unmounted())
	assert.False(t, c.Next())
	assert.False(t, c.Prev())
	assert.False(t, c.TriggerNext())
	assert.ErrorIs(t, c.GoTo(1), ErrUnmounted)
}

func TestHandleTimer_IgnoresForeignKinds(t *testing.T) {
	c, _ := newTestController(t, 9)
	gen := c.State().Generation
	assert.False(t, c.HandleTimer(timeline.Fired{Token: timeline.Token{Kind: timeline.TimerReveal, Generation: gen}}))
	assert.False(t, c.HandleTimer(timeline.Fired{Token: timeline.Token{Kind: timeline.TimerExit, Generation: gen}}),
		"exit without a pending transition is ignored")
}

func TestObserver(t *testing.T) {
	var changes [][2]State
	c, s := newTestController(t, 9, WithObserver(func(prev, next State) {
		changes = append(changes, [2]State{prev, next})
	}))

	s.Run(DefaultLoadGate, c)
	c.TriggerNext()
	s.Run(DefaultExitDuration, c)

	require.Len(t, changes, 3)
	assert.True(t, changes[0][1].Loaded)
	assert.True(t, changes[1][1].IsExiting())
	assert.Equal(t, 0, changes[2][0].Current)
	assert.Equal(t, 1, changes[2][1].Current)
}

func TestCustomDurations(t *testing.T) {
	c, s := newTestController(t, 4,
		WithLoadGate(time.Second),
		WithExitDuration(200*time.Millisecond),
	)
	s.Run(time.Second, c)
	require.True(t, c.State().Loaded)

	c.TriggerNext()
	s.Run(200*time.Millisecond, c)
	assert.Equal(t, 1, c.State().Current)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "exiting", PhaseExiting.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}
