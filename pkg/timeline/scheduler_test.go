package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AdvanceOrdersByDueTime(t *testing.T) {
	s := NewScheduler()
	s.Schedule(
		Request{Token: Token{Kind: TimerLoadGate, Seq: 1}, After: 4000 * time.Millisecond},
		Request{Token: Token{Kind: TimerExit, Seq: 2}, After: 500 * time.Millisecond},
		Request{Token: Token{Kind: TimerReveal, Seq: 3}, After: 500 * time.Millisecond},
	)

	fired := s.Advance(time.Second)
	require.Len(t, fired, 2)
	assert.Equal(t, TimerExit, fired[0].Token.Kind, "equal due times fire in scheduling order")
	assert.Equal(t, TimerReveal, fired[1].Token.Kind)
	assert.Equal(t, 500*time.Millisecond, fired[0].At)
	assert.Equal(t, time.Second, s.Now())
	assert.Equal(t, 1, s.Pending())

	fired = s.Advance(3 * time.Second)
	require.Len(t, fired, 1)
	assert.Equal(t, TimerLoadGate, fired[0].Token.Kind)
	assert.Equal(t, 4*time.Second, fired[0].At)
}

func TestScheduler_ScheduleIsRelativeToNow(t *testing.T) {
	s := NewScheduler()
	s.Advance(2 * time.Second)
	s.Schedule(Request{Token: Token{Kind: TimerExit}, After: 500 * time.Millisecond})

	assert.Empty(t, s.Advance(499*time.Millisecond))
	fired := s.Advance(time.Millisecond)
	require.Len(t, fired, 1)
	assert.Equal(t, 2500*time.Millisecond, fired[0].At)
}

func TestScheduler_NegativeDelayFiresImmediately(t *testing.T) {
	s := NewScheduler()
	s.Schedule(Request{Token: Token{Kind: TimerIntro}, After: -time.Second})

	fired := s.Advance(0)
	require.Len(t, fired, 1)
	assert.Equal(t, time.Duration(0), fired[0].At)
}

func TestScheduler_Next(t *testing.T) {
	s := NewScheduler()
	_, ok := s.Next()
	assert.False(t, ok)

	s.Schedule(
		Request{Token: Token{Kind: TimerReveal, Seq: 2}, After: 3 * time.Second},
		Request{Token: Token{Kind: TimerReveal, Seq: 1}, After: time.Second},
	)

	f, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), f.Token.Seq)
	assert.Equal(t, time.Second, s.Now())

	f, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(2), f.Token.Seq)
	assert.Equal(t, 3*time.Second, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestToken_String(t *testing.T) {
	tok := Token{Kind: TimerExit, Generation: 3, Seq: 7}
	assert.Equal(t, "exit/3/7", tok.String())
}

type chainOwner struct {
	outbox  []Request
	handled []Fired
	chain   int
}

func (o *chainOwner) HandleTimer(f Fired) bool {
	o.handled = append(o.handled, f)
	if o.chain > 0 {
		o.chain--
		o.outbox = append(o.outbox, Request{Token: Token{Kind: TimerReveal, Seq: f.Token.Seq + 1}, After: time.Second})
	}
	return true
}

func (o *chainOwner) Drain() []Request {
	out := o.outbox
	o.outbox = nil
	return out
}

func TestScheduler_RunResolvesChains(t *testing.T) {
	s := NewScheduler()
	o := &chainOwner{
		outbox: []Request{{Token: Token{Kind: TimerReveal, Seq: 1}, After: time.Second}},
		chain:  5,
	}

	s.Run(3500*time.Millisecond, o)

	require.Len(t, o.handled, 3)
	for i, f := range o.handled {
		assert.Equal(t, uint64(i+1), f.Token.Seq)
		assert.Equal(t, time.Duration(i+1)*time.Second, f.At)
	}
	assert.Equal(t, 3500*time.Millisecond, s.Now())
	assert.Equal(t, 1, s.Pending())
}
