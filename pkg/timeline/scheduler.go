package timeline

import (
	"container/heap"
	"time"
)

// Scheduler is a virtual clock. Time only moves when Advance is called, so
// timing behavior can be exercised without waiting on the wall clock.
type Scheduler struct {
	now     time.Duration
	seq     uint64
	pending timerHeap
}

// NewScheduler returns a scheduler positioned at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers that have not fired yet.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Schedule registers requests relative to the current virtual time.
func (s *Scheduler) Schedule(reqs ...Request) {
	for _, r := range reqs {
		after := r.After
		if after < 0 {
			after = 0
		}
		s.seq++
		heap.Push(&s.pending, &entry{due: s.now + after, order: s.seq, token: r.Token})
	}
}

// Advance moves the clock forward by d and returns every timer that came due,
// ordered by due time and, for equal due times, by scheduling order.
func (s *Scheduler) Advance(d time.Duration) []Fired {
	target := s.now + d
	var fired []Fired
	for len(s.pending) > 0 && s.pending[0].due <= target {
		e := heap.Pop(&s.pending).(*entry)
		s.now = e.due
		fired = append(fired, Fired{Token: e.token, At: e.due})
	}
	s.now = target
	return fired
}

// Next pops the earliest pending timer, moving the clock to its due time.
// ok is false when nothing is pending.
func (s *Scheduler) Next() (f Fired, ok bool) {
	if len(s.pending) == 0 {
		return Fired{}, false
	}
	e := heap.Pop(&s.pending).(*entry)
	if e.due > s.now {
		s.now = e.due
	}
	return Fired{Token: e.token, At: e.due}, true
}

// Owner is anything that emits timer requests and consumes the fired events.
type Owner interface {
	HandleTimer(f Fired) bool
	Drain() []Request
}

// Run advances the clock by d, delivering each due timer to every owner in
// turn. Requests emitted while handling a timer are scheduled before the next
// one is delivered, so chains of timers resolve within a single call.
func (s *Scheduler) Run(d time.Duration, owners ...Owner) {
	target := s.now + d
	s.collect(owners)
	for len(s.pending) > 0 && s.pending[0].due <= target {
		e := heap.Pop(&s.pending).(*entry)
		s.now = e.due
		f := Fired{Token: e.token, At: e.due}
		for _, o := range owners {
			o.HandleTimer(f)
		}
		s.collect(owners)
	}
	s.now = target
}

func (s *Scheduler) collect(owners []Owner) {
	for _, o := range owners {
		s.Schedule(o.Drain()...)
	}
}

type entry struct {
	due   time.Duration
	order uint64
	token Token
}

type timerHeap []*entry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].order < h[j].order
	}
	return h[i].due < h[j].due
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
