package story

import "time"

const (
	// DefaultFillDuration is how long the current segment takes to fill.
	DefaultFillDuration = DefaultLoadGate
	// InitialFillDelay holds the first segment empty briefly after mount.
	InitialFillDelay = 100 * time.Millisecond
	// ResetFillDelay holds each later segment empty after a slide change.
	ResetFillDelay = 50 * time.Millisecond
)

// Progress computes the fill of the "stories" progress segments. It is
// presentation only and never moves the story forward.
type Progress struct {
	fill    time.Duration
	total   int
	current int
	started time.Duration
	delay   time.Duration
	init    bool
}

// NewProgress returns a progress tracker for total segments. A non-positive
// fill uses DefaultFillDuration.
func NewProgress(total int, fill time.Duration) *Progress {
	if fill <= 0 {
		fill = DefaultFillDuration
	}
	return &Progress{fill: fill, total: total}
}

// Reset restarts the current segment at now. The first call uses
// InitialFillDelay; later calls use ResetFillDelay.
func (p *Progress) Reset(current int, now time.Duration) {
	p.delay = ResetFillDelay
	if !p.init {
		p.delay = InitialFillDelay
		p.init = true
	}
	p.current = current
	p.started = now
}

// Current returns the segment that is filling.
func (p *Progress) Current() int {
	return p.current
}

// Fraction returns the fill of the current segment at now, in [0, 1].
func (p *Progress) Fraction(now time.Duration) float64 {
	elapsed := now - p.started - p.delay
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= p.fill {
		return 1
	}
	return float64(elapsed) / float64(p.fill)
}

// Segments returns the fill of every segment at now: earlier slides are full,
// later slides are empty.
func (p *Progress) Segments(now time.Duration) []float64 {
	out := make([]float64, p.total)
	for i := range out {
		switch {
		case i < p.current:
			out[i] = 1
		case i == p.current:
			out[i] = p.Fraction(now)
		}
	}
	return out
}
