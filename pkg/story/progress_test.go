package story

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Segments(t *testing.T) {
	p := NewProgress(5, 0)
	p.Reset(0, 0)

	tests := []struct {
		name string
		now  time.Duration
		want float64
	}{
		{"held during initial delay", 100 * time.Millisecond, 0},
		{"halfway", 100*time.Millisecond + 2*time.Second, 0.5},
		{"full", 100*time.Millisecond + 4*time.Second, 1},
		{"clamped", time.Minute, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.Fraction(tt.now), 1e-9)
		})
	}
}

func TestProgress_ResetUsesShortDelayAfterFirstSlide(t *testing.T) {
	p := NewProgress(5, 4*time.Second)
	p.Reset(0, 0)
	p.Reset(2, 10*time.Second)

	segs := p.Segments(10*time.Second + 50*time.Millisecond + time.Second)
	assert.Equal(t, []float64{1, 1, 0.25, 0, 0}, segs)
	assert.Equal(t, 2, p.Current())
}

func TestProgress_PrevEmptiesLaterSegments(t *testing.T) {
	p := NewProgress(3, time.Second)
	p.Reset(2, 0)
	p.Reset(1, 5*time.Second)

	segs := p.Segments(5 * time.Second)
	assert.Equal(t, []float64{1, 0, 0}, segs)
}
