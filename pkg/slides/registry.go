// Package slides builds the ordered list of story slides from a bracket
// payload and renders each one as terminal text.
package slides

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/reveal"
)

// ErrNoSlide is returned when a slide index is outside the registry.
var ErrNoSlide = errors.New("no slide at index")

// View is what a slide needs to render one frame.
type View struct {
	Width   int
	Height  int
	Stage   string // current reveal stage, "" before the intro
	Exiting bool
	Teams   bracket.TeamIndex
}

// Slide is one page of the story.
type Slide interface {
	ID() string
	Title() string
	Stages() []reveal.Stage
	Render(v View) string
	ShareID() string
}

// Registry is the fixed, ordered slide list for one story.
type Registry struct {
	slides []Slide
}

// NewRegistry returns a registry over slides. The slice is copied.
func NewRegistry(slides ...Slide) *Registry {
	return &Registry{slides: append([]Slide(nil), slides...)}
}

// Len returns the number of slides.
func (r *Registry) Len() int {
	return len(r.slides)
}

// At returns slide i.
func (r *Registry) At(i int) (Slide, error) {
	if i < 0 || i >= len(r.slides) {
		return nil, fmt.Errorf("slide %d of %d: %w", i, len(r.slides), ErrNoSlide)
	}
	return r.slides[i], nil
}

// IDs returns the slide IDs in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.slides))
	for i, s := range r.slides {
		ids[i] = s.ID()
	}
	return ids
}

// Index returns the position of the slide with the given ID, or -1.
func (r *Registry) Index(id string) int {
	for i, s := range r.slides {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
