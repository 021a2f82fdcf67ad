package reveal

import "time"

// Stage IDs shared by the slides.
const (
	StageIntro   = "intro"
	StageContent = "content"
	StageFooter  = "footer"
)

// DefaultContentDelay is how long a slide shows its intro text before the
// content replaces it.
const DefaultContentDelay = 3500 * time.Millisecond

// DefaultFooterDelay is how long after the content the footer appears.
const DefaultFooterDelay = 2000 * time.Millisecond

// SlideStages returns the intro, content, footer stages with the given
// content delay. A non-positive delay uses DefaultContentDelay.
func SlideStages(contentDelay time.Duration) []Stage {
	if contentDelay <= 0 {
		contentDelay = DefaultContentDelay
	}
	return []Stage{
		{ID: StageIntro},
		{ID: StageContent, Delay: contentDelay},
		{ID: StageFooter, Delay: DefaultFooterDelay},
	}
}
