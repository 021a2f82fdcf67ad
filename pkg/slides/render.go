package slides

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/reveal"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	introStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	shareStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	exitingStyle = lipgloss.NewStyle().
			Faint(true)
)

// ShareHint is the footer line shown when a slide can be shared.
const ShareHint = "press s to copy share link"

// card is the Slide every story page is built from. Content lines are
// produced lazily so they can use the viewer's team lookup.
type card struct {
	id      string
	title   string
	shareID string
	delay   time.Duration
	intro   string
	stat    func(v View) string
	body    func(v View) []string
	footer  string
}

func (c *card) ID() string      { return c.id }
func (c *card) Title() string   { return c.title }
func (c *card) ShareID() string { return c.shareID }

func (c *card) Stages() []reveal.Stage {
	return reveal.SlideStages(c.delay)
}

func (c *card) Render(v View) string {
	width := v.Width
	if width <= 0 {
		width = 60
	}
	wrap := func(s string) string { return wordwrap.String(s, width) }

	lines := []string{titleStyle.Render(strings.ToUpper(c.title)), ""}

	switch v.Stage {
	case "", reveal.StageIntro:
		if v.Stage == reveal.StageIntro {
			lines = append(lines, introStyle.Render(wrap(c.intro)))
		}
	default:
		if c.stat != nil {
			if s := c.stat(v); s != "" {
				lines = append(lines, statStyle.Render(wrap(s)), "")
			}
		}
		if c.body != nil {
			for _, l := range c.body(v) {
				lines = append(lines, bodyStyle.Render(wrap(l)))
			}
		}
	}

	if v.Stage == reveal.StageFooter {
		if c.footer != "" {
			lines = append(lines, "", footerStyle.Render(wrap(c.footer)))
		}
		if c.shareID != "" && !v.Exiting {
			lines = append(lines, "", shareStyle.Render(ShareHint))
		}
	}

	out := strings.Join(lines, "\n")
	if v.Exiting {
		out = exitingStyle.Render(out)
	}
	return out
}

// Fallback renders the frame shown when a slide index cannot be resolved.
func Fallback(width int) string {
	msg := "This slide is not available."
	if width > 0 {
		msg = wordwrap.String(msg, width)
	}
	return shareStyle.Render(msg)
}

func teamLabel(v View, id string) string {
	return v.Teams.Label(id)
}

func percentOf(p float64) string {
	return bracket.FormatPercent(p)
}
