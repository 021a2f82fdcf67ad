package bracket

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TeamIndex looks teams up by ID.
type TeamIndex map[string]Team

// IndexTeams builds a TeamIndex. Later duplicates win.
func IndexTeams(teams []Team) TeamIndex {
	idx := make(TeamIndex, len(teams))
	for _, t := range teams {
		idx[t.ID] = t
	}
	return idx
}

var titleCaser = cases.Title(language.English)

// Label returns "(seed) Name" for a known team, or the raw ID when the team
// is unknown.
func (idx TeamIndex) Label(id string) string {
	t, ok := idx[id]
	if !ok {
		if id == "" {
			return "TBD"
		}
		return id
	}
	name := t.Name
	if strings.ToUpper(name) == name || strings.ToLower(name) == name {
		name = titleCaser.String(name)
	}
	if t.Seed > 0 {
		return fmt.Sprintf("(%d) %s", t.Seed, name)
	}
	return name
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders p with one decimal place, dropping a trailing ".0".
func FormatPercent(p float64) string {
	s := printer.Sprintf("%.1f", p)
	return strings.TrimSuffix(s, ".0") + "%"
}

// Ordinal renders n as 1st, 2nd, 3rd, 4th...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
