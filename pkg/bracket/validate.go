// Package bracket defines the bracket, group and team payloads a story is
// built from, plus validation and the small formatting helpers the slides use.
package bracket

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid slides data")

// ShareBaseURL is the prefix of every share link.
const ShareBaseURL = "https://bracketwrap.com/share/"

// ShareURL returns the share link for a slide's share ID, or "" when the
// slide has none.
func ShareURL(shareID string) string {
	if shareID == "" {
		return ""
	}
	return ShareBaseURL + shareID
}

// Validate checks the payload for missing IDs, percentiles outside [0, 100]
// and team references missing from teams. A nil teams index skips the team
// checks. All problems are reported together.
func (d *SlidesData) Validate(teams TeamIndex) error {
	v := &validator{teams: teams}

	if strings.TrimSpace(d.Bracket.ID) == "" {
		v.fail("bracket.id is required")
	}
	if d.Wrapped.Group != nil && d.Group == nil {
		v.fail("wrapped.group requires group")
	}

	b := d.Wrapped.Bracket
	if s := b.ChampionPickNational; s != nil {
		v.percent("wrapped.bracket.championPickNational.percentage", s.Data.Percentage)
		v.team("wrapped.bracket.championPickNational.teamId", s.Data.TeamID)
	}
	if s := b.ChampionPickGroup; s != nil {
		v.percent("wrapped.bracket.championPickGroup.percentage", s.Data.Percentage)
		v.team("wrapped.bracket.championPickGroup.teamId", s.Data.TeamID)
	}
	if s := b.TwinBracket; s != nil {
		v.percent("wrapped.bracket.twinBracket.weightedSimilarityPercentage", s.Data.WeightedSimilarityPercent)
		v.optionalTeam("wrapped.bracket.twinBracket.twinWinnerId", s.Data.TwinWinnerID)
	}
	if s := b.FinalFourPicksNational; s != nil {
		v.percent("wrapped.bracket.finalFourPicksNational.percentile", s.Data.Percentile)
		for i, id := range s.Data.TeamIDs {
			v.team(fmt.Sprintf("wrapped.bracket.finalFourPicksNational.teamIds[%d]", i), id)
		}
	}
	if s := b.NemesisBracket; s != nil {
		v.percent("wrapped.bracket.nemesisBracket.percentile", s.Data.Percentile)
		v.optionalTeam("wrapped.bracket.nemesisBracket.nemesisWinnerId", s.Data.NemesisWinnerID)
	}
	if s := b.ChalkScore; s != nil {
		v.percent("wrapped.bracket.chalkScore.percentile", s.Data.Percentile)
		if s.Data.UpsetsCount < 0 {
			v.fail("wrapped.bracket.chalkScore.upsetsCount must not be negative")
		}
	}
	if s := b.CelebrityTwin; s != nil {
		v.percent("wrapped.bracket.celebrityTwin.weightedSimilarityPercentage", s.Data.WeightedSimilarityPercent)
	}
	if s := b.Cinderella; s != nil {
		v.team("wrapped.bracket.cinderella.teamId", s.Data.TeamID)
	}

	if g := d.Wrapped.Group; g != nil {
		if s := g.TopPicks; s != nil {
			for i, p := range s.Data.Picks {
				v.percent(fmt.Sprintf("wrapped.group.topPicks.picks[%d].percentage", i), p.Percentage)
				v.team(fmt.Sprintf("wrapped.group.topPicks.picks[%d].teamId", i), p.TeamID)
			}
		}
		if s := g.ChalkScores; s != nil {
			v.percent("wrapped.group.chalkScores.highestChalk.percentile", s.Data.HighestChalk.Percentile)
			v.percent("wrapped.group.chalkScores.lowestChalk.percentile", s.Data.LowestChalk.Percentile)
			v.percent("wrapped.group.chalkScores.averageChalk", s.Data.AverageChalk)
		}
		if s := g.FinalFourStats; s != nil {
			for i, t := range s.Data.Teams {
				v.team(fmt.Sprintf("wrapped.group.finalFourStats.teams[%d].teamId", i), t.TeamID)
			}
		}
		if s := g.Cinderellas; s != nil {
			for i, c := range s.Data {
				v.team(fmt.Sprintf("wrapped.group.cinderellas[%d].teamId", i), c.TeamID)
			}
		}
	}

	return v.err()
}

type validator struct {
	teams    TeamIndex
	problems []string
}

func (v *validator) fail(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) percent(field string, p float64) {
	if p < 0 || p > 100 {
		v.fail("%s must be between 0 and 100, got %g", field, p)
	}
}

func (v *validator) team(field, id string) {
	if id == "" {
		v.fail("%s is required", field)
		return
	}
	v.optionalTeam(field, id)
}

func (v *validator) optionalTeam(field, id string) {
	if id == "" || v.teams == nil {
		return
	}
	if _, ok := v.teams[id]; !ok {
		v.fail("%s references unknown team %q", field, id)
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(v.problems, "\n  "))
}
