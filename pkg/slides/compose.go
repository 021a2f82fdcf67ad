package slides

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// Slide IDs, in story order.
const (
	IDChampion        = "champion"
	IDGroupTopPicks   = "group-top-picks"
	IDTwin            = "twin"
	IDGroupChalk      = "group-chalk"
	IDFinalFour       = "final-four"
	IDGroupFinalFour  = "group-final-four"
	IDNemesis         = "nemesis"
	IDGroupTwins      = "group-twins"
	IDChalk           = "chalk"
	IDGroupCinderella = "group-cinderella"
	IDCelebrityTwin   = "celebrity-twin"
	IDGroupNemeses    = "group-nemeses"
	IDCinderella      = "cinderella"
	IDWrapUp          = "wrap-up"
)

// TotalPicks is the number of games in a full bracket.
const TotalPicks = 63

var errNilData = errors.New("slides data is nil")

// Compose builds the story for data. A slide is included only when its
// section is present; the wrap-up slide is always last.
func Compose(data *bracket.SlidesData) (*Registry, error) {
	if data == nil {
		return nil, errNilData
	}
	b := data.Wrapped.Bracket
	g := data.Wrapped.Group
	if g == nil {
		g = &bracket.GroupSections{}
	}
	owner := data.Bracket.Member.Name()

	var out []Slide
	add := func(s Slide) { out = append(out, s) }

	if s := b.ChampionPickNational; s != nil {
		add(championSlide(s))
	}
	if s := g.TopPicks; s != nil {
		add(groupTopPicksSlide(s, data.Group))
	}
	if s := b.TwinBracket; s != nil {
		add(twinSlide(s))
	}
	if s := g.ChalkScores; s != nil {
		add(groupChalkSlide(s))
	}
	if s := b.FinalFourPicksNational; s != nil {
		add(finalFourSlide(s))
	}
	if s := g.FinalFourStats; s != nil {
		add(groupFinalFourSlide(s))
	}
	if s := b.NemesisBracket; s != nil {
		add(nemesisSlide(s))
	}
	if s := g.TwinBrackets; s != nil {
		add(groupTwinsSlide(s))
	}
	if s := b.ChalkScore; s != nil {
		add(chalkSlide(s))
	}
	if s := g.Cinderellas; s != nil {
		add(groupCinderellaSlide(s))
	}
	if s := b.CelebrityTwin; s != nil {
		add(celebrityTwinSlide(s))
	}
	if s := g.NemesisBrackets; s != nil {
		add(groupNemesesSlide(s))
	}
	if s := b.Cinderella; s != nil {
		add(cinderellaSlide(s))
	}
	add(wrapUpSlide(data.Bracket, owner))

	return NewRegistry(out...), nil
}

func championSlide(s *bracket.Section[bracket.ChampionPick]) Slide {
	d := s.Data
	return &card{
		id:      IDChampion,
		title:   "Your Champion",
		shareID: s.ShareID,
		intro:   "Every bracket starts with a champion...",
		stat: func(v View) string {
			return teamLabel(v, d.TeamID)
		},
		body: func(v View) []string {
			return []string{
				fmt.Sprintf("%s of brackets nationwide picked the same winner.", percentOf(d.Percentage)),
				fmt.Sprintf("That is %s brackets riding with you.", bracket.FormatCount(d.Brackets)),
			}
		},
		footer: "Bold call or safe bet? The tournament decides.",
	}
}

func groupTopPicksSlide(s *bracket.Section[bracket.TopPicks], group *bracket.Group) Slide {
	name := "your group"
	if group != nil && group.Name != "" {
		name = group.Name
	}
	picks := s.Data.Picks
	return &card{
		id:      IDGroupTopPicks,
		title:   "Most Popular Champions",
		shareID: s.ShareID,
		intro:   fmt.Sprintf("Who does %s believe in?", name),
		body: func(v View) []string {
			lines := make([]string, 0, len(picks))
			for i, p := range picks {
				lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, teamLabel(v, p.TeamID), percentOf(p.Percentage)))
			}
			return lines
		},
	}
}

func twinSlide(s *bracket.Section[bracket.Twin]) Slide {
	d := s.Data
	return &card{
		id:      IDTwin,
		title:   "Your Bracket Twin",
		shareID: s.ShareID,
		intro:   "Somewhere out there, someone thinks just like you...",
		stat: func(View) string {
			return fmt.Sprintf("%s: %s match", d.TwinMember.Name(), percentOf(d.WeightedSimilarityPercent))
		},
		body: func(v View) []string {
			lines := []string{
				fmt.Sprintf("%d of %d picks in common.", d.MatchingPicks, TotalPicks),
				fmt.Sprintf("Your champion: %s. Theirs: %s.", teamLabel(v, d.BracketWinnerID), teamLabel(v, d.TwinWinnerID)),
			}
			if d.FurthestSharedRound != "" {
				lines = append(lines, fmt.Sprintf("You agree all the way to the %s.", d.FurthestSharedRound))
			}
			return lines
		},
	}
}

func groupChalkSlide(s *bracket.Section[bracket.GroupChalk]) Slide {
	d := s.Data
	return &card{
		id:      IDGroupChalk,
		title:   "Group Chalk Scores",
		shareID: s.ShareID,
		intro:   "Some play it safe. Some chase upsets.",
		stat: func(View) string {
			return "Group average: " + percentOf(d.AverageChalk)
		},
		body: func(View) []string {
			return []string{
				fmt.Sprintf("Risk taker: %s (%s percentile, %d upsets)", d.HighestChalk.Member.Name(), bracket.Ordinal(int(d.HighestChalk.Percentile)), d.HighestChalk.UpsetsCount),
				fmt.Sprintf("Playing it safe: %s (%s percentile, %d upsets)", d.LowestChalk.Member.Name(), bracket.Ordinal(int(d.LowestChalk.Percentile)), d.LowestChalk.UpsetsCount),
			}
		},
	}
}

func finalFourSlide(s *bracket.Section[bracket.FinalFourPick]) Slide {
	d := s.Data
	return &card{
		id:      IDFinalFour,
		title:   "My Final Four Picks",
		shareID: s.ShareID,
		delay:   4000 * time.Millisecond,
		intro:   "Four teams. One weekend.",
		body: func(v View) []string {
			lines := make([]string, 0, len(d.TeamIDs)+1)
			for _, id := range d.TeamIDs {
				lines = append(lines, "  "+teamLabel(v, id))
			}
			return append(lines, "", fmt.Sprintf("Your final four is more unique than %s of brackets.", percentOf(d.Percentile)))
		},
	}
}

func groupFinalFourSlide(s *bracket.Section[bracket.GroupFinalFour]) Slide {
	teams := s.Data.Teams
	return &card{
		id:      IDGroupFinalFour,
		title:   "Group Final Four",
		shareID: s.ShareID,
		intro:   "Where your group expects to end up...",
		body: func(v View) []string {
			lines := make([]string, 0, len(teams))
			for _, t := range teams {
				lines = append(lines, fmt.Sprintf("%s  %s picks", teamLabel(v, t.TeamID), bracket.FormatCount(t.Count)))
			}
			return lines
		},
	}
}

func nemesisSlide(s *bracket.Section[bracket.Nemesis]) Slide {
	d := s.Data
	return &card{
		id:      IDNemesis,
		title:   "Your Bracket Nemesis",
		shareID: s.ShareID,
		intro:   "Some do their research...",
		stat: func(View) string {
			return d.NemesisMember.Name()
		},
		body: func(v View) []string {
			return []string{
				fmt.Sprintf("More opposed to you than %s of brackets.", percentOf(d.Percentile)),
				fmt.Sprintf("Your champion: %s. Theirs: %s.", teamLabel(v, d.BracketWinnerID), teamLabel(v, d.NemesisWinnerID)),
			}
		},
	}
}

func groupTwinsSlide(s *bracket.Section[[]bracket.Twin]) Slide {
	twins := s.Data
	return &card{
		id:      IDGroupTwins,
		title:   "Group Bracket Twins",
		shareID: s.ShareID,
		intro:   "Some brackets agree...",
		body: func(View) []string {
			lines := make([]string, 0, len(twins))
			for _, t := range twins {
				lines = append(lines, fmt.Sprintf("%s & %s  %s match, %d/%d picks", t.Member.Name(), t.TwinMember.Name(), percentOf(t.WeightedSimilarityPercent), t.MatchingPicks, TotalPicks))
			}
			return lines
		},
	}
}

func chalkSlide(s *bracket.Section[bracket.Chalk]) Slide {
	d := s.Data
	label := "PLAYING IT SAFE"
	if d.Percentile >= 50 {
		label = "RISK TAKER"
	}
	return &card{
		id:      IDChalk,
		title:   "Your Chalk Score",
		shareID: s.ShareID,
		intro:   "How much did you trust the seeds?",
		stat: func(View) string {
			return fmt.Sprintf("%s percentile  %s", bracket.Ordinal(int(d.Percentile)), label)
		},
		body: func(View) []string {
			lines := []string{fmt.Sprintf("You picked %d upsets.", d.UpsetsCount)}
			if d.BracketCount > 0 {
				lines = append(lines, fmt.Sprintf("Compared against %s brackets.", bracket.FormatCount(d.BracketCount)))
			}
			return lines
		},
	}
}

func groupCinderellaSlide(s *bracket.Section[[]bracket.Cinderella]) Slide {
	runs := s.Data
	return &card{
		id:      IDGroupCinderella,
		title:   "Group Cinderellas",
		shareID: s.ShareID,
		delay:   4000 * time.Millisecond,
		intro:   "Every group has a dreamer.",
		body: func(v View) []string {
			lines := make([]string, 0, len(runs))
			for _, c := range runs {
				who := c.Member.Name()
				if who == "" {
					who = c.BracketName
				}
				lines = append(lines, fmt.Sprintf("%s took %s to the %s", who, teamLabel(v, c.TeamID), c.Round))
			}
			return lines
		},
	}
}

func celebrityTwinSlide(s *bracket.Section[bracket.CelebrityTwin]) Slide {
	d := s.Data
	return &card{
		id:      IDCelebrityTwin,
		title:   "Your Celebrity Twin",
		shareID: s.ShareID,
		intro:   "You are in famous company...",
		stat: func(View) string {
			return fmt.Sprintf("%s: %s match", d.Member.Name(), percentOf(d.WeightedSimilarityPercent))
		},
		body: func(v View) []string {
			lines := []string{}
			if d.Member.Description != "" {
				lines = append(lines, d.Member.Description)
			}
			return append(lines, "Their champion: "+teamLabel(v, d.WinnerID))
		},
	}
}

func groupNemesesSlide(s *bracket.Section[[]bracket.Nemesis]) Slide {
	pairs := s.Data
	return &card{
		id:      IDGroupNemeses,
		title:   "Group Nemeses",
		shareID: s.ShareID,
		intro:   "...and some brackets never will.",
		body: func(View) []string {
			lines := make([]string, 0, len(pairs))
			for _, n := range pairs {
				lines = append(lines, fmt.Sprintf("%s vs %s", n.Member.Name(), n.NemesisMember.Name()))
			}
			return lines
		},
	}
}

func cinderellaSlide(s *bracket.Section[bracket.Cinderella]) Slide {
	d := s.Data
	return &card{
		id:      IDCinderella,
		title:   "Your Cinderella",
		shareID: s.ShareID,
		intro:   "The glass slipper...",
		stat: func(v View) string {
			return teamLabel(v, d.TeamID)
		},
		body: func(View) []string {
			lines := []string{fmt.Sprintf("You sent them to the %s.", d.Round)}
			if d.Brackets > 0 {
				lines = append(lines, fmt.Sprintf("Only %s brackets believed the same.", bracket.FormatCount(d.Brackets)))
			}
			return lines
		},
	}
}

func wrapUpSlide(b bracket.Bracket, owner string) Slide {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = "your bracket"
	}
	return &card{
		id:    IDWrapUp,
		title: "That's a Wrap",
		intro: "That's your Bracket Wrap",
		body: func(v View) []string {
			lines := []string{fmt.Sprintf("Thanks for reliving %s", name)}
			if owner != "" {
				lines[0] += ", " + owner
			}
			lines[0] += "."
			if b.WinnerID != "" {
				lines = append(lines, "Champion pick: "+teamLabel(v, b.WinnerID))
			}
			return lines
		},
		footer: "See you next March.",
	}
}
