package bracket

// SlidesData is the payload a story is built from.
type SlidesData struct {
	Bracket Bracket `json:"bracket"`
	Group   *Group  `json:"group,omitempty"`
	Wrapped Wrapped `json:"wrapped"`
}

// Wrapped holds one section per slide. A nil section means the slide is
// left out of the story.
type Wrapped struct {
	Bracket BracketSections `json:"bracket"`
	Group   *GroupSections  `json:"group,omitempty"`
}

// Section pairs slide data with the ID used to build its share link.
type Section[T any] struct {
	ShareID string `json:"shareId"`
	Data    T      `json:"data"`
}

// BracketSections are the per-bracket slides.
type BracketSections struct {
	ChampionPickNational   *Section[ChampionPick]  `json:"championPickNational,omitempty"`
	ChampionPickGroup      *Section[ChampionPick]  `json:"championPickGroup,omitempty"`
	TwinBracket            *Section[Twin]          `json:"twinBracket,omitempty"`
	FinalFourPicksNational *Section[FinalFourPick] `json:"finalFourPicksNational,omitempty"`
	FinalFourPicksGroup    *Section[FinalFourPick] `json:"finalFourPicksGroup,omitempty"`
	NemesisBracket         *Section[Nemesis]       `json:"nemesisBracket,omitempty"`
	ChalkScore             *Section[Chalk]         `json:"chalkScore,omitempty"`
	CelebrityTwin          *Section[CelebrityTwin] `json:"celebrityTwin,omitempty"`
	Cinderella             *Section[Cinderella]    `json:"cinderella,omitempty"`
}

// GroupSections are the slides shown when the story is viewed for a group.
type GroupSections struct {
	TopPicks        *Section[TopPicks]       `json:"topPicks,omitempty"`
	ChalkScores     *Section[GroupChalk]     `json:"chalkScores,omitempty"`
	FinalFourStats  *Section[GroupFinalFour] `json:"finalFourStats,omitempty"`
	TwinBrackets    *Section[[]Twin]         `json:"twinBrackets,omitempty"`
	Cinderellas     *Section[[]Cinderella]   `json:"cinderellas,omitempty"`
	NemesisBrackets *Section[[]Nemesis]      `json:"nemesisBrackets,omitempty"`
}

// ChampionPick is the share of brackets that picked the same champion.
type ChampionPick struct {
	TeamID     string  `json:"teamId"`
	Percentage float64 `json:"percentage"`
	Brackets   int     `json:"brackets"`
}

// Twin is the bracket with the most similar picks.
type Twin struct {
	BracketName               string   `json:"bracketName"`
	Member                    Member   `json:"member"`
	TwinBracketName           string   `json:"twinBracketName"`
	TwinMember                Member   `json:"twinMember"`
	BracketWinnerID           string   `json:"bracketWinnerId"`
	TwinWinnerID              string   `json:"twinWinnerId"`
	WeightedSimilarityPercent float64  `json:"weightedSimilarityPercentage"`
	MatchingPicks             int      `json:"matchingPicks"`
	DifferentPicks            int      `json:"differentPicks"`
	FurthestSharedRound       string   `json:"furthestSharedRound,omitempty"`
	FurthestSharedTeamIDs     []string `json:"furthestSharedTeamIds,omitempty"`
}

// FinalFourPick is how common a bracket's final four is.
type FinalFourPick struct {
	TeamIDs    []string `json:"teamIds"`
	Percentile float64  `json:"percentile"`
	Matching   int      `json:"matching"`
}

// Nemesis is the bracket with the most opposed picks.
type Nemesis struct {
	BracketName        string  `json:"bracketName"`
	Member             Member  `json:"member"`
	NemesisBracketName string  `json:"nemesisBracketName"`
	NemesisMember      Member  `json:"nemesisMember"`
	BracketWinnerID    string  `json:"bracketWinnerId"`
	NemesisWinnerID    string  `json:"nemesisWinnerId"`
	Percentile         float64 `json:"percentile"`
}

// Chalk measures how closely a bracket follows seeding. A high percentile
// means a risky bracket.
type Chalk struct {
	Percentile   float64 `json:"percentile"`
	UpsetsCount  int     `json:"upsetsCount"`
	BracketCount int     `json:"bracketCount"`
}

// CelebrityTwin is the celebrity bracket closest to this one.
type CelebrityTwin struct {
	Member                    Member  `json:"member"`
	BracketName               string  `json:"bracketName"`
	WinnerID                  string  `json:"winnerId"`
	WeightedSimilarityPercent float64 `json:"weightedSimilarityPercentage"`
}

// Cinderella is the deepest run picked for a double-digit seed.
type Cinderella struct {
	BracketName string `json:"bracketName,omitempty"`
	Member      Member `json:"member,omitempty"`
	TeamID      string `json:"teamId"`
	Round       string `json:"round"`
	Brackets    int    `json:"brackets"`
}

// TopPick is one of a group's most popular champions.
type TopPick struct {
	TeamID     string  `json:"teamId"`
	Percentage float64 `json:"percentage"`
}

// TopPicks lists a group's most popular champions.
type TopPicks struct {
	Picks []TopPick `json:"picks"`
}

// ChalkEntry is one bracket's chalk score within a group.
type ChalkEntry struct {
	Bracket     string  `json:"bracket"`
	Member      Member  `json:"member"`
	Percentile  float64 `json:"percentile"`
	UpsetsCount int     `json:"upsetsCount"`
}

// GroupChalk summarizes chalk scores across a group.
type GroupChalk struct {
	HighestChalk ChalkEntry `json:"highestChalk"`
	LowestChalk  ChalkEntry `json:"lowestChalk"`
	AverageChalk float64    `json:"averageChalk"`
}

// FinalFourCount is how many group brackets picked a team for the final four.
type FinalFourCount struct {
	TeamID string `json:"teamId"`
	Count  int    `json:"count"`
}

// GroupFinalFour lists the group's most picked final four teams.
type GroupFinalFour struct {
	Teams []FinalFourCount `json:"teams"`
}
