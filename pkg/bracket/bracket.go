package bracket

// Member is a bracket owner.
type Member struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	CustomDisplayName string `json:"customDisplayName,omitempty"`
	Description       string `json:"description,omitempty"`
	Logo              string `json:"logo,omitempty"`
}

// Name returns the custom display name when set.
func (m Member) Name() string {
	if m.CustomDisplayName != "" {
		return m.CustomDisplayName
	}
	return m.DisplayName
}

// Team is a tournament team.
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seed   int    `json:"seed"`
	Region string `json:"region"`
	Logo   string `json:"logo,omitempty"`
}

// GroupRef is the summary of a group a bracket belongs to.
type GroupRef struct {
	GroupID         string `json:"groupId"`
	Name            string `json:"name"`
	CreatorMemberID string `json:"creatorMemberId"`
	Public          bool   `json:"public"`
	Size            int    `json:"size"`
}

// Group is a bracket pool.
type Group struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Year    int       `json:"year"`
	Creator Member    `json:"creatorMember"`
	Public  bool      `json:"public"`
	Size    int       `json:"size"`
	Logo    string    `json:"logo,omitempty"`
	Entries []Summary `json:"brackets,omitempty"`
}

// Summary identifies a bracket inside a group listing.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Member   Member `json:"member"`
	WinnerID string `json:"winnerId,omitempty"`
}

// Bracket is a single entry together with the groups it belongs to.
type Bracket struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Year     int        `json:"year"`
	Member   Member     `json:"member"`
	WinnerID string     `json:"winnerId,omitempty"`
	Groups   []GroupRef `json:"groups,omitempty"`
}
