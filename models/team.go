package models

type Team struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	SortOrder int    `json:"sort_order" db:"sort_order"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo,omitempty" db:"-"`
}

type Player struct {
	ID        int    `json:"id" db:"id"`
	TeamID    int    `json:"team_id" db:"team_id"`
	Name      string `json:"name" db:"name"`
	Number    *int   `json:"number,omitempty" db:"number"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// Goal is a single goal event. TeamID is the side the event was entered for,
// i.e. the scorer's own team; an own goal is credited to the opposite side.
type Goal struct {
	ID             int  `json:"id" db:"id"`
	MatchID        int  `json:"match_id" db:"match_id"`
	PlayerID       *int `json:"player_id" db:"player_id"`
	TeamID         int  `json:"team_id" db:"team_id"`
	Minute         *int `json:"minute,omitempty" db:"minute"`
	AssistPlayerID *int `json:"assist_player_id,omitempty" db:"assist_player_id"`
	IsOwnGoal      bool `json:"is_own_goal" db:"is_own_goal"`
}

// CreditedTeam returns the team whose score the goal counts towards.
func (g Goal) CreditedTeam(m Match) int {
	if g.IsOwnGoal {
		return m.Opponent(g.TeamID)
	}
	return g.TeamID
}
