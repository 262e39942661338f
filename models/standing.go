package models

// Outcome is a single entry of a team's form sequence.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
	// OutcomeNone pads form sequences shorter than the display window.
	OutcomeNone Outcome = ""
)

// FormWindow is how many recent results the form badge shows.
const FormWindow = 5

// StandingRow is one line of the league table. It is derived from the match
// log and never stored, except as part of an admin-uploaded custom table,
// which uses the same JSON shape.
type StandingRow struct {
	TeamID       int       `json:"id,omitempty"`
	Name         string    `json:"name"`
	Played       int       `json:"p"`
	Won          int       `json:"w"`
	Drawn        int       `json:"d"`
	Lost         int       `json:"l"`
	GoalsFor     int       `json:"gs"`
	GoalsAgainst int       `json:"gc"`
	GoalDiff     int       `json:"gd"`
	Points       int       `json:"pts"`
	Form         []Outcome `json:"form,omitempty"`
}

// RecentForm returns the last n outcomes, oldest first, left-padded with
// OutcomeNone when the team has played fewer than n matches.
func (r StandingRow) RecentForm(n int) []Outcome {
	if n <= 0 {
		return nil
	}
	out := make([]Outcome, n)
	start := len(r.Form) - n
	for i := 0; i < n; i++ {
		if idx := start + i; idx >= 0 {
			out[i] = r.Form[idx]
		} else {
			out[i] = OutcomeNone
		}
	}
	return out
}
