// Package standings derives the league table from the match log.
package standings

import (
	"sort"
	"strings"

	"github.com/Dosada05/league-system/models"
)

// Compute builds one row per team from the played group matches.
//
// Matches are applied in (round, id) order with a missing round counted as 0,
// which fixes the oldest-to-newest order of each team's form. A match that
// references a team missing from teams is skipped.
func Compute(teams []models.Team, matches []models.Match) []models.StandingRow {
	rows := make(map[int]*models.StandingRow, len(teams))
	for _, t := range teams {
		rows[t.ID] = &models.StandingRow{TeamID: t.ID, Name: t.Name, Form: []models.Outcome{}}
	}

	played := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Type == models.MatchTypeGroup && m.HasScore() {
			played = append(played, m)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		if ri, rj := played[i].RoundOrZero(), played[j].RoundOrZero(); ri != rj {
			return ri < rj
		}
		return played[i].ID < played[j].ID
	})

	for _, m := range played {
		home, okHome := rows[m.HomeID]
		away, okAway := rows[m.AwayID]
		if !okHome || !okAway {
			continue
		}
		apply(home, away, *m.HomeGoals, *m.AwayGoals)
	}

	out := make([]models.StandingRow, 0, len(teams))
	for _, t := range teams {
		out = append(out, *rows[t.ID])
	}
	Sort(out)
	return out
}

func apply(home, away *models.StandingRow, hg, ag int) {
	home.Played++
	away.Played++
	home.GoalsFor += hg
	home.GoalsAgainst += ag
	away.GoalsFor += ag
	away.GoalsAgainst += hg
	home.GoalDiff = home.GoalsFor - home.GoalsAgainst
	away.GoalDiff = away.GoalsFor - away.GoalsAgainst

	switch {
	case hg > ag:
		home.Won++
		home.Points += 3
		away.Lost++
		home.Form = append(home.Form, models.OutcomeWin)
		away.Form = append(away.Form, models.OutcomeLoss)
	case hg < ag:
		away.Won++
		away.Points += 3
		home.Lost++
		home.Form = append(home.Form, models.OutcomeLoss)
		away.Form = append(away.Form, models.OutcomeWin)
	default:
		home.Drawn++
		away.Drawn++
		home.Points++
		away.Points++
		home.Form = append(home.Form, models.OutcomeDraw)
		away.Form = append(away.Form, models.OutcomeDraw)
	}
}

// Less reports whether a ranks above b: points, goal difference and goals
// scored descending, then name ascending.
func Less(a, b models.StandingRow) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDiff != b.GoalDiff {
		return a.GoalDiff > b.GoalDiff
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return strings.Compare(a.Name, b.Name) < 0
}

func Sort(rows []models.StandingRow) {
	sort.SliceStable(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
}

// Position returns the 1-based table position of teamID, or 0 if absent.
func Position(rows []models.StandingRow, teamID int) int {
	for i, r := range rows {
		if r.TeamID == teamID {
			return i + 1
		}
	}
	return 0
}

// At returns the row at 1-based position pos.
func At(rows []models.StandingRow, pos int) (models.StandingRow, bool) {
	if pos < 1 || pos > len(rows) {
		return models.StandingRow{}, false
	}
	return rows[pos-1], true
}
