package stats

import "github.com/Dosada05/league-system/models"

// Overview holds the counters shown above the league table.
type Overview struct {
	Teams     int `json:"teams"`
	Played    int `json:"played"`
	Goals     int `json:"goals"`
	Remaining int `json:"remaining"`
}

// BuildOverview counts group-stage activity only. Goals are the recorded
// goal events of played group matches, not the score totals.
func BuildOverview(snap *models.Snapshot) Overview {
	ov := Overview{Teams: len(snap.Teams)}
	playedGroup := make(map[int]bool)
	total := 0
	for _, m := range snap.Matches {
		if m.Type != models.MatchTypeGroup {
			continue
		}
		total++
		if m.Played {
			ov.Played++
			playedGroup[m.ID] = true
		}
	}
	for _, g := range snap.Goals {
		if playedGroup[g.MatchID] {
			ov.Goals++
		}
	}
	ov.Remaining = max(total-ov.Played, 0)
	return ov
}
