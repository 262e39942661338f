package stats

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

const HallOfFameSize = 10

type FameEntry struct {
	PlayerID int    `json:"player_id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

type HallOfFame struct {
	Scorers    []FameEntry `json:"scorers"`
	Assistants []FameEntry `json:"assistants"`
}

// BuildHallOfFame ranks all-time scorers and assistants. Own goals are not
// counted, technical-defeat matches are. Events of players missing from the
// roster are dropped. Ties keep player id order.
func BuildHallOfFame(goals []models.Goal, players []models.Player, limit int) HallOfFame {
	if limit <= 0 {
		limit = HallOfFameSize
	}
	roster := make(map[int]models.Player, len(players))
	for _, p := range players {
		roster[p.ID] = p
	}

	scored := make(map[int]int)
	assisted := make(map[int]int)
	for _, g := range goals {
		if g.PlayerID != nil && !g.IsOwnGoal {
			scored[*g.PlayerID]++
		}
		if g.AssistPlayerID != nil {
			assisted[*g.AssistPlayerID]++
		}
	}
	return HallOfFame{
		Scorers:    topN(scored, roster, limit),
		Assistants: topN(assisted, roster, limit),
	}
}

func topN(counts map[int]int, roster map[int]models.Player, limit int) []FameEntry {
	out := make([]FameEntry, 0, len(counts))
	for id, n := range counts {
		p, ok := roster[id]
		if !ok {
			continue
		}
		out = append(out, FameEntry{PlayerID: id, TeamID: p.TeamID, Name: p.Name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
