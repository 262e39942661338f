// Package stats aggregates player scoring from the goal log.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/league-system/models"
)

type SortKey string

const (
	SortGoals   SortKey = "goals"
	SortAssists SortKey = "assists"
	SortGA      SortKey = "ga"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortGoals, nil
	case SortGoals, SortAssists, SortGA:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Line is one player's row in the scoring table.
type Line struct {
	PlayerID int    `json:"player_id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Number   *int   `json:"number,omitempty"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
}

func (l Line) GoalsPlusAssists() int {
	return l.Goals + l.Assists
}

// Aggregate returns a line for every player. Goals skip own goals; both
// counts skip events of technical-defeat matches and events whose match is
// unknown.
func Aggregate(goals []models.Goal, matches []models.Match, players []models.Player) []Line {
	byMatch := make(map[int]models.Match, len(matches))
	for _, m := range matches {
		byMatch[m.ID] = m
	}

	goalCount := make(map[int]int)
	assistCount := make(map[int]int)
	for _, g := range goals {
		m, ok := byMatch[g.MatchID]
		if !ok || m.IsTechnical {
			continue
		}
		if g.PlayerID != nil && !g.IsOwnGoal {
			goalCount[*g.PlayerID]++
		}
		if g.AssistPlayerID != nil {
			assistCount[*g.AssistPlayerID]++
		}
	}

	lines := make([]Line, 0, len(players))
	for _, p := range players {
		lines = append(lines, Line{
			PlayerID: p.ID,
			TeamID:   p.TeamID,
			Name:     p.Name,
			Number:   p.Number,
			Goals:    goalCount[p.ID],
			Assists:  assistCount[p.ID],
		})
	}
	return lines
}

// Rank sorts lines in place by key. Each key breaks ties on the other count
// (goals for ga) and then on name.
func Rank(lines []Line, key SortKey) {
	sort.SliceStable(lines, func(i, j int) bool {
		return less(lines[i], lines[j], key)
	})
}

func less(a, b Line, key SortKey) bool {
	var primA, primB, secA, secB int
	switch key {
	case SortAssists:
		primA, primB, secA, secB = a.Assists, b.Assists, a.Goals, b.Goals
	case SortGA:
		primA, primB, secA, secB = a.GoalsPlusAssists(), b.GoalsPlusAssists(), a.Goals, b.Goals
	default:
		primA, primB, secA, secB = a.Goals, b.Goals, a.Assists, b.Assists
	}
	if primA != primB {
		return primA > primB
	}
	if secA != secB {
		return secA > secB
	}
	return strings.Compare(a.Name, b.Name) < 0
}

// Filter narrows the scoring table to one team and/or a name search.
type Filter struct {
	TeamID int
	Search string
}

func (f Filter) Match(l Line) bool {
	if f.TeamID != 0 && l.TeamID != f.TeamID {
		return false
	}
	return MatchName(l.Name, f.Search)
}

func (f Filter) Apply(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// MatchName reports whether query occurs in name, case-insensitively. A
// query also matches with the spaces removed on both sides, so "ivanovalex"
// finds "Ivanov Alexander".
func MatchName(name, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	n := strings.ToLower(name)
	if strings.Contains(n, q) {
		return true
	}
	return strings.Contains(strings.Join(strings.Fields(n), ""), strings.Join(strings.Fields(q), ""))
}

// Table is the aggregate, filter and rank pipeline behind the players page.
func Table(snap *models.Snapshot, f Filter, key SortKey) []Line {
	lines := f.Apply(Aggregate(snap.Goals, snap.Matches, snap.Players))
	Rank(lines, key)
	return lines
}
