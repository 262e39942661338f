package models

import "sort"

// Snapshot is an immutable view of the league read model. Engine functions
// take a Snapshot and never modify it; the hosting layer fetches a fresh one
// after every mutation or change notification.
type Snapshot struct {
	Teams       []Team        `json:"teams"`
	Matches     []Match       `json:"matches"`
	Players     []Player      `json:"players"`
	Goals       []Goal        `json:"goals"`
	CustomTable []StandingRow `json:"custom_table,omitempty"`
	Seed        *int          `json:"seed,omitempty"`
}

// Normalize orders every collection by its stable default (sort_order, then
// id) and returns the receiver for chaining.
func (s *Snapshot) Normalize() *Snapshot {
	sort.SliceStable(s.Teams, func(i, j int) bool {
		if s.Teams[i].SortOrder != s.Teams[j].SortOrder {
			return s.Teams[i].SortOrder < s.Teams[j].SortOrder
		}
		return s.Teams[i].ID < s.Teams[j].ID
	})
	sort.SliceStable(s.Matches, func(i, j int) bool { return s.Matches[i].ID < s.Matches[j].ID })
	sort.SliceStable(s.Players, func(i, j int) bool {
		if s.Players[i].SortOrder != s.Players[j].SortOrder {
			return s.Players[i].SortOrder < s.Players[j].SortOrder
		}
		return s.Players[i].ID < s.Players[j].ID
	})
	sort.SliceStable(s.Goals, func(i, j int) bool { return s.Goals[i].ID < s.Goals[j].ID })
	return s
}

func (s *Snapshot) TeamIDs() []int {
	ids := make([]int, 0, len(s.Teams))
	for _, t := range s.Teams {
		ids = append(ids, t.ID)
	}
	return ids
}

func (s *Snapshot) Team(id int) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

func (s *Snapshot) Match(id int) (Match, bool) {
	for _, m := range s.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}

// MatchBySlot finds the knockout match occupying slot.
func (s *Snapshot) MatchBySlot(slot Slot) (Match, bool) {
	for _, m := range s.Matches {
		if m.Slot != nil && *m.Slot == slot {
			return m, true
		}
	}
	return Match{}, false
}

func (s *Snapshot) MatchesOfType(t MatchType) []Match {
	out := make([]Match, 0)
	for _, m := range s.Matches {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (s *Snapshot) GoalsForMatch(matchID int) []Goal {
	out := make([]Goal, 0)
	for _, g := range s.Goals {
		if g.MatchID == matchID {
			out = append(out, g)
		}
	}
	return out
}

// TeamName returns the display name for id, "TBD" for an unresolved
// participant and "???" for an id missing from the team list.
func (s *Snapshot) TeamName(id int) string {
	if id == 0 {
		return "TBD"
	}
	if t, ok := s.Team(id); ok {
		return t.Name
	}
	return "???"
}
