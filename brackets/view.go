package brackets

import "github.com/Dosada05/league-system/models"

// SlotView is one cell of the bracket as the public page renders it. For a
// slot that has no stored match yet, Home and Away are the projected
// participants and Projected is set.
type SlotView struct {
	Slot      models.Slot `json:"slot"`
	MatchID   int         `json:"match_id,omitempty"`
	HomeID    int         `json:"home_id"`
	AwayID    int         `json:"away_id"`
	HomeName  string      `json:"home_name"`
	AwayName  string      `json:"away_name"`
	HomeGoals *int        `json:"home_goals,omitempty"`
	AwayGoals *int        `json:"away_goals,omitempty"`
	Played    bool        `json:"played"`
	Technical bool        `json:"is_technical"`
	WinnerID  int         `json:"winner_id,omitempty"`
	Projected bool        `json:"projected"`
}

type StageView struct {
	Stage   models.MatchType `json:"stage"`
	Created bool             `json:"created"`
	Slots   []SlotView       `json:"slots"`
}

// BracketView is the full knockout picture. Locked is set while no group
// matches exist; the page then shows only the group progress.
type BracketView struct {
	Locked       bool        `json:"locked"`
	GroupPlayed  int         `json:"group_played"`
	GroupTotal   int         `json:"group_total"`
	GroupDone    bool        `json:"group_done"`
	Stages       []StageView `json:"stages"`
	ChampionID   int         `json:"champion_id,omitempty"`
	ChampionName string      `json:"champion_name"`
	Next         *Readiness  `json:"next,omitempty"`
}

func (r *Resolver) Bracket() BracketView {
	played, total := r.GroupProgress()
	view := BracketView{
		Locked:       total == 0,
		GroupPlayed:  played,
		GroupTotal:   total,
		GroupDone:    r.GroupDone(),
		Stages:       make([]StageView, 0, len(models.KnockoutStages)),
		ChampionName: r.snap.TeamName(0),
	}

	for _, stage := range models.KnockoutStages {
		sv := StageView{Stage: stage, Created: r.StageExists(stage)}
		for _, rec := range stageTable[stage] {
			sv.Slots = append(sv.Slots, r.slotView(rec.slot))
		}
		view.Stages = append(view.Stages, sv)
	}

	if id, ok := r.Champion(); ok {
		view.ChampionID = id
		view.ChampionName = r.snap.TeamName(id)
	}
	if next, ok := r.NextStage(); ok {
		view.Next = &next
	}
	return view
}

func (r *Resolver) slotView(slot models.Slot) SlotView {
	home, away := r.Participants(slot)
	sv := SlotView{
		Slot:     slot,
		HomeID:   home,
		AwayID:   away,
		HomeName: r.snap.TeamName(home),
		AwayName: r.snap.TeamName(away),
	}
	m, ok := r.Match(slot)
	if !ok {
		sv.Projected = true
		return sv
	}
	sv.MatchID = m.ID
	sv.Played = m.Played
	sv.Technical = m.IsTechnical
	if m.HasScore() {
		sv.HomeGoals = m.HomeGoals
		sv.AwayGoals = m.AwayGoals
	}
	if w, ok := m.Winner(); ok {
		sv.WinnerID = w
	}
	return sv
}
