package brackets

import (
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/standings"
)

// QualificationMinTeams is the table size the qualification round needs:
// places 7 to 10 play it.
const QualificationMinTeams = 10

type sourceKind int

const (
	fromTable sourceKind = iota
	fromWinner
)

// source says where one side of a knockout match comes from: a table
// position or the winner of an earlier slot.
type source struct {
	kind     sourceKind
	position int
	slot     models.Slot
}

func tablePos(pos int) source { return source{kind: fromTable, position: pos} }
func winnerOf(slot models.Slot) source { return source{kind: fromWinner, slot: slot} }
func slotOf(t models.MatchType, p int) models.Slot { return models.NewSlot(t, p) }

func (s source) String() string {
	if s.kind == fromTable {
		return fmt.Sprintf("table #%d", s.position)
	}
	return "winner of " + s.slot.String()
}

type slotRecipe struct {
	slot       models.Slot
	home, away source
}

// stageTable is the whole bracket. Every knockout stage is listed with the
// recipe of each of its slots.
var stageTable = map[models.MatchType][]slotRecipe{
	models.MatchTypeQual: {
		{slotOf(models.MatchTypeQual, 1), tablePos(7), tablePos(10)},
		{slotOf(models.MatchTypeQual, 2), tablePos(8), tablePos(9)},
	},
	models.MatchTypeQF: {
		{slotOf(models.MatchTypeQF, 1), tablePos(1), winnerOf(slotOf(models.MatchTypeQual, 2))},
		{slotOf(models.MatchTypeQF, 2), tablePos(4), tablePos(5)},
		{slotOf(models.MatchTypeQF, 3), tablePos(2), winnerOf(slotOf(models.MatchTypeQual, 1))},
		{slotOf(models.MatchTypeQF, 4), tablePos(3), tablePos(6)},
	},
	models.MatchTypeSF: {
		{slotOf(models.MatchTypeSF, 1), winnerOf(slotOf(models.MatchTypeQF, 1)), winnerOf(slotOf(models.MatchTypeQF, 2))},
		{slotOf(models.MatchTypeSF, 2), winnerOf(slotOf(models.MatchTypeQF, 3)), winnerOf(slotOf(models.MatchTypeQF, 4))},
	},
	models.MatchTypeFinal: {
		{slotOf(models.MatchTypeFinal, 1), winnerOf(slotOf(models.MatchTypeSF, 1)), winnerOf(slotOf(models.MatchTypeSF, 2))},
	},
}

var finalSlot = slotOf(models.MatchTypeFinal, 1)

// Readiness tells whether a stage can be created right now. A stage that is
// not ready is a no-op, never an error.
type Readiness struct {
	Stage  models.MatchType `json:"stage"`
	Ready  bool             `json:"ready"`
	Exists bool             `json:"exists"`
	Reason string           `json:"reason,omitempty"`
}

// StagePlan is the outcome of a stage-creation request: the rows to insert
// when the stage is ready, nothing otherwise.
type StagePlan struct {
	Readiness
	Insert *models.InsertMatches `json:"insert,omitempty"`
}

// Resolver derives knockout participants from a snapshot. It always seeds
// from computed standings, never from a custom table.
type Resolver struct {
	snap  *models.Snapshot
	table []models.StandingRow
}

func NewResolver(snap *models.Snapshot) *Resolver {
	return &Resolver{
		snap:  snap,
		table: standings.Compute(snap.Teams, snap.Matches),
	}
}

// Table returns the computed standings the resolver seeds from.
func (r *Resolver) Table() []models.StandingRow {
	return r.table
}

// GroupProgress returns played and total group-stage match counts.
func (r *Resolver) GroupProgress() (played, total int) {
	for _, m := range r.snap.Matches {
		if m.Type != models.MatchTypeGroup {
			continue
		}
		total++
		if m.Played {
			played++
		}
	}
	return played, total
}

func (r *Resolver) GroupDone() bool {
	played, total := r.GroupProgress()
	return total > 0 && played == total
}

// tableSettled reports whether table positions may seed knockout slots.
// The group stage gates qualification only: once it exists, later group
// matches added by hand do not hold up the quarter-finals, which seed from
// the current table.
func (r *Resolver) tableSettled() bool {
	return r.GroupDone() || r.StageExists(models.MatchTypeQual)
}

// Match returns the stored match occupying slot.
func (r *Resolver) Match(slot models.Slot) (models.Match, bool) {
	return r.snap.MatchBySlot(slot)
}

// Winner returns the winner of the match in slot. Missing, unplayed and
// drawn matches have no winner.
func (r *Resolver) Winner(slot models.Slot) (int, bool) {
	m, ok := r.Match(slot)
	if !ok {
		return 0, false
	}
	return m.Winner()
}

func (r *Resolver) resolve(src source) (int, bool) {
	switch src.kind {
	case fromTable:
		if !r.tableSettled() {
			return 0, false
		}
		row, ok := standings.At(r.table, src.position)
		if !ok {
			return 0, false
		}
		return row.TeamID, true
	case fromWinner:
		return r.Winner(src.slot)
	default:
		return 0, false
	}
}

// Participants returns the two sides of slot as the bracket currently
// determines them. An unresolved side is reported as 0 (TBD).
func (r *Resolver) Participants(slot models.Slot) (home, away int) {
	if m, ok := r.Match(slot); ok {
		return m.HomeID, m.AwayID
	}
	recipe, ok := recipeFor(slot)
	if !ok {
		return 0, 0
	}
	home, _ = r.resolve(recipe.home)
	away, _ = r.resolve(recipe.away)
	return home, away
}

func recipeFor(slot models.Slot) (slotRecipe, bool) {
	for _, rec := range stageTable[slot.Stage] {
		if rec.slot == slot {
			return rec, true
		}
	}
	return slotRecipe{}, false
}

// StageExists reports whether any slot of stage is already stored.
func (r *Resolver) StageExists(stage models.MatchType) bool {
	for _, rec := range stageTable[stage] {
		if _, ok := r.Match(rec.slot); ok {
			return true
		}
	}
	return false
}

// Ready checks the creation guard of stage: the stage must not exist yet and
// every side of every slot must resolve to a team.
func (r *Resolver) Ready(stage models.MatchType) Readiness {
	res := Readiness{Stage: stage}
	recipes, ok := stageTable[stage]
	if !ok {
		res.Reason = fmt.Sprintf("%q is not a knockout stage", stage)
		return res
	}
	if r.StageExists(stage) {
		res.Exists = true
		res.Reason = "stage already created"
		return res
	}
	if stage == models.MatchTypeQual {
		if !r.GroupDone() {
			played, total := r.GroupProgress()
			res.Reason = fmt.Sprintf("group stage not finished (%d/%d played)", played, total)
			return res
		}
		if len(r.table) < QualificationMinTeams {
			res.Reason = fmt.Sprintf("qualification needs %d teams in the table, have %d", QualificationMinTeams, len(r.table))
			return res
		}
	}
	for _, rec := range recipes {
		for _, src := range []source{rec.home, rec.away} {
			if _, ok := r.resolve(src); !ok {
				res.Reason = fmt.Sprintf("%s: %s is not decided yet", rec.slot, src)
				return res
			}
		}
	}
	res.Ready = true
	return res
}

// Plan returns the matches to insert for stage, or a not-ready plan with no
// rows. Calling it for an existing stage is a no-op as well.
func (r *Resolver) Plan(stage models.MatchType) StagePlan {
	plan := StagePlan{Readiness: r.Ready(stage)}
	if !plan.Ready {
		return plan
	}
	recipes := stageTable[stage]
	rows := make([]models.Match, 0, len(recipes))
	for _, rec := range recipes {
		home, _ := r.resolve(rec.home)
		away, _ := r.resolve(rec.away)
		slot := rec.slot
		rows = append(rows, models.Match{
			Type:   stage,
			Slot:   &slot,
			HomeID: home,
			AwayID: away,
		})
	}
	plan.Insert = &models.InsertMatches{Stage: stage, Matches: rows}
	return plan
}

// NextStage returns the first knockout stage that has not been created yet,
// with its readiness. ok is false once the final exists.
func (r *Resolver) NextStage() (Readiness, bool) {
	for _, stage := range models.KnockoutStages {
		if !r.StageExists(stage) {
			return r.Ready(stage), true
		}
	}
	return Readiness{}, false
}

func (r *Resolver) Champion() (int, bool) {
	return r.Winner(finalSlot)
}

// CascadeClear builds the intent that resets m to unplayed and deletes every
// stage derived from it. The match date is kept.
func CascadeClear(m models.Match) models.ClearResult {
	return models.ClearResult{
		Reset: models.ResultUpdate{
			MatchID:   m.ID,
			MatchDate: m.MatchDate,
			Goals:     []models.Goal{},
		},
		Cascade: models.DeleteStages{Types: m.Type.Downstream()},
	}
}
