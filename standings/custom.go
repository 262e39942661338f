package standings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrEmptyCustomTable = errors.New("custom table is empty")
	ErrUnknownTeams     = errors.New("custom table references unknown teams")
)

// CustomRowInput is one row of an uploaded table. GoalDiff is optional and
// falls back to gs - gc.
type CustomRowInput struct {
	Name         string `json:"name"`
	Played       int    `json:"p"`
	Won          int    `json:"w"`
	Drawn        int    `json:"d"`
	Lost         int    `json:"l"`
	GoalsFor     int    `json:"gs"`
	GoalsAgainst int    `json:"gc"`
	GoalDiff     *int   `json:"gd"`
	Points       int    `json:"pts"`
}

// NormalizeCustomTable matches uploaded rows to teams by case-insensitive
// name, canonicalizes names, fills in goal difference and sorts the rows with
// the same order as computed standings. Any unknown name rejects the table.
func NormalizeCustomTable(input []CustomRowInput, teams []models.Team) ([]models.StandingRow, error) {
	if len(input) == 0 {
		return nil, ErrEmptyCustomTable
	}
	byName := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		byName[strings.ToLower(strings.TrimSpace(t.Name))] = t
	}

	var missing []string
	rows := make([]models.StandingRow, 0, len(input))
	for _, in := range input {
		team, ok := byName[strings.ToLower(strings.TrimSpace(in.Name))]
		if !ok {
			missing = append(missing, in.Name)
			continue
		}
		gd := in.GoalsFor - in.GoalsAgainst
		if in.GoalDiff != nil {
			gd = *in.GoalDiff
		}
		rows = append(rows, models.StandingRow{
			TeamID:       team.ID,
			Name:         team.Name,
			Played:       in.Played,
			Won:          in.Won,
			Drawn:        in.Drawn,
			Lost:         in.Lost,
			GoalsFor:     in.GoalsFor,
			GoalsAgainst: in.GoalsAgainst,
			GoalDiff:     gd,
			Points:       in.Points,
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeams, strings.Join(missing, ", "))
	}
	Sort(rows)
	return rows, nil
}

// Display returns the admin override when one is stored, otherwise the
// computed table. Only the displayed table is affected; bracket seeding
// always works from computed standings.
func Display(custom, computed []models.StandingRow) []models.StandingRow {
	if len(custom) > 0 {
		return custom
	}
	return computed
}
