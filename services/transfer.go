package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
)

// MatchRecord is the portable form of a match used by export and import.
// Teams are referenced by name so a file survives a database rebuild.
type MatchRecord struct {
	MatchType string `json:"match_type"`
	Slot      string `json:"slot,omitempty"`
	Round     *int   `json:"round,omitempty"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals *int   `json:"home_goals"`
	AwayGoals *int   `json:"away_goals"`
	Played    *bool  `json:"played,omitempty"`
}

// TableRecord is one exported table line with its position.
type TableRecord struct {
	Pos  int    `json:"pos"`
	Name string `json:"name"`
	P    int    `json:"p"`
	W    int    `json:"w"`
	D    int    `json:"d"`
	L    int    `json:"l"`
	GS   int    `json:"gs"`
	GC   int    `json:"gc"`
	GD   int    `json:"gd"`
	Pts  int    `json:"pts"`
}

func exportMatchRecords(snap *models.Snapshot) []MatchRecord {
	out := make([]MatchRecord, 0, len(snap.Matches))
	for _, m := range snap.Matches {
		played := m.Played
		rec := MatchRecord{
			MatchType: string(m.Type),
			Round:     m.Round,
			Home:      snap.TeamName(m.HomeID),
			Away:      snap.TeamName(m.AwayID),
			HomeGoals: m.HomeGoals,
			AwayGoals: m.AwayGoals,
			Played:    &played,
		}
		if m.Slot != nil {
			rec.Slot = m.Slot.String()
		}
		out = append(out, rec)
	}
	return out
}

func exportTableRecords(rows []models.StandingRow) []TableRecord {
	out := make([]TableRecord, 0, len(rows))
	for i, r := range rows {
		out = append(out, TableRecord{
			Pos: i + 1, Name: r.Name,
			P: r.Played, W: r.Won, D: r.Drawn, L: r.Lost,
			GS: r.GoalsFor, GC: r.GoalsAgainst, GD: r.GoalDiff, Pts: r.Points,
		})
	}
	return out
}

// importMatchRecords resolves team names case-insensitively and converts
// records to matches. A record counts as played unless played is explicitly
// false, and only when both scores are present.
func importMatchRecords(records []MatchRecord, teams []models.Team) ([]models.Match, error) {
	if len(records) == 0 {
		return nil, ErrImportEmpty
	}
	byName := make(map[string]int, len(teams))
	for _, t := range teams {
		byName[strings.ToLower(strings.TrimSpace(t.Name))] = t.ID
	}

	var missing []string
	seen := make(map[string]bool)
	lookup := func(name string) int {
		id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok && !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return id
	}

	out := make([]models.Match, 0, len(records))
	for i, rec := range records {
		home, away := lookup(rec.Home), lookup(rec.Away)
		if home != 0 && home == away {
			return nil, fmt.Errorf("%w: record %d", ErrSameTeams, i+1)
		}

		mt := models.MatchTypeGroup
		if rec.MatchType != "" {
			parsed, err := models.ParseMatchType(rec.MatchType)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrValidationFailed, i+1, err)
			}
			mt = parsed
		}
		m := models.Match{Type: mt, Round: rec.Round, HomeID: home, AwayID: away}
		if rec.Slot != "" {
			slot, err := models.ParseSlot(rec.Slot)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrValidationFailed, i+1, err)
			}
			if slot.Stage != mt {
				return nil, fmt.Errorf("%w: record %d: slot %s does not belong to stage %s", ErrValidationFailed, i+1, slot, mt)
			}
			m.Slot = &slot
		}
		if m.Round != nil && *m.Round == 0 {
			m.Round = nil
		}
		explicitlyUnplayed := rec.Played != nil && !*rec.Played
		if !explicitlyUnplayed && rec.HomeGoals != nil && rec.AwayGoals != nil {
			if mt.IsKnockout() && *rec.HomeGoals == *rec.AwayGoals {
				return nil, fmt.Errorf("%w: record %d: knockout match cannot end in a draw", ErrValidationFailed, i+1)
			}
			m.HomeGoals, m.AwayGoals, m.Played = rec.HomeGoals, rec.AwayGoals, true
		}
		out = append(out, m)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeams, strings.Join(missing, ", "))
	}
	return out, nil
}
