// Package results validates and normalizes admin result submissions.
package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
)

const (
	MinMinute = 1
	MaxMinute = 120

	// TechnicalWinScore is the score awarded to the side that did not
	// forfeit.
	TechnicalWinScore = 3
)

var (
	ErrValidation = errors.New("validation failed")

	ErrKnockoutDraw          = fmt.Errorf("%w: knockout match cannot end in a draw", ErrValidation)
	ErrMissingScorer         = fmt.Errorf("%w: goal event has no scorer", ErrValidation)
	ErrOwnGoalAssist         = fmt.Errorf("%w: own goal cannot carry an assist", ErrValidation)
	ErrSelfAssist            = fmt.Errorf("%w: scorer cannot assist their own goal", ErrValidation)
	ErrInvalidTechnicalLoser = fmt.Errorf("%w: technical defeat loser is not playing this match", ErrValidation)
	ErrGoalTeamMismatch      = fmt.Errorf("%w: goal team is not playing this match", ErrValidation)
	ErrInvalidMinute         = fmt.Errorf("%w: goal minute out of range", ErrValidation)
	ErrUnresolvedMatch       = fmt.Errorf("%w: match participants are not decided", ErrValidation)
)

// TechnicalDefeat names the team that forfeits the match.
type TechnicalDefeat struct {
	LoserID int `json:"loser_id"`
}

// Submission is what the admin enters for one match. With Technical set the
// score fields and goal events are ignored.
type Submission struct {
	HomeGoals int              `json:"home_goals"`
	AwayGoals int              `json:"away_goals"`
	Technical *TechnicalDefeat `json:"technical,omitempty"`
	Goals     []models.Goal    `json:"goals,omitempty"`
	MatchDate *time.Time       `json:"match_date,omitempty"`
}

// Warning is advisory and never blocks a save.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const WarnTallyMismatch = "goal_tally_mismatch"

// Recorded is a validated submission: the update to apply plus any
// warnings worth showing the admin.
type Recorded struct {
	Update   models.ResultUpdate `json:"update"`
	Match    models.Match        `json:"match"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// Record validates sub against m and returns the normalized update. Nothing
// is returned on error, so a rejected submission never reaches storage.
func Record(m models.Match, sub Submission) (Recorded, error) {
	if m.HomeID == 0 || m.AwayID == 0 {
		return Recorded{}, ErrUnresolvedMatch
	}

	if sub.Technical != nil {
		return recordTechnical(m, *sub.Technical, sub.MatchDate)
	}

	hg, ag := max(sub.HomeGoals, 0), max(sub.AwayGoals, 0)
	if m.Type != models.MatchTypeGroup && hg == ag {
		return Recorded{}, ErrKnockoutDraw
	}

	goals := make([]models.Goal, 0, len(sub.Goals))
	for i, g := range sub.Goals {
		if err := validateGoal(m, g); err != nil {
			return Recorded{}, fmt.Errorf("goal %d: %w", i+1, err)
		}
		goals = append(goals, models.Goal{
			MatchID:        m.ID,
			PlayerID:       g.PlayerID,
			TeamID:         g.TeamID,
			Minute:         g.Minute,
			AssistPlayerID: g.AssistPlayerID,
			IsOwnGoal:      g.IsOwnGoal,
		})
	}

	rec := Recorded{
		Update: models.ResultUpdate{
			MatchID:   m.ID,
			HomeGoals: models.IntPtr(hg),
			AwayGoals: models.IntPtr(ag),
			Played:    true,
			MatchDate: sub.MatchDate,
			Goals:     goals,
		},
	}
	if len(goals) > 0 {
		if th, ta := Tally(m, goals); th != hg || ta != ag {
			rec.Warnings = append(rec.Warnings, Warning{
				Code:    WarnTallyMismatch,
				Message: fmt.Sprintf("goal events add up to %d:%d, score is %d:%d", th, ta, hg, ag),
			})
		}
	}
	rec.Match = apply(m, rec.Update)
	return rec, nil
}

func recordTechnical(m models.Match, td TechnicalDefeat, date *time.Time) (Recorded, error) {
	var hg, ag int
	switch td.LoserID {
	case m.HomeID:
		hg, ag = 0, TechnicalWinScore
	case m.AwayID:
		hg, ag = TechnicalWinScore, 0
	default:
		return Recorded{}, fmt.Errorf("%w: team %d", ErrInvalidTechnicalLoser, td.LoserID)
	}
	update := models.ResultUpdate{
		MatchID:     m.ID,
		HomeGoals:   models.IntPtr(hg),
		AwayGoals:   models.IntPtr(ag),
		Played:      true,
		IsTechnical: true,
		MatchDate:   date,
		Goals:       []models.Goal{},
	}
	return Recorded{Update: update, Match: apply(m, update)}, nil
}

func validateGoal(m models.Match, g models.Goal) error {
	if !m.Involves(g.TeamID) || g.TeamID == 0 {
		return fmt.Errorf("%w: team %d", ErrGoalTeamMismatch, g.TeamID)
	}
	if g.PlayerID == nil || *g.PlayerID == 0 {
		return ErrMissingScorer
	}
	if g.AssistPlayerID != nil {
		if g.IsOwnGoal {
			return ErrOwnGoalAssist
		}
		if *g.AssistPlayerID == *g.PlayerID {
			return ErrSelfAssist
		}
	}
	if g.Minute != nil && (*g.Minute < MinMinute || *g.Minute > MaxMinute) {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, *g.Minute)
	}
	return nil
}

// Tally counts goal events per side. An own goal counts for the opponent of
// the team it was entered for.
func Tally(m models.Match, goals []models.Goal) (home, away int) {
	for _, g := range goals {
		switch g.CreditedTeam(m) {
		case m.HomeID:
			home++
		case m.AwayID:
			away++
		}
	}
	return home, away
}

func apply(m models.Match, u models.ResultUpdate) models.Match {
	m.HomeGoals = u.HomeGoals
	m.AwayGoals = u.AwayGoals
	m.Played = u.Played
	m.IsTechnical = u.IsTechnical
	m.MatchDate = u.MatchDate
	return m
}

// Clear builds the intent that returns m to unplayed, drops its goals and
// removes every knockout stage that depended on it.
func Clear(m models.Match) models.ClearResult {
	return brackets.CascadeClear(m)
}
