package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

type GoalRepository interface {
	List(ctx context.Context) ([]models.Goal, error)
	ReplaceForMatch(ctx context.Context, exec SQLExecutor, matchID int, goals []models.Goal) error
	DeleteByPlayer(ctx context.Context, exec SQLExecutor, playerID int) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) List(ctx context.Context) ([]models.Goal, error) {
	const query = `
		SELECT id, match_id, player_id, team_id, minute, assist_player_id, is_own_goal
		FROM goals ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var (
			g                        models.Goal
			player, minute, assistID sql.NullInt64
		)
		if err := rows.Scan(&g.ID, &g.MatchID, &player, &g.TeamID, &minute, &assistID, &g.IsOwnGoal); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.PlayerID = nullInt(player)
		g.Minute = nullInt(minute)
		g.AssistPlayerID = nullInt(assistID)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.IntPtr(int(v.Int64))
}

// ReplaceForMatch drops every goal of matchID and inserts goals in their
// place. It must run inside the transaction that updates the score.
func (r *postgresGoalRepository) ReplaceForMatch(ctx context.Context, exec SQLExecutor, matchID int, goals []models.Goal) error {
	ex := executor(r.db, exec)
	if _, err := ex.ExecContext(ctx, `DELETE FROM goals WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete goals of match %d: %w", matchID, err)
	}
	const insert = `
		INSERT INTO goals (match_id, player_id, team_id, minute, assist_player_id, is_own_goal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, g := range goals {
		if _, err := ex.ExecContext(ctx, insert, matchID, g.PlayerID, g.TeamID, g.Minute, g.AssistPlayerID, g.IsOwnGoal); err != nil {
			return fmt.Errorf("failed to insert goal for match %d: %w", matchID, mapPQError(err))
		}
	}
	return nil
}

func (r *postgresGoalRepository) DeleteByPlayer(ctx context.Context, exec SQLExecutor, playerID int) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM goals WHERE player_id = $1`, playerID); err != nil {
		return fmt.Errorf("failed to delete goals of player %d: %w", playerID, err)
	}
	return nil
}

func (r *postgresGoalRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("failed to delete goals: %w", err)
	}
	return nil
}
