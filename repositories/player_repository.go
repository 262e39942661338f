package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

type PlayerRepository interface {
	List(ctx context.Context) ([]models.Player, error)
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	const query = `SELECT id, team_id, name, number, sort_order FROM players ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var (
			p      models.Player
			number sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &number, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.Number = nullInt(number)
		players = append(players, p)
	}
	return players, rows.Err()
}

// Create puts the player last in their team's roster order.
func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	const query = `
		INSERT INTO players (team_id, name, number, sort_order)
		VALUES ($1, $2, $3, (SELECT COUNT(*) FROM players WHERE team_id = $1))
		RETURNING id, sort_order`
	err := executor(r.db, exec).QueryRowContext(ctx, query, player.TeamID, player.Name, player.Number).
		Scan(&player.ID, &player.SortOrder)
	return mapPQError(err)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	res, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(res, ErrPlayerNotFound)
}
