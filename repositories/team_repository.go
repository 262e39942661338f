package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

type TeamRepository interface {
	List(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error
	UpdateLogo(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	const query = `SELECT id, name, sort_order, logo_key FROM teams ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.SortOrder, &t.LogoKey); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	const query = `SELECT id, name, sort_order, logo_key FROM teams WHERE id = $1`
	var t models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.SortOrder, &t.LogoKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return &t, nil
}

// Create appends the team at the end of the display order.
func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	const query = `
		INSERT INTO teams (name, sort_order)
		VALUES ($1, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM teams))
		RETURNING id, sort_order`
	err := executor(r.db, exec).QueryRowContext(ctx, query, team.Name).Scan(&team.ID, &team.SortOrder)
	return mapPQError(err)
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error {
	res, err := executor(r.db, exec).ExecContext(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapPQError(err)
	}
	return checkAffectedRows(res, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogo(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	res, err := executor(r.db, exec).ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update logo of team %d: %w", id, err)
	}
	return checkAffectedRows(res, ErrTeamNotFound)
}
