package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

type MatchRepository interface {
	List(ctx context.Context) ([]models.Match, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	InsertBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) ([]models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, u models.ResultUpdate) error
	DeleteByTypes(ctx context.Context, exec SQLExecutor, types []models.MatchType) (int64, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, match_type, slot, round, home_id, away_id, home_goals, away_goals, played, is_technical, match_date`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(s rowScanner) (models.Match, error) {
	var (
		m       models.Match
		slot    sql.NullString
		round   sql.NullInt64
		hg, ag  sql.NullInt64
		date    sql.NullTime
		rawType string
	)
	if err := s.Scan(&m.ID, &rawType, &slot, &round, &m.HomeID, &m.AwayID, &hg, &ag, &m.Played, &m.IsTechnical, &date); err != nil {
		return m, err
	}
	t, err := models.ParseMatchType(rawType)
	if err != nil {
		return m, fmt.Errorf("match %d: %w", m.ID, err)
	}
	m.Type = t
	if slot.Valid && slot.String != "" {
		parsed, err := models.ParseSlot(slot.String)
		if err != nil {
			return m, fmt.Errorf("match %d: %w", m.ID, err)
		}
		m.Slot = &parsed
	}
	if round.Valid {
		m.Round = models.IntPtr(int(round.Int64))
	}
	if hg.Valid {
		m.HomeGoals = models.IntPtr(int(hg.Int64))
	}
	if ag.Valid {
		m.AwayGoals = models.IntPtr(int(ag.Int64))
	}
	if date.Valid {
		d := date.Time
		m.MatchDate = &d
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	row := executor(r.db, exec).QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &m, nil
}

func nullableSlot(s *models.Slot) interface{} {
	if s == nil {
		return nil
	}
	return s.String()
}

// InsertBatch inserts matches in order and returns them with ids assigned.
func (r *postgresMatchRepository) InsertBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) ([]models.Match, error) {
	const query = `
		INSERT INTO matches (match_type, slot, round, home_id, away_id, home_goals, away_goals, played, is_technical, match_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	ex := executor(r.db, exec)
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		err := ex.QueryRowContext(ctx, query,
			string(m.Type),
			nullableSlot(m.Slot),
			m.Round,
			m.HomeID,
			m.AwayID,
			m.HomeGoals,
			m.AwayGoals,
			m.Played,
			m.IsTechnical,
			m.MatchDate,
		).Scan(&m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s match: %w", m.Type, mapPQError(err))
		}
		out = append(out, m)
	}
	return out, nil
}

// UpdateResult writes the score part of u. Goal events are replaced
// separately through GoalRepository in the same transaction.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, u models.ResultUpdate) error {
	const query = `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, played = $3, is_technical = $4, match_date = $5
		WHERE id = $6`
	res, err := executor(r.db, exec).ExecContext(ctx, query, u.HomeGoals, u.AwayGoals, u.Played, u.IsTechnical, u.MatchDate, u.MatchID)
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", u.MatchID, err)
	}
	return checkAffectedRows(res, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTypes(ctx context.Context, exec SQLExecutor, types []models.MatchType) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	res, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM matches WHERE match_type = ANY($1)`, pq.Array(names))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stages %v: %w", names, err)
	}
	return res.RowsAffected()
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}
