package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so every write can
// join the caller's transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
	ErrMatchNotFound    = errors.New("match not found")
	ErrSlotConflict     = errors.New("knockout slot already taken")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrSettingNotFound  = errors.New("setting not found")
	ErrInvalidReference = errors.New("referenced row does not exist")
)

func executor(db *sql.DB, exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return db
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// mapPQError turns constraint violations into repository sentinels.
func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
	case "23505": // unique_violation
		switch pqErr.Constraint {
		case "teams_name_lower_key":
			return ErrTeamNameConflict
		case "matches_slot_key":
			return ErrSlotConflict
		}
	}
	return err
}
