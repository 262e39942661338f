package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

// Transactor runs fn inside one database transaction. The executor passed to
// fn is what repositories must use for their writes.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTransactor struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLTransactor(db *sql.DB, logger *slog.Logger) Transactor {
	return &sqlTransactor{db: db, logger: logger}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) (txErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				t.logger.Error("rollback failed", "error", rbErr, "cause", txErr)
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// Publisher receives change notifications for connected clients.
// *brackets.Hub satisfies it.
type Publisher interface {
	Publish(msgType string, payload interface{})
}

var _ Publisher = (*brackets.Hub)(nil)

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// handleRepositoryError maps repository sentinels onto service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrSlotConflict):
		return ErrSlotConflict
	case errors.Is(err, repositories.ErrInvalidReference):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	case errors.Is(err, storage.ErrUnsupportedLogoType), errors.Is(err, storage.ErrLogoTooLarge):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}
