package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Known settings keys.
const (
	SettingSeed        = "seed"
	SettingCustomTable = "custom_table"
)

type SettingsRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, exec SQLExecutor, key, value string) error
	Delete(ctx context.Context, exec SQLExecutor, key string) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *postgresSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return v, nil
}

func (r *postgresSettingsRepository) Upsert(ctx context.Context, exec SQLExecutor, key, value string) error {
	const query = `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := executor(r.db, exec).ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

func (r *postgresSettingsRepository) Delete(ctx context.Context, exec SQLExecutor, key string) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

func (r *postgresSettingsRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
