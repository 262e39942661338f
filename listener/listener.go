// Package listener turns Postgres change notifications into debounced
// refresh calls.
//
// A dedicated pgx connection LISTENs on league_changes. Triggers on every
// league table fire pg_notify there, so admin edits made outside this process
// (SQL console, another instance) reach connected clients too.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	Channel          = "league_changes"
	reconnectBackoff = 2 * time.Second
	maxReconnect     = 30 * time.Second
)

// RefreshFunc rebuilds and publishes derived views.
type RefreshFunc func(ctx context.Context) error

// Start listens until ctx is cancelled, reconnecting with backoff when the
// connection drops. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, debounce time.Duration, refresh RefreshFunc, logger *slog.Logger) {
	d := NewDebouncer(debounce, func() {
		if err := refresh(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("refresh after change notification failed", "error", err)
		}
	})
	defer d.Stop()

	backoff := reconnectBackoff
	for {
		err := listenLoop(ctx, dbURL, d, logger)
		if ctx.Err() != nil {
			logger.Info("change listener stopped")
			return
		}

		logger.Error("change listener disconnected, reconnecting", "error", err, "backoff", backoff)
		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

func listenLoop(ctx context.Context, dbURL string, d *Debouncer, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("change listener connected", "channel", Channel)

	// Changes may have been missed while disconnected.
	d.Trigger()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		logger.Debug("change notification", "table", n.Payload)
		d.Trigger()
	}
}
