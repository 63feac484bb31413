package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearData truncates the authors and audit_logs tables. Schema is preserved;
// only data is removed. RESTART IDENTITY resets sequences.
func ClearData(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing authors and audit_logs tables", clearLogPrefix))

	_, err := pool.Exec(ctx, `TRUNCATE TABLE
		audit_logs,
		authors
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Data cleared", clearLogPrefix))
	return nil
}
