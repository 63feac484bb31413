package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const seedLogPrefix = "db:seed"

// SeedAuthors inserts a small set of demo authors when the table is empty.
// Safe to call on every startup; existing data is never touched.
func SeedAuthors(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		return fmt.Errorf("%s - count authors: %w", seedLogPrefix, err)
	}
	if count > 0 {
		slog.Debug(fmt.Sprintf("%s - authors table not empty (%d rows), skipping seed", seedLogPrefix, count))
		return nil
	}

	repo := NewRepository(pool)
	seeds := []CreateAuthorParams{
		{FirstName: "Ada", LastName: "Lovelace", UserID: "system"},
		{FirstName: "Grace", LastName: "Hopper", UserID: "system"},
		{FirstName: "Donald", LastName: "Knuth", UserID: "system"},
	}
	for _, s := range seeds {
		if _, err := repo.CreateAuthor(ctx, s); err != nil {
			return fmt.Errorf("%s - seed author %s %s: %w", seedLogPrefix, s.FirstName, s.LastName, err)
		}
	}

	slog.Info(fmt.Sprintf("%s - Seeded %d demo authors", seedLogPrefix, len(seeds)))
	return nil
}
