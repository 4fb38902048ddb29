package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS links (
		id               UUID PRIMARY KEY,
		code             TEXT NOT NULL UNIQUE,
		target_url       TEXT NOT NULL,
		owner_id         UUID REFERENCES users (id),
		created_at       TIMESTAMPTZ NOT NULL,
		click_count      BIGINT NOT NULL DEFAULT 0,
		last_accessed_at TIMESTAMPTZ,
		expires_at       TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS links_target_url_idx ON links (target_url)`,
	`CREATE INDEX IF NOT EXISTS links_expires_at_idx ON links (expires_at) WHERE expires_at IS NOT NULL`,
}

// Migrate applies the schema. Statements are idempotent, so running it on
// every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
