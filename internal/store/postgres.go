// Package store holds the durable storage adapters: a pgx-backed
// Postgres implementation used in production and an in-memory
// implementation used in unit tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink-service/internal/links"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresLinkStore is a PostgreSQL implementation of links.Store. The
// unique index on code is the authority for conflict detection.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a Postgres-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

const linkColumns = `id::text, code, target_url, owner_id::text, created_at, click_count, last_accessed_at, expires_at`

func (p *PostgresLinkStore) Insert(ctx context.Context, link *links.Link) error {
	query := `
		INSERT INTO links (id, code, target_url, owner_id, created_at, click_count, last_accessed_at, expires_at)
		VALUES ($1::uuid, $2, $3, $4::uuid, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID.String(),
		link.Code,
		link.TargetURL,
		uuidToNullable(link.OwnerID),
		link.CreatedAt,
		link.ClickCount,
		link.LastAccessedAt,
		link.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return links.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresLinkStore) GetByCode(ctx context.Context, code string) (*links.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE code = $1`

	link, err := scanLink(p.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, links.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresLinkStore) FindByTarget(ctx context.Context, target string) ([]*links.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE target_url = $1 ORDER BY created_at`

	rows, err := p.pool.Query(ctx, query, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*links.Link

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		found = append(found, link)
	}

	return found, rows.Err()
}

func (p *PostgresLinkStore) UpdateTarget(ctx context.Context, code, target string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE links SET target_url = $2 WHERE code = $1`, code, target)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) RecordClick(ctx context.Context, code string, at time.Time) error {
	query := `
		UPDATE links
		SET click_count = click_count + 1, last_accessed_at = $2
		WHERE code = $1
	`

	tag, err := p.pool.Exec(ctx, query, code, at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) Delete(ctx context.Context, code string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM links WHERE code = $1`, code)

	return err
}

func (p *PostgresLinkStore) DeleteExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		DELETE FROM links
		WHERE expires_at IS NOT NULL AND expires_at < $1
		RETURNING id::text
	`

	return p.deleteReturningIDs(ctx, query, now)
}

func (p *PostgresLinkStore) DeleteUnused(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		DELETE FROM links
		WHERE last_accessed_at IS NULL OR last_accessed_at < $1
		RETURNING id::text
	`

	return p.deleteReturningIDs(ctx, query, cutoff)
}

func (p *PostgresLinkStore) deleteReturningIDs(ctx context.Context, query string, arg any) ([]uuid.UUID, error) {
	rows, err := p.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", raw, err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanLink(row pgx.Row) (*links.Link, error) {
	var (
		link    links.Link
		rawID   string
		ownerID *string
	)

	err := row.Scan(
		&rawID,
		&link.Code,
		&link.TargetURL,
		&ownerID,
		&link.CreatedAt,
		&link.ClickCount,
		&link.LastAccessedAt,
		&link.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	link.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", rawID, err)
	}

	if ownerID != nil {
		owner, err := uuid.Parse(*ownerID)
		if err != nil {
			return nil, fmt.Errorf("parse owner id %q: %w", *ownerID, err)
		}

		link.OwnerID = &owner
	}

	return &link, nil
}

func uuidToNullable(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}

	s := id.String()

	return &s
}

// Compile-time check.
var _ links.Store = (*PostgresLinkStore)(nil)
