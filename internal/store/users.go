package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink-service/internal/auth"
)

// PostgresUserStore is a PostgreSQL implementation of auth.UserStore.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a Postgres-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (p *PostgresUserStore) Insert(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1::uuid, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query, user.ID.String(), user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrEmailTaken
		}

		return err
	}

	return nil
}

func (p *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT id::text, email, password_hash, created_at FROM users WHERE email = $1`

	var (
		user  auth.User
		rawID string
	)

	err := p.pool.QueryRow(ctx, query, email).Scan(&rawID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, err
	}

	user.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", rawID, err)
	}

	return &user, nil
}

// MemoryUserStore is an in-memory implementation of auth.UserStore for
// unit tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*auth.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*auth.User),
	}
}

func (m *MemoryUserStore) Insert(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return auth.ErrEmailTaken
	}

	stored := *user
	m.byEmail[user.Email] = &stored

	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	found := *user

	return &found, nil
}

// Compile-time checks.
var (
	_ auth.UserStore = (*PostgresUserStore)(nil)
	_ auth.UserStore = (*MemoryUserStore)(nil)
)
