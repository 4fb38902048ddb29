package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortlink-service/internal/auth"
	"github.com/serroba/shortlink-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() (*auth.Service, *store.MemoryUserStore) {
	users := store.NewMemoryUserStore()
	svc := auth.NewService(
		users,
		auth.NewPasswordHasher(),
		auth.NewTokenManager("test-secret", time.Hour),
		zap.NewNop(),
	)

	return svc, users
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a normalized email", func(t *testing.T) {
		svc, users := newAuthService()

		user, err := svc.Register(ctx, "  Alice@Example.COM ", "correct horse battery")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "correct horse battery", user.PasswordHash)

		stored, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		svc, _ := newAuthService()

		for _, email := range []string{"", "nope", "a@", "@example.com"} {
			_, err := svc.Register(ctx, email, "long enough password")
			assert.ErrorIs(t, err, auth.ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(ctx, "bob@example.com", "short")
		assert.ErrorIs(t, err, auth.ErrWeakPassword)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(ctx, "carol@example.com", "first password")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Carol@example.com", "second password")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a verifiable token for valid credentials", func(t *testing.T) {
		svc, _ := newAuthService()

		user, err := svc.Register(ctx, "dave@example.com", "my long password")
		require.NoError(t, err)

		token, err := svc.Login(ctx, "dave@example.com", "my long password")
		require.NoError(t, err)

		verified, err := auth.NewTokenManager("test-secret", time.Hour).Verify(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, verified)
	})

	t.Run("login is case-insensitive on the email", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(ctx, "eve@example.com", "my long password")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "EVE@example.com", "my long password")
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(ctx, "frank@example.com", "my long password")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "frank@example.com", "not the password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = svc.Login(ctx, "nobody@example.com", "my long password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
