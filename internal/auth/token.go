package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime matches the identity provider's JWT lifetime.
const DefaultTokenLifetime = time.Hour

// TokenManager issues and verifies HS256 bearer tokens carrying the user
// ID as the subject claim.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	nowFunc  func() time.Time
}

// NewTokenManager creates a token manager. A non-positive lifetime falls
// back to DefaultTokenLifetime.
func NewTokenManager(secret string, lifetime time.Duration) *TokenManager {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	return &TokenManager{
		secret:   []byte(secret),
		lifetime: lifetime,
		nowFunc:  time.Now,
	}
}

// Issue creates a signed token for the user.
func (m *TokenManager) Issue(userID uuid.UUID) (string, error) {
	now := m.nowFunc()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token and returns the user ID it was
// issued for. Any failure maps to ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowFunc))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
