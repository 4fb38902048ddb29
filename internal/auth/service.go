package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// ErrInvalidEmail is returned for malformed registration emails.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrWeakPassword is returned for too-short registration passwords.
var ErrWeakPassword = errors.New("password must be at least 8 characters")

// Service implements registration and login.
type Service struct {
	users   UserStore
	hasher  *PasswordHasher
	tokens  *TokenManager
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewService creates an auth service.
func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.nowFunc(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}
