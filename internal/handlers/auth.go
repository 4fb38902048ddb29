package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-service/internal/auth"
	"go.uber.org/zap"
)

// AuthHandler handles the identity endpoints.
type AuthHandler struct {
	service *auth.Service
	logger  *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Body struct {
		Email    string `doc:"Account email"    example:"user@example.com" format:"email" json:"email"`
		Password string `doc:"Account password" json:"password"            minLength:"8"`
	}
}

// RegisterResponse is the response for a created account.
type RegisterResponse struct {
	Body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
}

// LoginRequest is the request for obtaining a bearer token.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := h.service.Register(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailTaken):
			return nil, huma.Error400BadRequest(err.Error())
		default:
			h.logger.Error("registration failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("store unavailable")
		}
	}

	resp := &RegisterResponse{}
	resp.Body.ID = user.ID.String()
	resp.Body.Email = user.Email

	return resp, nil
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := h.service.Login(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, huma.Error400BadRequest("invalid credentials")
		}

		h.logger.Error("login failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("store unavailable")
	}

	resp := &LoginResponse{}
	resp.Body.AccessToken = token
	resp.Body.TokenType = "bearer"

	return resp, nil
}
