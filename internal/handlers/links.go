// Package handlers is the HTTP routing layer: huma operations mapping
// requests onto the link lifecycle service and the auth service.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-service/internal/auth"
	"github.com/serroba/shortlink-service/internal/links"
	"go.uber.org/zap"
)

// LinkHandler handles the short-link endpoints.
type LinkHandler struct {
	service *links.Service
	logger  *zap.Logger
}

// NewLinkHandler creates a link handler.
func NewLinkHandler(service *links.Service, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		logger:  logger,
	}
}

// Shorten creates a short link, anonymously or for the authenticated
// caller.
func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	params := links.CreateParams{
		TargetURL:   req.Body.TargetURL,
		CustomAlias: req.Body.CustomAlias,
		ExpiresAt:   req.Body.ExpiresAt,
	}

	if identity, ok := auth.IdentityFromContext(ctx); ok {
		params.OwnerID = &identity
	}

	link, err := h.service.Create(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, links.ErrInvalidURL),
			errors.Is(err, links.ErrInvalidAlias),
			errors.Is(err, links.ErrAliasReserved),
			errors.Is(err, links.ErrAliasTaken):
			return nil, huma.Error400BadRequest(err.Error())
		default:
			return nil, h.storeFailure(ctx, "create", err)
		}
	}

	return &ShortenResponse{Body: link.Public()}, nil
}

// Search finds links by exact target URL.
func (h *LinkHandler) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	found, err := h.service.Search(ctx, req.OriginalURL)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("original link not found")
		}

		return nil, h.storeFailure(ctx, "search", err)
	}

	return &SearchResponse{Body: found}, nil
}

// Redirect resolves a code and sends the visitor to its target URL.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	target, err := h.service.Redirect(ctx, req.Code)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		return nil, h.storeFailure(ctx, "redirect", err)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = target

	return resp, nil
}

// Update replaces the target URL of an owned link.
func (h *LinkHandler) Update(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing or invalid bearer token")
	}

	link, err := h.service.Update(ctx, req.Code, req.Body.TargetURL, identity)
	if err != nil {
		switch {
		case errors.Is(err, links.ErrInvalidURL):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, links.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		case errors.Is(err, links.ErrForbidden):
			return nil, huma.Error403Forbidden(err.Error())
		default:
			return nil, h.storeFailure(ctx, "update", err)
		}
	}

	return &UpdateResponse{Body: link.Public()}, nil
}

// Delete removes an owned link.
func (h *LinkHandler) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing or invalid bearer token")
	}

	if err := h.service.Delete(ctx, req.Code, identity); err != nil {
		switch {
		case errors.Is(err, links.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		case errors.Is(err, links.ErrForbidden):
			return nil, huma.Error403Forbidden(err.Error())
		default:
			return nil, h.storeFailure(ctx, "delete", err)
		}
	}

	resp := &DeleteResponse{}
	resp.Body.Status = "success"
	resp.Body.Message = fmt.Sprintf("Short link %q has been deleted", req.Code)

	return resp, nil
}

// Stats returns the usage statistics for a code.
func (h *LinkHandler) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	stats, err := h.service.Stats(ctx, req.Code)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		return nil, h.storeFailure(ctx, "stats", err)
	}

	return &StatsResponse{Body: *stats}, nil
}

func (h *LinkHandler) storeFailure(_ context.Context, operation string, err error) error {
	h.logger.Error("store operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)

	return huma.Error500InternalServerError("store unavailable")
}
