package auth

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

type identityKey struct{}

// ContextWithIdentity attaches an authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, identityKey{}, userID)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(identityKey{}).(uuid.UUID)

	return id, ok
}

// Identity is a middleware that resolves the bearer token, when present
// and valid, into an identity on the request context. Requests without a
// usable token proceed anonymously; endpoints that require an identity
// reject those themselves.
func Identity(_ huma.API, tokens *TokenManager) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && token != "" {
			if userID, err := tokens.Verify(token); err == nil {
				ctx = huma.WithContext(ctx, ContextWithIdentity(ctx.Context(), userID))
			}
		}

		next(ctx)
	}
}
