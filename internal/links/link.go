// Package links holds the short-link domain model and the lifecycle
// service that orchestrates creation, redirection, mutation and lookup.
package links

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousLifetime is how long a link created without an authenticated
// owner lives when the caller supplies no expiry.
const AnonymousLifetime = 24 * time.Hour

// ReservedAlias is the one code that can never be claimed as a custom
// alias because it is routed to the search endpoint.
const ReservedAlias = "search"

// Link is a stored short link. Code, OwnerID and CreatedAt are immutable
// once assigned; TargetURL may be replaced by the owner; ClickCount and
// LastAccessedAt change only on redirects.
type Link struct {
	ID             uuid.UUID
	Code           string
	TargetURL      string
	OwnerID        *uuid.UUID
	CreatedAt      time.Time
	ClickCount     int64
	LastAccessedAt *time.Time
	ExpiresAt      *time.Time
}

// PublicLink is the projection returned by create, update and search.
type PublicLink struct {
	Code      string `doc:"The short code"  example:"Ab3xY9kQz1"          json:"code"`
	TargetURL string `doc:"The target URL"  example:"https://example.com" json:"target_url"`
}

// LinkStats is the full stats projection for a single link.
type LinkStats struct {
	Code           string     `json:"code"`
	TargetURL      string     `json:"target_url"`
	CreatedAt      time.Time  `json:"created_at"`
	ClickCount     int64      `json:"click_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Public returns the public projection of the link.
func (l *Link) Public() PublicLink {
	return PublicLink{
		Code:      l.Code,
		TargetURL: l.TargetURL,
	}
}

// Stats returns the stats projection of the link.
func (l *Link) Stats() LinkStats {
	return LinkStats{
		Code:           l.Code,
		TargetURL:      l.TargetURL,
		CreatedAt:      l.CreatedAt,
		ClickCount:     l.ClickCount,
		LastAccessedAt: l.LastAccessedAt,
		ExpiresAt:      l.ExpiresAt,
	}
}
