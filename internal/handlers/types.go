package handlers

import (
	"time"

	"github.com/serroba/shortlink-service/internal/links"
)

// ShortenRequest is the request for creating a short link.
type ShortenRequest struct {
	Body struct {
		TargetURL   string     `doc:"The URL to shorten"                   example:"https://example.com/very/long/path" json:"target_url"`
		CustomAlias string     `doc:"Caller-chosen code, letters/digits"   example:"mylink"                             json:"custom_alias,omitempty" required:"false"`
		ExpiresAt   *time.Time `doc:"Optional expiry timestamp"            json:"expires_at,omitempty"                  required:"false"`
	}
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Body links.PublicLink
}

// SearchRequest is the request for finding links by target URL.
type SearchRequest struct {
	OriginalURL string `doc:"Exact target URL to search for" example:"https://example.com" query:"original_url" required:"true"`
}

// SearchResponse lists every link pointing at the searched URL.
type SearchResponse struct {
	Body []links.PublicLink
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Ab3xY9kQz1" path:"code"`
}

// RedirectResponse redirects the visitor to the target URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The target URL" header:"Location"`
	}
}

// UpdateRequest is the request for replacing a link's target URL.
type UpdateRequest struct {
	Code string `doc:"The short code" path:"code"`
	Body struct {
		TargetURL string `doc:"The new target URL" example:"https://example.org" json:"target_url"`
	}
}

// UpdateResponse is the response for a successful update.
type UpdateResponse struct {
	Body links.PublicLink
}

// DeleteRequest is the request for removing a link.
type DeleteRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
}

// StatsRequest is the request for a link's usage statistics.
type StatsRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// StatsResponse is the full stats projection.
type StatsResponse struct {
	Body links.LinkStats
}
