// Package analytics defines the link lifecycle events published on the
// message bus and the consumer-side store that records them.
package analytics

import "time"

const (
	// TopicLinkCreated carries LinkCreatedEvent messages.
	TopicLinkCreated = "link.created"
	// TopicLinkAccessed carries LinkAccessedEvent messages.
	TopicLinkAccessed = "link.accessed"
	// TopicLinkDeleted carries LinkDeletedEvent messages.
	TopicLinkDeleted = "link.deleted"
)

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	Code      string     `json:"code"`
	TargetURL string     `json:"targetUrl"`
	Owned     bool       `json:"owned"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	ClientIP  string     `json:"clientIp,omitempty"`
	UserAgent string     `json:"userAgent,omitempty"`
}

// LinkAccessedEvent is emitted when a redirect is served from the store.
// Redirects served from cache do not emit events, mirroring the
// click-tracking skip on cache hits.
type LinkAccessedEvent struct {
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
}

// LinkDeletedEvent is emitted when a link is removed, either explicitly
// by its owner or by a cleanup sweep.
type LinkDeletedEvent struct {
	Code      string    `json:"code,omitempty"`
	Reason    string    `json:"reason"`
	Count     int       `json:"count"`
	DeletedAt time.Time `json:"deletedAt"`
}
