// Package cache provides a keyed, TTL-bound cache in front of the durable
// store. Entries are best-effort: a backend failure is absorbed and
// reported as a miss, so absence never affects correctness, only latency.
package cache

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Param is a single query parameter of a cache key.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query-parameter list. Order is preserved when
// building keys, so the same logical parameters always produce the same
// key.
type Params []Param

// P builds a single-parameter list, the common case.
func P(key, value string) Params {
	return Params{{Key: key, Value: value}}
}

// Key derives the cache key for a logical resource path and its
// parameters: the path followed by '?' and the URL-encoded parameters in
// insertion order.
func Key(path string, params Params) string {
	var b strings.Builder

	b.WriteString(path)
	b.WriteByte('?')

	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}

	return b.String()
}

// Cache is the read-through/write-invalidate cache contract. Get reports
// whether dest was populated; backend errors are absorbed by
// implementations and surface as a miss or a no-op, never as an error.
type Cache interface {
	Get(ctx context.Context, path string, params Params, dest any) bool
	Set(ctx context.Context, path string, params Params, value any, ttl time.Duration)
	Delete(ctx context.Context, path string, params Params)
}
