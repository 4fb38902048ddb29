package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is an in-memory Cache used in tests and single-process
// setups. Entries expire lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	nowFunc func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, path string, params Params, dest any) bool {
	c.mu.RLock()
	entry, ok := c.entries[Key(path, params)]
	c.mu.RUnlock()

	if !ok {
		return false
	}

	if !entry.expiresAt.IsZero() && c.nowFunc().After(entry.expiresAt) {
		return false
	}

	return json.Unmarshal(entry.payload, dest) == nil
}

func (c *MemoryCache) Set(_ context.Context, path string, params Params, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = c.nowFunc().Add(ttl)
	}

	c.mu.Lock()
	c.entries[Key(path, params)] = entry
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, path string, params Params) {
	c.mu.Lock()
	delete(c.entries, Key(path, params))
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Compile-time check.
var _ Cache = (*MemoryCache)(nil)
