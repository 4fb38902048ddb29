package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/links"
)

// MemoryLinkStore is an in-memory implementation of links.Store. It
// mirrors the Postgres store's semantics, including the uniqueness
// constraint on code.
type MemoryLinkStore struct {
	mu     sync.RWMutex
	byCode map[string]*links.Link
}

// NewMemoryLinkStore creates an empty in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{
		byCode: make(map[string]*links.Link),
	}
}

func (m *MemoryLinkStore) Insert(_ context.Context, link *links.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byCode[link.Code]; exists {
		return links.ErrCodeTaken
	}

	stored := *link
	m.byCode[link.Code] = &stored

	return nil
}

func (m *MemoryLinkStore) GetByCode(_ context.Context, code string) (*links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.byCode[code]
	if !ok {
		return nil, links.ErrNotFound
	}

	found := *link

	return &found, nil
}

func (m *MemoryLinkStore) FindByTarget(_ context.Context, target string) ([]*links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []*links.Link

	for _, link := range m.byCode {
		if link.TargetURL == target {
			matched := *link
			found = append(found, &matched)
		}
	}

	return found, nil
}

func (m *MemoryLinkStore) UpdateTarget(_ context.Context, code, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.byCode[code]
	if !ok {
		return links.ErrNotFound
	}

	link.TargetURL = target

	return nil
}

func (m *MemoryLinkStore) RecordClick(_ context.Context, code string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.byCode[code]
	if !ok {
		return links.ErrNotFound
	}

	link.ClickCount++
	accessed := at
	link.LastAccessedAt = &accessed

	return nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byCode, code)

	return nil
}

func (m *MemoryLinkStore) DeleteExpired(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []uuid.UUID

	for code, link := range m.byCode {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(now) {
			removed = append(removed, link.ID)
			delete(m.byCode, code)
		}
	}

	return removed, nil
}

func (m *MemoryLinkStore) DeleteUnused(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []uuid.UUID

	for code, link := range m.byCode {
		if link.LastAccessedAt == nil || link.LastAccessedAt.Before(cutoff) {
			removed = append(removed, link.ID)
			delete(m.byCode, code)
		}
	}

	return removed, nil
}

// Len reports the number of stored links.
func (m *MemoryLinkStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byCode)
}

// Compile-time check.
var _ links.Store = (*MemoryLinkStore)(nil)
