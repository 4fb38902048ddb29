package links_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/links"
)

var errMock = errors.New("mock store error")

// fakeStore is a map-backed links.Store with injectable failures, used to
// drive the service through its error and conflict paths.
type fakeStore struct {
	mu     sync.Mutex
	byCode map[string]*links.Link

	insertCalls     int
	insertConflicts int // fail this many Inserts with ErrCodeTaken first
	insertErr       error
	getErr          error
	updateErr       error
	clickErr        error
	deleteErr       error
	findErr         error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byCode: make(map[string]*links.Link)}
}

func (f *fakeStore) Insert(_ context.Context, link *links.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.insertCalls++

	if f.insertErr != nil {
		return f.insertErr
	}

	if f.insertConflicts > 0 {
		f.insertConflicts--

		return links.ErrCodeTaken
	}

	if _, exists := f.byCode[link.Code]; exists {
		return links.ErrCodeTaken
	}

	stored := *link
	f.byCode[link.Code] = &stored

	return nil
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*links.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	link, ok := f.byCode[code]
	if !ok {
		return nil, links.ErrNotFound
	}

	found := *link

	return &found, nil
}

func (f *fakeStore) FindByTarget(_ context.Context, target string) ([]*links.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}

	var found []*links.Link

	for _, link := range f.byCode {
		if link.TargetURL == target {
			matched := *link
			found = append(found, &matched)
		}
	}

	return found, nil
}

func (f *fakeStore) UpdateTarget(_ context.Context, code, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	link, ok := f.byCode[code]
	if !ok {
		return links.ErrNotFound
	}

	link.TargetURL = target

	return nil
}

func (f *fakeStore) RecordClick(_ context.Context, code string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clickErr != nil {
		return f.clickErr
	}

	link, ok := f.byCode[code]
	if !ok {
		return links.ErrNotFound
	}

	link.ClickCount++
	accessed := at
	link.LastAccessedAt = &accessed

	return nil
}

func (f *fakeStore) Delete(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}

	delete(f.byCode, code)

	return nil
}

func (f *fakeStore) DeleteExpired(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed []uuid.UUID

	for code, link := range f.byCode {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(now) {
			removed = append(removed, link.ID)
			delete(f.byCode, code)
		}
	}

	return removed, nil
}

func (f *fakeStore) DeleteUnused(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed []uuid.UUID

	for code, link := range f.byCode {
		if link.LastAccessedAt == nil || link.LastAccessedAt.Before(cutoff) {
			removed = append(removed, link.ID)
			delete(f.byCode, code)
		}
	}

	return removed, nil
}

// get returns the stored link without copying, for direct assertions.
func (f *fakeStore) get(code string) *links.Link {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.byCode[code]
}

// Compile-time check.
var _ links.Store = (*fakeStore)(nil)
