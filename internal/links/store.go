package links

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store abstracts durable link storage. The store owns the uniqueness
// constraint on code: Insert must fail with ErrCodeTaken when the code is
// already present, and that failure is the single source of truth for
// conflict detection.
type Store interface {
	// Insert persists a new link. Returns ErrCodeTaken if the code exists.
	Insert(ctx context.Context, link *Link) error

	// GetByCode returns the link for a code, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (*Link, error)

	// FindByTarget returns every link whose target URL equals target
	// exactly. An empty result is not an error.
	FindByTarget(ctx context.Context, target string) ([]*Link, error)

	// UpdateTarget replaces the target URL of the link with the given
	// code. Returns ErrNotFound if the link is gone.
	UpdateTarget(ctx context.Context, code, target string) error

	// RecordClick atomically increments the click counter and sets the
	// last-accessed timestamp.
	RecordClick(ctx context.Context, code string, at time.Time) error

	// Delete removes the link with the given code.
	Delete(ctx context.Context, code string) error

	// DeleteExpired removes every link whose expiry is set and strictly
	// before now, returning the IDs removed.
	DeleteExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// DeleteUnused removes every link never accessed or last accessed
	// before cutoff, returning the IDs removed.
	DeleteUnused(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}
