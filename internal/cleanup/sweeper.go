// Package cleanup holds the two periodic jobs that reclaim expired and
// unused links, and the interval scheduler that drives them.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/analytics"
	"github.com/serroba/shortlink-service/internal/links"
	"github.com/serroba/shortlink-service/internal/messaging"
	"github.com/serroba/shortlink-service/internal/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultInactivity is the unused-link threshold.
	DefaultInactivity = 30 * 24 * time.Hour

	// ExpiredInterval is how often the expired-by-deadline job runs.
	ExpiredInterval = 5 * time.Minute

	// UnusedInterval is how often the unused-by-inactivity job runs.
	UnusedInterval = 12 * time.Hour
)

// Sweeper runs the bulk deletion jobs against the store. Both jobs are
// idempotent and stateless; neither touches the cache, so redirect
// staleness after a sweep is bounded by each entry's TTL.
type Sweeper struct {
	store         links.Store
	inactivity    time.Duration
	publishDelete messaging.Publish[analytics.LinkDeletedEvent]
	logger        *zap.Logger
	nowFunc       func() time.Time
}

// NewSweeper creates a sweeper. A non-positive inactivity threshold
// falls back to DefaultInactivity.
func NewSweeper(
	store links.Store,
	inactivity time.Duration,
	publishDelete messaging.Publish[analytics.LinkDeletedEvent],
	logger *zap.Logger,
) *Sweeper {
	if inactivity <= 0 {
		inactivity = DefaultInactivity
	}

	return &Sweeper{
		store:         store,
		inactivity:    inactivity,
		publishDelete: publishDelete,
		logger:        logger,
		nowFunc:       time.Now,
	}
}

// DeleteExpired removes every link whose expiry is strictly in the past
// and reports how many were removed.
func (s *Sweeper) DeleteExpired(ctx context.Context) (int, error) {
	now := s.nowFunc()

	removed, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired links: %w", err)
	}

	s.report(ctx, "expired", removed, now)

	return len(removed), nil
}

// DeleteUnused removes every link never accessed or last accessed before
// the inactivity threshold, regardless of expiry.
func (s *Sweeper) DeleteUnused(ctx context.Context) (int, error) {
	now := s.nowFunc()

	removed, err := s.store.DeleteUnused(ctx, now.Add(-s.inactivity))
	if err != nil {
		return 0, fmt.Errorf("delete unused links: %w", err)
	}

	s.report(ctx, "unused", removed, now)

	return len(removed), nil
}

func (s *Sweeper) report(_ context.Context, job string, removed []uuid.UUID, at time.Time) {
	s.logger.Info("cleanup finished",
		zap.String("job", job),
		zap.Int("deleted", len(removed)),
	)

	metrics.LinksSwept(job, len(removed))

	if len(removed) == 0 {
		return
	}

	event := &analytics.LinkDeletedEvent{
		Reason:    job,
		Count:     len(removed),
		DeletedAt: at,
	}
	if err := s.publishDelete(event); err != nil {
		s.logger.Error("failed to publish link deleted event",
			zap.String("job", job),
			zap.Error(err),
		)
	}
}
