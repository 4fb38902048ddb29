package cleanup_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/analytics"
	"github.com/serroba/shortlink-service/internal/cleanup"
	"github.com/serroba/shortlink-service/internal/links"
	"github.com/serroba/shortlink-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type deleteRecorder struct {
	mu     sync.Mutex
	events []*analytics.LinkDeletedEvent
}

func (r *deleteRecorder) publish(event *analytics.LinkDeletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

func insertLink(t *testing.T, s *store.MemoryLinkStore, code string, expiresAt, lastAccessedAt *time.Time) {
	t.Helper()

	err := s.Insert(context.Background(), &links.Link{
		ID:             uuid.New(),
		Code:           code,
		TargetURL:      "https://example.com/" + code,
		CreatedAt:      time.Now(),
		ExpiresAt:      expiresAt,
		LastAccessedAt: lastAccessedAt,
	})
	require.NoError(t, err)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestSweeperDeleteExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("removes past-deadline links and keeps the rest", func(t *testing.T) {
		linkStore := store.NewMemoryLinkStore()
		recorder := &deleteRecorder{}
		sweeper := cleanup.NewSweeper(linkStore, 0, recorder.publish, zap.NewNop())

		now := time.Now()
		insertLink(t, linkStore, "gone", timePtr(now.Add(-time.Second)), nil)
		insertLink(t, linkStore, "alive", timePtr(now.Add(24*time.Hour)), nil)
		insertLink(t, linkStore, "forever", nil, nil)

		deleted, err := sweeper.DeleteExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, deleted)
		assert.Equal(t, 2, linkStore.Len())

		_, err = linkStore.GetByCode(ctx, "gone")
		assert.ErrorIs(t, err, links.ErrNotFound)

		_, err = linkStore.GetByCode(ctx, "alive")
		assert.NoError(t, err)
	})

	t.Run("a second run deletes nothing", func(t *testing.T) {
		linkStore := store.NewMemoryLinkStore()
		recorder := &deleteRecorder{}
		sweeper := cleanup.NewSweeper(linkStore, 0, recorder.publish, zap.NewNop())

		insertLink(t, linkStore, "gone", timePtr(time.Now().Add(-time.Minute)), nil)

		deleted, err := sweeper.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		deleted, err = sweeper.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, deleted)
	})

	t.Run("publishes one event per non-empty sweep", func(t *testing.T) {
		linkStore := store.NewMemoryLinkStore()
		recorder := &deleteRecorder{}
		sweeper := cleanup.NewSweeper(linkStore, 0, recorder.publish, zap.NewNop())

		insertLink(t, linkStore, "one", timePtr(time.Now().Add(-time.Minute)), nil)
		insertLink(t, linkStore, "two", timePtr(time.Now().Add(-time.Minute)), nil)

		_, err := sweeper.DeleteExpired(ctx)
		require.NoError(t, err)

		require.Len(t, recorder.events, 1)
		assert.Equal(t, "expired", recorder.events[0].Reason)
		assert.Equal(t, 2, recorder.events[0].Count)

		// An empty sweep publishes nothing.
		_, err = sweeper.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Len(t, recorder.events, 1)
	})
}

func TestSweeperDeleteUnused(t *testing.T) {
	ctx := context.Background()

	t.Run("removes stale and never-accessed links", func(t *testing.T) {
		linkStore := store.NewMemoryLinkStore()
		recorder := &deleteRecorder{}
		sweeper := cleanup.NewSweeper(linkStore, 30*24*time.Hour, recorder.publish, zap.NewNop())

		now := time.Now()
		insertLink(t, linkStore, "stale", nil, timePtr(now.Add(-31*24*time.Hour)))
		insertLink(t, linkStore, "never", nil, nil)
		insertLink(t, linkStore, "recent", nil, timePtr(now.Add(-time.Hour)))

		deleted, err := sweeper.DeleteUnused(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, deleted)

		_, err = linkStore.GetByCode(ctx, "recent")
		assert.NoError(t, err)

		_, err = linkStore.GetByCode(ctx, "stale")
		assert.ErrorIs(t, err, links.ErrNotFound)

		_, err = linkStore.GetByCode(ctx, "never")
		assert.ErrorIs(t, err, links.ErrNotFound)

		require.Len(t, recorder.events, 1)
		assert.Equal(t, "unused", recorder.events[0].Reason)
	})

	t.Run("unexpired links are still swept when inactive", func(t *testing.T) {
		linkStore := store.NewMemoryLinkStore()
		recorder := &deleteRecorder{}
		sweeper := cleanup.NewSweeper(linkStore, 30*24*time.Hour, recorder.publish, zap.NewNop())

		farFuture := time.Now().Add(365 * 24 * time.Hour)
		insertLink(t, linkStore, "idle", timePtr(farFuture), timePtr(time.Now().Add(-60*24*time.Hour)))

		deleted, err := sweeper.DeleteUnused(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)
	})
}

func TestScheduler(t *testing.T) {
	t.Run("runs jobs on their interval until shutdown", func(t *testing.T) {
		var runs atomic.Int64

		scheduler := cleanup.NewScheduler(zap.NewNop(), cleanup.Job{
			Name:     "count",
			Interval: 10 * time.Millisecond,
			Run: func(context.Context) (int, error) {
				runs.Add(1)

				return 0, nil
			},
		})

		require.NoError(t, scheduler.Start(context.Background()))

		assert.Eventually(t, func() bool {
			return runs.Load() >= 2
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, scheduler.Shutdown())

		after := runs.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, after, runs.Load())
	})
}
