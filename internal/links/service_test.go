package links_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/analytics"
	"github.com/serroba/shortlink-service/internal/cache"
	"github.com/serroba/shortlink-service/internal/links"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(store links.Store) *links.Service {
	return links.NewService(store, cache.NewMemoryCache(), analytics.NopPublishers(), 0, zap.NewNop())
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a code for an anonymous link", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/page"})
		require.NoError(t, err)

		assert.Len(t, link.Code, 10)
		assert.Equal(t, "https://example.com/page", link.TargetURL)
		assert.Nil(t, link.OwnerID)
		assert.Equal(t, int64(0), link.ClickCount)
	})

	t.Run("anonymous links expire a day after creation", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		before := time.Now()
		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		require.NotNil(t, link.ExpiresAt)
		assert.WithinDuration(t, before.Add(24*time.Hour), *link.ExpiresAt, 5*time.Second)
	})

	t.Run("owned links get no default expiry", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		assert.Nil(t, link.ExpiresAt)
		require.NotNil(t, link.OwnerID)
		assert.Equal(t, owner, *link.OwnerID)
	})

	t.Run("an explicit expiry is kept as given", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		expires := time.Now().Add(time.Hour).UTC()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			ExpiresAt: &expires,
		})
		require.NoError(t, err)

		require.NotNil(t, link.ExpiresAt)
		assert.True(t, link.ExpiresAt.Equal(expires))
	})

	t.Run("rejects invalid target URLs", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		for _, target := range []string{"", "not a url", "ftp://example.com", "https://", "example.com/path"} {
			_, err := svc.Create(ctx, links.CreateParams{TargetURL: target})
			assert.ErrorIs(t, err, links.ErrInvalidURL, "target %q", target)
		}

		assert.Equal(t, 0, store.insertCalls)
	})

	t.Run("accepts a valid custom alias", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL:   "https://example.com",
			CustomAlias: "myLink42",
		})
		require.NoError(t, err)

		assert.Equal(t, "myLink42", link.Code)
	})

	t.Run("rejects aliases outside the code alphabet", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		for _, alias := range []string{"my-link", "my link", "héllo", "a/b", "under_score"} {
			_, err := svc.Create(ctx, links.CreateParams{
				TargetURL:   "https://example.com",
				CustomAlias: alias,
			})
			assert.ErrorIs(t, err, links.ErrInvalidAlias, "alias %q", alias)
		}
	})

	t.Run("rejects the reserved alias", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.Create(ctx, links.CreateParams{
			TargetURL:   "https://example.com",
			CustomAlias: "search",
		})
		assert.ErrorIs(t, err, links.ErrAliasReserved)
	})

	t.Run("rejects an alias already in use", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.Create(ctx, links.CreateParams{
			TargetURL:   "https://first.example.com",
			CustomAlias: "taken",
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, links.CreateParams{
			TargetURL:   "https://second.example.com",
			CustomAlias: "taken",
		})
		assert.ErrorIs(t, err, links.ErrAliasTaken)
	})

	t.Run("retries code generation on insert conflicts", func(t *testing.T) {
		store := newFakeStore()
		store.insertConflicts = 2
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		assert.Len(t, link.Code, 10)
		assert.Equal(t, 3, store.insertCalls)
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		store := newFakeStore()
		store.insertErr = errMock
		svc := newTestService(store)

		_, err := svc.Create(ctx, links.CreateParams{
			TargetURL:   "https://example.com",
			CustomAlias: "broken",
		})
		assert.ErrorIs(t, err, errMock)
	})
}

func TestServiceRedirect(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the target and records the click", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/article"})
		require.NoError(t, err)

		target, err := svc.Redirect(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/article", target)

		stored := store.get(link.Code)
		require.NotNil(t, stored)
		assert.Equal(t, int64(1), stored.ClickCount)
		assert.NotNil(t, stored.LastAccessedAt)
	})

	t.Run("cache hits skip click tracking", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			target, err := svc.Redirect(ctx, link.Code)
			require.NoError(t, err)
			assert.Equal(t, "https://example.com", target)
		}

		// Only the first redirect reaches the store within the cache TTL.
		assert.Equal(t, int64(1), store.get(link.Code).ClickCount)
	})

	t.Run("unknown codes are not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.Redirect(ctx, "missing")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("refreshes the stats projection", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.ClickCount)

		_, err = svc.Redirect(ctx, link.Code)
		require.NoError(t, err)

		stats, err = svc.Stats(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.ClickCount)
		assert.NotNil(t, stats.LastAccessedAt)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can change the target", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://old.example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, link.Code, "https://new.example.com", owner)
		require.NoError(t, err)
		assert.Equal(t, "https://new.example.com", updated.TargetURL)
		assert.Equal(t, "https://new.example.com", store.get(link.Code).TargetURL)
	})

	t.Run("non-owner is forbidden and the target is untouched", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, link.Code, "https://evil.example.com", uuid.New())
		assert.ErrorIs(t, err, links.ErrForbidden)
		assert.Equal(t, "https://example.com", store.get(link.Code).TargetURL)
	})

	t.Run("anonymous links reject every update", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, link.Code, "https://new.example.com", uuid.New())
		assert.ErrorIs(t, err, links.ErrForbidden)
	})

	t.Run("redirects serve the new target after an update", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://old.example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		// Warm the redirect cache, then update. The stale entry must not
		// outlive the mutation.
		_, err = svc.Redirect(ctx, link.Code)
		require.NoError(t, err)

		_, err = svc.Update(ctx, link.Code, "https://new.example.com", owner)
		require.NoError(t, err)

		target, err := svc.Redirect(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, "https://new.example.com", target)
	})

	t.Run("search finds the link under its new target", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://old.example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		// Warm both search entries so the update has stale state to clear.
		_, err = svc.Search(ctx, "https://old.example.com")
		require.NoError(t, err)

		_, err = svc.Update(ctx, link.Code, "https://new.example.com", owner)
		require.NoError(t, err)

		_, err = svc.Search(ctx, "https://old.example.com")
		assert.ErrorIs(t, err, links.ErrNotFound)

		results, err := svc.Search(ctx, "https://new.example.com")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, link.Code, results[0].Code)
	})

	t.Run("validates the new target before touching the store", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, link.Code, "not a url", owner)
		assert.ErrorIs(t, err, links.ErrInvalidURL)
	})

	t.Run("unknown codes are not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.Update(ctx, "missing", "https://example.com", uuid.New())
		assert.ErrorIs(t, err, links.ErrNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete and the code stops resolving", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, link.Code, owner))

		_, err = svc.Redirect(ctx, link.Code)
		assert.ErrorIs(t, err, links.ErrNotFound)

		_, err = svc.Stats(ctx, link.Code)
		assert.ErrorIs(t, err, links.ErrNotFound)

		_, err = svc.Search(ctx, "https://example.com")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		owner := uuid.New()

		link, err := svc.Create(ctx, links.CreateParams{
			TargetURL: "https://example.com",
			OwnerID:   &owner,
		})
		require.NoError(t, err)

		err = svc.Delete(ctx, link.Code, uuid.New())
		assert.ErrorIs(t, err, links.ErrForbidden)
		assert.NotNil(t, store.get(link.Code))
	})

	t.Run("anonymous links reject deletion", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		err = svc.Delete(ctx, link.Code, uuid.New())
		assert.ErrorIs(t, err, links.ErrForbidden)
	})

	t.Run("unknown codes are not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		err := svc.Delete(ctx, "missing", uuid.New())
		assert.ErrorIs(t, err, links.ErrNotFound)
	})
}

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every link with the exact target", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		first, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/doc"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/doc"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/other"})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "https://example.com/doc")
		require.NoError(t, err)
		require.Len(t, results, 2)

		codes := []string{results[0].Code, results[1].Code}
		assert.ElementsMatch(t, []string{first.Code, second.Code}, codes)
	})

	t.Run("matching is exact and case-sensitive", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com/Doc"})
		require.NoError(t, err)

		_, err = svc.Search(ctx, "https://example.com/doc")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("no matches is not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.Search(ctx, "https://nowhere.example.com")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("results are served from cache until invalidated", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		_, err = svc.Search(ctx, "https://example.com")
		require.NoError(t, err)

		// Mutate the store behind the cache: the cached result set is
		// served as-is until something invalidates it.
		require.NoError(t, store.Delete(ctx, link.Code))

		results, err := svc.Search(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("creating a link invalidates the cached result set", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "https://example.com")
		require.NoError(t, err)
		require.Len(t, results, 1)

		_, err = svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		results, err = svc.Search(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()

	t.Run("exposes the full projection", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		link, err := svc.Create(ctx, links.CreateParams{TargetURL: "https://example.com"})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, link.Code)
		require.NoError(t, err)

		assert.Equal(t, link.Code, stats.Code)
		assert.Equal(t, "https://example.com", stats.TargetURL)
		assert.Equal(t, int64(0), stats.ClickCount)
		assert.Nil(t, stats.LastAccessedAt)
		assert.NotNil(t, stats.ExpiresAt)
	})

	t.Run("unknown codes are not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.Stats(ctx, "missing")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})
}
