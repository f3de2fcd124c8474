package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/cache/redis"
	"github.com/davidbz/atelier/internal/domain"
)

func newStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := redis.New(client, "atelier:test:", time.Hour, nil)
	require.NoError(t, err)
	return store, mr
}

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()

	t.Run("should round trip a result", func(t *testing.T) {
		store, _ := newStore(t)

		result := &domain.GenerationResult{
			ID:           "gen-1",
			Status:       domain.StatusCompleted,
			OutputRef:    "https://img.example/1.png",
			Parameters:   domain.Parameters{Lighting: "studio"},
			QualityScore: 0.75,
		}
		require.NoError(t, store.Put(ctx, "fp-1", result))

		entry, err := store.Get(ctx, "fp-1")
		require.NoError(t, err)
		require.True(t, entry.IsSome())

		cached := entry.UnwrapOr(domain.CachedResult{})
		require.Equal(t, "gen-1", cached.Result.ID)
		require.Equal(t, "studio", cached.Result.Parameters.Lighting)
		require.InDelta(t, 0.75, cached.Result.QualityScore, 0.0001)
	})

	t.Run("should expire after ttl", func(t *testing.T) {
		store, mr := newStore(t)
		require.NoError(t, store.Put(ctx, "fp-1", &domain.GenerationResult{ID: "gen-1"}))

		mr.FastForward(time.Hour + time.Second)

		entry, err := store.Get(ctx, "fp-1")
		require.NoError(t, err)
		require.True(t, entry.IsNone())
	})

	t.Run("should evict corrupt entries", func(t *testing.T) {
		store, mr := newStore(t)
		require.NoError(t, mr.Set("atelier:test:entry:bad", "{not json"))

		entry, err := store.Get(ctx, "bad")
		require.NoError(t, err)
		require.True(t, entry.IsNone())
		require.False(t, mr.Exists("atelier:test:entry:bad"))
	})

	t.Run("should surface connection errors", func(t *testing.T) {
		store, mr := newStore(t)
		mr.Close()

		_, err := store.Get(ctx, "fp-1")
		require.Error(t, err)
	})
}

func TestStore_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.Put(ctx, "a", &domain.GenerationResult{ID: "a"}))
	require.NoError(t, store.Put(ctx, "b", &domain.GenerationResult{ID: "b"}))
	require.NoError(t, mr.Set("other:key", "untouched"))

	_, err := store.Get(ctx, "a")
	require.NoError(t, err)
	_, err = store.Get(ctx, "missing")
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.HitCount)
	require.Equal(t, int64(1), stats.MissCount)
	require.Equal(t, int64(2), stats.ValidEntries)
	require.Zero(t, stats.ExpiredEntries)
	require.InDelta(t, 1.0, stats.TTLHours, 0.0001)

	cleared, err := store.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, cleared)
	require.True(t, mr.Exists("other:key"))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.ValidEntries)
}
