package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/store"
)

func newTestBoard(t *testing.T) (*Leaderboard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Migrate(context.Background())
	require.NoError(t, err)

	return &Leaderboard{RDB: rdb, Store: s, TTL: 30 * time.Second, Size: 10, Logger: zap.NewNop().Sugar()}, mr
}

func seedPlayer(t *testing.T, s *store.Store, username string, xp int) {
	t.Helper()
	u := &store.User{Username: username, Email: username + "@example.com", PasswordHash: "h", XP: xp}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NoError(t, s.SaveUserProgress(context.Background(), u))
}

func TestTopFillsCacheOnMiss(t *testing.T) {
	b, mr := newTestBoard(t)
	ctx := context.Background()

	seedPlayer(t, b.Store, "first", 500)
	seedPlayer(t, b.Store, "second", 200)

	entries, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "first", entries[0].Username)
	require.True(t, mr.Exists("wordguess:leaderboard"), "miss populates the cache")
}

func TestTopServesFromCache(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	seedPlayer(t, b.Store, "first", 500)
	_, err := b.Top(ctx)
	require.NoError(t, err)

	// new XP is invisible until the cache expires or is invalidated
	seedPlayer(t, b.Store, "usurper", 900)
	entries, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "first", entries[0].Username)

	b.Invalidate(ctx)
	entries, err = b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "usurper", entries[0].Username)
}

func TestConnectRetriesUntilReady(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), "redis://"+mr.Addr(), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url", zap.NewNop().Sugar())
	require.Error(t, err)
}
