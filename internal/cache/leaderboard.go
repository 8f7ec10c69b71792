package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/store"
)

const leaderboardKey = "wordguess:leaderboard"

// Leaderboard serves the top-players list from Redis, falling back to the
// database and repopulating the cache on a miss. A cache outage degrades to
// plain database reads.
type Leaderboard struct {
	RDB    *redis.Client
	Store  *store.Store
	TTL    time.Duration
	Size   int
	Logger *zap.SugaredLogger
}

func (l *Leaderboard) Top(ctx context.Context) ([]store.LeaderboardEntry, error) {
	if raw, err := l.RDB.Get(ctx, leaderboardKey).Bytes(); err == nil {
		var entries []store.LeaderboardEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	} else if err != redis.Nil {
		l.Logger.Warnw("leaderboard cache read failed", "error", err)
	}

	size := l.Size
	if size <= 0 {
		size = 10
	}
	entries, err := l.Store.TopUsersByXP(ctx, size)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(entries); err == nil {
		if err := l.RDB.Set(ctx, leaderboardKey, raw, l.TTL).Err(); err != nil {
			l.Logger.Warnw("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

// Invalidate drops the cached list; called after reward distribution.
func (l *Leaderboard) Invalidate(ctx context.Context) {
	if err := l.RDB.Del(ctx, leaderboardKey).Err(); err != nil && err != redis.Nil {
		l.Logger.Warnw("leaderboard cache invalidate failed", "error", err)
	}
}
