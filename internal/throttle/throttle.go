package throttle

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/auth"
)

// Rates mirror the API throttle policy: per-user buckets for authenticated
// traffic, per-IP for anonymous.
var (
	GameAction  = Rate{Name: "game_action", Limit: 10, Window: time.Minute}
	GameCreate  = Rate{Name: "game_create", Limit: 5, Window: time.Hour}
	UserDefault = Rate{Name: "user", Limit: 60, Window: time.Minute}
	Anon        = Rate{Name: "anon", Limit: 30, Window: time.Minute}
)

type Rate struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Limiter implements fixed-window counters in Redis.
type Limiter struct {
	RDB    *redis.Client
	Logger *zap.SugaredLogger
}

// Allow increments the counter for key within rate's window and reports
// whether the request fits the limit. INCR and the expiry run in one
// pipeline, and ExpireNX attaches a TTL to any counter missing one, so a
// bucket can never get stuck without an expiry. The window never slides.
func (l *Limiter) Allow(ctx context.Context, rate Rate, key string) (bool, error) {
	rkey := fmt.Sprintf("wordguess:throttle:%s:%s", rate.Name, key)
	pipe := l.RDB.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	pipe.ExpireNX(ctx, rkey, rate.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(rate.Limit), nil
}

// Middleware applies rate to each request, keying by user ID when
// authenticated and by remote address otherwise. Redis errors fail open:
// a cache outage must not take the API down with it.
func (l *Limiter) Middleware(rate Rate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if claims, ok := auth.FromContext(r.Context()); ok {
				key = strconv.FormatInt(claims.UserID, 10)
			}
			ok, err := l.Allow(r.Context(), rate, key)
			if err != nil {
				l.Logger.Warnw("throttle check failed", "rate", rate.Name, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(rate.Window.Seconds())))
				http.Error(w, `{"error":"request was throttled"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
