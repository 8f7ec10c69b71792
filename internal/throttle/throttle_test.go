package throttle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &Limiter{RDB: rdb, Logger: zap.NewNop().Sugar()}, mr
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()
	rate := Rate{Name: "test", Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, rate, "u1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.Allow(ctx, rate, "u1")
	require.NoError(t, err)
	require.False(t, ok, "fourth request exceeds the limit")

	// a different key has its own bucket
	ok, err = l.Allow(ctx, rate, "u2")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWindowExpiry(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()
	rate := Rate{Name: "test", Limit: 1, Window: time.Minute}

	ok, err := l.Allow(ctx, rate, "u1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, rate, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, rate, "u1")
	require.NoError(t, err)
	require.True(t, ok, "a new window opens after expiry")
}

func TestCounterAlwaysExpires(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()
	rate := Rate{Name: "test", Limit: 5, Window: time.Minute}

	_, err := l.Allow(ctx, rate, "u1")
	require.NoError(t, err)
	key := "wordguess:throttle:test:u1"
	require.Greater(t, mr.TTL(key), time.Duration(0), "first hit attaches the window TTL")

	// a leftover counter without a TTL picks one up instead of throttling
	// its bucket forever
	mr.Set("wordguess:throttle:test:u2", "3")
	_, err = l.Allow(ctx, rate, "u2")
	require.NoError(t, err)
	require.Greater(t, mr.TTL("wordguess:throttle:test:u2"), time.Duration(0))
}

func TestMiddlewareThrottles(t *testing.T) {
	l, _ := newTestLimiter(t)
	rate := Rate{Name: "mw", Limit: 2, Window: time.Minute}

	h := l.Middleware(rate)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	l, mr := newTestLimiter(t)
	mr.Close()

	h := l.Middleware(UserDefault)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code, "redis outage must not reject requests")
}
