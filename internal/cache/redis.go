package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect parses a redis:// URL and pings the server, retrying with
// exponential backoff. Compose only orders startup, it does not wait for
// Redis to be ready, so the first connection may race the broker coming up.
func Connect(ctx context.Context, url string, logger *zap.SugaredLogger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	backoff := 250 * time.Millisecond
	const maxAttempts = 6
	for attempt := 1; ; attempt++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		if attempt == maxAttempts {
			client.Close()
			return nil, fmt.Errorf("redis unreachable after %d attempts: %w", maxAttempts, err)
		}
		logger.Warnw("redis not ready, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
