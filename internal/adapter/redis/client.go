// Package redis persists collector sessions in Redis.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DinuthRashmika/waste-collector/internal/platform/retry"
)

// NewClient connects to the Redis server at redisURL (e.g. "redis://localhost:6379")
// and waits until it answers a PING. Hooks are installed before the first command.
func NewClient(ctx context.Context, redisURL string, hooks ...goredis.Hook) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	for _, hook := range hooks {
		rdb.AddHook(hook)
	}

	policy := retry.StartupPolicy()
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "Redis not reachable, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	}

	err = retry.DoVoid(ctx, policy, retry.UnlessCanceled, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.InfoContext(ctx, "Connected to Redis", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}
