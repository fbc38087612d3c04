// Package database provides connection setup for Redis, which holds form
// instance view state when more than one server process shares traffic.
// The client is created once at startup and shared via dependency injection.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/authpage/internal/config"
)

// maxPingAttempts bounds the startup wait for Redis.
const maxPingAttempts = 5

// NewRedis creates a new Redis client from the given config. It parses the
// URL, connects, and pings with exponential backoff so a Redis container that
// is still starting doesn't crash-loop the server.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	backoff := 500 * time.Millisecond
	var pingErr error
	for attempt := 1; attempt <= maxPingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr = client.Ping(ctx).Err()
		cancel()

		if pingErr == nil {
			return client, nil
		}
		if attempt == maxPingAttempts {
			break
		}

		slog.Warn("redis not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxPingAttempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, 5*time.Second)
	}

	client.Close()
	return nil, fmt.Errorf("pinging redis after %d attempts: %w", maxPingAttempts, pingErr)
}
