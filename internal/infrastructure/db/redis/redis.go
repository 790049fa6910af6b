// Package redis keeps the gateway session in Redis for deployments where the
// gateway runs in a container without a durable local disk. The whole session
// of one namespace lives in a single hash, so a login or logout is one round
// trip and `redis-cli HGETALL session:<namespace>` shows exactly what a
// restart will restore.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the Redis instance holding the session.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Connect returns a client for the session store. It fails fast when the
// server does not answer a ping, so a misconfigured REDIS_ADDR stops the
// gateway at startup instead of silently dropping every session write.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
