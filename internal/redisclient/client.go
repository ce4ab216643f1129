package redisclient

import (
	"context"
	"fmt"
	"time"

	"news-herald/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks connectivity and returns the round-trip time.
func Ping(ctx context.Context, c *redis.Client) (time.Duration, error) {
	start := time.Now()
	if err := c.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("redis ping %s: %w", c.Options().Addr, err)
	}
	return time.Since(start), nil
}
