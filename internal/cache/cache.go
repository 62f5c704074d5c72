package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "coupon-finder:reader:"

// TextCache stores raw proxy responses keyed by URL.
type TextCache interface {
	Get(ctx context.Context, url string) (string, bool)
	Set(ctx context.Context, url, text string)
}

// RedisClient is the subset of *redis.Client the cache needs (for testing).
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCache keeps proxy responses for a fixed TTL. Errors are logged and
// treated as misses so a broken cache never fails a search.
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client RedisClient, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, url string) (string, bool) {
	text, err := c.client.Get(ctx, keyPrefix+url).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "url", url, "error", err)
		}
		return "", false
	}
	return text, true
}

func (c *RedisCache) Set(ctx context.Context, url, text string) {
	if text == "" {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+url, text, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "url", url, "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Nop is used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool) { return "", false }
func (Nop) Set(context.Context, string, string)        {}
