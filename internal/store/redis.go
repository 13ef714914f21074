package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snaplinkhq/snaplink/internal/shortener"
)

const redirectKeyPrefix = "redirect:"

// RedirectCache stores resolved destination URLs in Redis as plain strings
// under a per-code key. Entries expire on their own; edits do not evict, so
// a changed destination can serve stale for up to the TTL.
type RedirectCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedirectCache creates a redirect cache with the given entry TTL.
func NewRedirectCache(client *redis.Client, ttl time.Duration) *RedirectCache {
	return &RedirectCache{client: client, ttl: ttl}
}

func (c *RedirectCache) Get(ctx context.Context, code string) (string, error) {
	url, err := c.client.Get(ctx, redirectKeyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

func (c *RedirectCache) Set(ctx context.Context, code, url string) error {
	return c.client.Set(ctx, redirectKeyPrefix+code, url, c.ttl).Err()
}
