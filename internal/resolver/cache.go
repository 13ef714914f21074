package resolver

import (
	"context"

	"go.uber.org/zap"
)

// Cache stores resolved code -> destination URL mappings with a TTL.
type Cache interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, url string) error
}

// Cached is a read-through decorator: the cache is consulted before the
// inner resolver and populated after a miss. Only resolved destinations are
// cached, never the fallback, so an unknown code keeps hitting the chain
// until someone registers it. Cache errors degrade to a chain lookup.
type Cached struct {
	inner  Resolver
	cache  Cache
	logger *zap.Logger
}

// NewCached wraps a resolver with a read-through cache.
func NewCached(inner Resolver, cache Cache, logger *zap.Logger) *Cached {
	return &Cached{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

func (c *Cached) Resolve(ctx context.Context, code string) (string, bool) {
	if url, err := c.cache.Get(ctx, code); err == nil {
		return url, true
	}

	url, found := c.inner.Resolve(ctx, code)
	if found {
		if err := c.cache.Set(ctx, code, url); err != nil {
			c.logger.Warn("failed to populate redirect cache",
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}

	return url, found
}

var _ Resolver = (*Cached)(nil)
