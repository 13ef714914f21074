// Package resolver turns short codes into destination URLs by consulting a
// priority-ordered list of backing sources, fronted by a read-through cache.
package resolver

import (
	"context"
	"errors"

	"github.com/snaplinkhq/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// Source resolves a short code against one backing store. Implementations
// return shortener.ErrNotFound when the code is not theirs.
type Source interface {
	Name() string
	ResolveCode(ctx context.Context, code string) (string, error)
}

// Resolver maps a short code to a destination URL. The returned URL is
// always usable: when no source matches, it is the configured fallback and
// found is false.
type Resolver interface {
	Resolve(ctx context.Context, code string) (url string, found bool)
}

type sourceFunc struct {
	name string
	fn   func(ctx context.Context, code string) (string, error)
}

func (s *sourceFunc) Name() string { return s.name }

func (s *sourceFunc) ResolveCode(ctx context.Context, code string) (string, error) {
	return s.fn(ctx, code)
}

// NewSource wraps a lookup function as a Source.
func NewSource(name string, fn func(ctx context.Context, code string) (string, error)) Source {
	return &sourceFunc{name: name, fn: fn}
}

// Chain queries sources in order and short-circuits on the first match.
// Adding a fourth source is a matter of appending to the list.
type Chain struct {
	sources  []Source
	fallback string
	logger   *zap.Logger
}

// NewChain creates a resolver chain. Source order is the lookup priority.
func NewChain(sources []Source, fallback string, logger *zap.Logger) *Chain {
	return &Chain{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *Chain) Resolve(ctx context.Context, code string) (string, bool) {
	for _, source := range c.sources {
		url, err := source.ResolveCode(ctx, code)
		if err == nil {
			return url, true
		}

		if !errors.Is(err, shortener.ErrNotFound) {
			// A failing source must not 404 the redirect; fall through to
			// the remaining sources and ultimately the fallback URL.
			c.logger.Error("source lookup failed",
				zap.String("source", source.Name()),
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}

	return c.fallback, false
}

var _ Resolver = (*Chain)(nil)
