package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/snaplinkhq/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// Owner identifies the entity a short code belongs to. LinkedQRID is set
// when a short link has an attached QR record sharing its code; a click on
// the link then counts against both.
type Owner struct {
	Kind       shortener.EntityKind
	ID         string
	LinkedQRID string
}

// Store is the write-side persistence the recorder needs. Each call is an
// independent atomic operation; IncrementDailyCounter in particular must be
// an insert-or-increment that cannot create duplicate (entity, day) rows
// under concurrency.
type Store interface {
	FindOwner(ctx context.Context, shortCode string) (*Owner, error)
	IncrementDailyCounter(ctx context.Context, kind shortener.EntityKind, entityID string, day time.Time) error
	InsertLocation(ctx context.Context, kind shortener.EntityKind, entityID string, event *ClickEvent) error
	IncrementLifetimeClicks(ctx context.Context, kind shortener.EntityKind, entityID string) error
}

// Recorder persists click events. It runs on the worker, decoupled from the
// redirect response, so failures here are retried and then dropped rather
// than surfaced to any HTTP caller.
type Recorder struct {
	store    Store
	attempts int
	delay    time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// RecorderOption customizes a Recorder.
type RecorderOption func(*Recorder)

// WithRetry overrides the attempt count and the delay between attempts.
func WithRetry(attempts int, delay time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.attempts = attempts
		r.delay = delay
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder creates a recorder with the default 3 attempts, 1s apart.
func NewRecorder(store Store, logger *zap.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:    store,
		attempts: 3,
		delay:    time.Second,
		now:      time.Now,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// HandleClick is the queue handler for ClickEvents. It always returns nil:
// retrying is bounded and internal, and an exhausted event is logged and
// dropped instead of being nacked back into the stream forever.
func (r *Recorder) HandleClick(ctx context.Context, event *ClickEvent) error {
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		err := r.record(ctx, event)
		if err == nil {
			return nil
		}

		if errors.Is(err, shortener.ErrNotFound) {
			// The code matches nothing (deleted entity or junk path); there
			// is no row to attach the click to.
			r.logger.Warn("dropping click for unmatched code",
				zap.String("code", event.ShortCode),
			)

			return nil
		}

		lastErr = err

		if attempt < r.attempts {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				r.logger.Warn("click recording cancelled",
					zap.String("code", event.ShortCode),
					zap.Error(ctx.Err()),
				)

				return nil
			}
		}
	}

	r.logger.Error("dropping click after exhausting retries",
		zap.String("code", event.ShortCode),
		zap.Int("attempts", r.attempts),
		zap.Error(lastErr),
	)

	return nil
}

func (r *Recorder) record(ctx context.Context, event *ClickEvent) error {
	owner, err := r.store.FindOwner(ctx, event.ShortCode)
	if err != nil {
		return err
	}

	day := r.now().UTC().Truncate(24 * time.Hour)

	// A short link with an attached QR record counts the click twice, once
	// per counter, and both lifetime totals move.
	if owner.LinkedQRID != "" {
		if err := r.store.IncrementDailyCounter(ctx, shortener.KindQR, owner.LinkedQRID, day); err != nil {
			return err
		}

		if err := r.store.IncrementLifetimeClicks(ctx, shortener.KindQR, owner.LinkedQRID); err != nil {
			return err
		}
	}

	if err := r.store.IncrementDailyCounter(ctx, owner.Kind, owner.ID, day); err != nil {
		return err
	}

	if err := r.store.InsertLocation(ctx, owner.Kind, owner.ID, event); err != nil {
		return err
	}

	return r.store.IncrementLifetimeClicks(ctx, owner.Kind, owner.ID)
}
