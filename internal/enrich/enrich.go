// Package enrich derives click metadata (geolocation, browser family,
// device platform) from an inbound request. Everything here is best-effort:
// a failed lookup degrades to empty or Unknown fields, never an error.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ClickContext is the enriched metadata attached to a single click.
type ClickContext struct {
	IP      string
	Country string
	City    string
	Browser string
	Device  string
}

// Enricher builds ClickContexts from request metadata.
type Enricher struct {
	geo        GeoLocator
	geoTimeout time.Duration
	logger     *zap.Logger
}

// NewEnricher creates an enricher. geoTimeout bounds the external
// geolocation call so a slow provider cannot hold up the redirect.
func NewEnricher(geo GeoLocator, geoTimeout time.Duration, logger *zap.Logger) *Enricher {
	return &Enricher{
		geo:        geo,
		geoTimeout: geoTimeout,
		logger:     logger,
	}
}

// Enrich derives geo, browser and device fields for a click.
func (e *Enricher) Enrich(ctx context.Context, ip, userAgent string) ClickContext {
	cc := ClickContext{
		IP:      ip,
		Browser: DetectBrowser(userAgent),
		Device:  DetectPlatform(userAgent),
	}

	geoCtx, cancel := context.WithTimeout(ctx, e.geoTimeout)
	defer cancel()

	city, country, err := e.geo.Locate(geoCtx, ip)
	if err != nil {
		e.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))

		return cc
	}

	cc.City = city
	cc.Country = country

	return cc
}
