package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/snaplinkhq/snaplink/internal/analytics"
	"github.com/snaplinkhq/snaplink/internal/enrich"
	"github.com/snaplinkhq/snaplink/internal/messaging"
	"github.com/snaplinkhq/snaplink/internal/resolver"
	"go.uber.org/zap"
)

// RedirectHandler serves the hot redirect path. It always answers with a
// redirect: unknown codes go to the fallback destination rather than a 404,
// and click recording happens after the fact on the queue.
type RedirectHandler struct {
	resolver     resolver.Resolver
	enricher     *enrich.Enricher
	publishClick messaging.Publish[analytics.ClickEvent]
	frontendURL  string
	logger       *zap.Logger
}

// NewRedirectHandler creates a redirect handler.
func NewRedirectHandler(
	res resolver.Resolver,
	enricher *enrich.Enricher,
	publishClick messaging.Publish[analytics.ClickEvent],
	frontendURL string,
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		resolver:     res,
		enricher:     enricher,
		publishClick: publishClick,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// Redirect resolves a short code and issues the redirect. The click event is
// published fire-and-forget; a broken queue never blocks the visitor.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	url, found := h.resolver.Resolve(ctx, req.Code)

	if found {
		meta := RequestMetaFromContext(ctx)
		clickCtx := h.enricher.Enrich(ctx, meta.ClientIP, meta.UserAgent)

		event := &analytics.ClickEvent{
			ShortCode: req.Code,
			IPAddress: clickCtx.IP,
			Country:   clickCtx.Country,
			City:      clickCtx.City,
			Browser:   clickCtx.Browser,
			Device:    clickCtx.Device,
			ClickedAt: time.Now().UTC(),
		}

		if err := h.publishClick(event); err != nil {
			h.logger.Error("failed to publish click event",
				zap.String("code", req.Code),
				zap.Error(err),
			)
		}
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = url

	return resp, nil
}

// Root redirects the bare domain to the frontend.
func (h *RedirectHandler) Root(_ context.Context, _ *struct{}) (*RedirectResponse, error) {
	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = h.frontendURL

	return resp, nil
}
