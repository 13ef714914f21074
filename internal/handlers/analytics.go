package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplinkhq/snaplink/internal/analytics"
	"github.com/snaplinkhq/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// AnalyticsHandler serves the dashboard reporting endpoints.
type AnalyticsHandler struct {
	reporter *analytics.Reporter
	logger   *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(reporter *analytics.Reporter, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{reporter: reporter, logger: logger}
}

// OverviewResponse is the headline totals for the user.
type OverviewResponse struct {
	Body analytics.Totals
}

// ReportScopeRequest optionally narrows a report to one entity.
type ReportScopeRequest struct {
	Kind     string `doc:"Entity kind to scope to" enum:"short_link,qr,unauth_qr" query:"kind"`
	EntityID string `doc:"Entity id to scope to"   format:"uuid"                  query:"entityId"`
}

// SeriesResponse is the per-day click series for the current month.
type SeriesResponse struct {
	Body struct {
		Series []analytics.SeriesPoint `json:"series"`
	}
}

// BreakdownResponse is the top-N breakdown across all dimensions.
type BreakdownResponse struct {
	Body analytics.Breakdown
}

// TopLinksResponse ranks the user's links by lifetime clicks.
type TopLinksResponse struct {
	Body struct {
		Links []analytics.RankedLink `json:"links"`
	}
}

func reportQuery(userID string, req *ReportScopeRequest) (analytics.ReportQuery, error) {
	q := analytics.ReportQuery{UserID: userID}

	if req.EntityID == "" {
		return q, nil
	}

	if req.Kind == "" {
		return q, huma.Error422UnprocessableEntity("kind is required when entityId is set")
	}

	q.Kind = shortener.EntityKind(req.Kind)
	q.EntityID = req.EntityID

	return q, nil
}

// Overview returns the user's lifetime totals.
func (h *AnalyticsHandler) Overview(ctx context.Context, _ *struct{}) (*OverviewResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	totals, err := h.reporter.Overview(ctx, meta.UserID)
	if err != nil {
		h.logger.Error("failed to compute overview", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to compute overview")
	}

	return &OverviewResponse{Body: *totals}, nil
}

// Series returns the current month's per-day click series. Days without
// clicks are omitted.
func (h *AnalyticsHandler) Series(ctx context.Context, req *ReportScopeRequest) (*SeriesResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	q, err := reportQuery(meta.UserID, req)
	if err != nil {
		return nil, err
	}

	series, err := h.reporter.CurrentMonthSeries(ctx, q)
	if err != nil {
		h.logger.Error("failed to compute click series", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to compute click series")
	}

	resp := &SeriesResponse{}
	resp.Body.Series = series

	return resp, nil
}

// Breakdown returns the top locations, devices, and browsers with their
// percentage share.
func (h *AnalyticsHandler) Breakdown(ctx context.Context, req *ReportScopeRequest) (*BreakdownResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	q, err := reportQuery(meta.UserID, req)
	if err != nil {
		return nil, err
	}

	breakdown, err := h.reporter.TopBreakdown(ctx, q)
	if err != nil {
		h.logger.Error("failed to compute breakdown", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to compute breakdown")
	}

	return &BreakdownResponse{Body: *breakdown}, nil
}

// TopLinks returns the user's most-clicked links.
func (h *AnalyticsHandler) TopLinks(ctx context.Context, _ *struct{}) (*TopLinksResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	links, err := h.reporter.TopLinks(ctx, meta.UserID)
	if err != nil {
		h.logger.Error("failed to rank links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to rank links")
	}

	resp := &TopLinksResponse{}
	resp.Body.Links = links

	return resp, nil
}
