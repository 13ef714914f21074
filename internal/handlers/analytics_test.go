package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/snaplinkhq/snaplink/internal/analytics"
	"github.com/snaplinkhq/snaplink/internal/handlers"
	"github.com/snaplinkhq/snaplink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReportStore struct {
	lastQuery analytics.ReportQuery
	series    []analytics.SeriesPoint
	totals    analytics.Totals
	top       []analytics.RankedLink
}

func (s *stubReportStore) MonthlyClickSeries(_ context.Context, q analytics.ReportQuery, _ int, _ time.Month) ([]analytics.SeriesPoint, error) {
	s.lastQuery = q

	return s.series, nil
}

func (s *stubReportStore) TopDimension(_ context.Context, q analytics.ReportQuery, _ analytics.Dimension) ([]analytics.DimensionCount, error) {
	s.lastQuery = q

	return nil, nil
}

func (s *stubReportStore) TotalLocations(_ context.Context, q analytics.ReportQuery) (int64, error) {
	s.lastQuery = q

	return 0, nil
}

func (s *stubReportStore) TopLinks(_ context.Context, _ string, _ int) ([]analytics.RankedLink, error) {
	return s.top, nil
}

func (s *stubReportStore) LifetimeTotals(_ context.Context, _ string) (*analytics.Totals, error) {
	return &s.totals, nil
}

func newAnalyticsHandler(store *stubReportStore) *handlers.AnalyticsHandler {
	return handlers.NewAnalyticsHandler(analytics.NewReporter(store), zap.NewNop())
}

func TestAnalyticsEndpoints(t *testing.T) {
	t.Run("overview returns lifetime totals", func(t *testing.T) {
		s := &stubReportStore{totals: analytics.Totals{LinkClicks: 42, LinksCreated: 7}}
		handler := newAnalyticsHandler(s)

		resp, err := handler.Overview(userCtx(testUserID), nil)

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.Body.LinkClicks)
		assert.Equal(t, int64(7), resp.Body.LinksCreated)
	})

	t.Run("series scopes to the user", func(t *testing.T) {
		s := &stubReportStore{series: []analytics.SeriesPoint{{Date: "01-Aug-2026", Clicks: 3}}}
		handler := newAnalyticsHandler(s)

		resp, err := handler.Series(userCtx(testUserID), &handlers.ReportScopeRequest{})

		require.NoError(t, err)
		require.Len(t, resp.Body.Series, 1)
		assert.Equal(t, testUserID, s.lastQuery.UserID)
		assert.Empty(t, s.lastQuery.EntityID)
	})

	t.Run("series scopes to one entity", func(t *testing.T) {
		s := &stubReportStore{}
		handler := newAnalyticsHandler(s)

		_, err := handler.Series(userCtx(testUserID), &handlers.ReportScopeRequest{
			Kind:     "qr",
			EntityID: "e1",
		})

		require.NoError(t, err)
		assert.Equal(t, shortener.KindQR, s.lastQuery.Kind)
		assert.Equal(t, "e1", s.lastQuery.EntityID)
	})

	t.Run("entity scope requires a kind", func(t *testing.T) {
		handler := newAnalyticsHandler(&stubReportStore{})

		_, err := handler.Series(userCtx(testUserID), &handlers.ReportScopeRequest{EntityID: "e1"})

		assert.Error(t, err)
	})

	t.Run("top links", func(t *testing.T) {
		s := &stubReportStore{top: []analytics.RankedLink{{ID: "l1", Clicks: 9}}}
		handler := newAnalyticsHandler(s)

		resp, err := handler.TopLinks(userCtx(testUserID), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 1)
		assert.Equal(t, "l1", resp.Body.Links[0].ID)
	})

	t.Run("requires user identity", func(t *testing.T) {
		handler := newAnalyticsHandler(&stubReportStore{})

		_, err := handler.Overview(context.Background(), nil)

		assert.Error(t, err)
	})
}
