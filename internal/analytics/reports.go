package analytics

import (
	"context"
	"math"
	"time"

	"github.com/snaplinkhq/snaplink/internal/shortener"
)

// TopLimit is how many entries top-N breakdowns and rankings return.
const TopLimit = 7

// Dimension selects which ClickLocationRecord column a breakdown groups by.
type Dimension string

const (
	DimensionCountry Dimension = "country"
	DimensionCity    Dimension = "city"
	DimensionDevice  Dimension = "device"
	DimensionBrowser Dimension = "browser"
)

// SeriesPoint is one calendar day's summed click count. Days without
// clicks produce no point.
type SeriesPoint struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// DimensionCount is a raw grouped count for one dimension value.
type DimensionCount struct {
	Name  string
	Count int64
}

// BreakdownEntry is a dimension value with its share of the total.
type BreakdownEntry struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Breakdown groups top-N entries for every reported dimension.
type Breakdown struct {
	Countries []BreakdownEntry `json:"top_countries"`
	Cities    []BreakdownEntry `json:"top_cities"`
	Devices   []BreakdownEntry `json:"top_devices"`
	Browsers  []BreakdownEntry `json:"top_browsers"`
}

// RankedLink is a short link ranked by lifetime clicks.
type RankedLink struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ShortCode string `json:"short_code"`
	Clicks    int64  `json:"clicks"`
}

// ReportQuery scopes a report to one owner and optionally one entity.
type ReportQuery struct {
	UserID   string
	Kind     shortener.EntityKind
	EntityID string // empty scopes to all of the user's entities
}

// ReportStore is the read-side persistence for aggregation queries.
type ReportStore interface {
	// MonthlyClickSeries returns one point per day with clicks in the given
	// calendar month, ordered by day.
	MonthlyClickSeries(ctx context.Context, q ReportQuery, year int, month time.Month) ([]SeriesPoint, error)
	// TopDimension returns grouped location-record counts, descending,
	// limited to TopLimit.
	TopDimension(ctx context.Context, q ReportQuery, dim Dimension) ([]DimensionCount, error)
	// TotalLocations returns the total location-record count for the scope.
	TotalLocations(ctx context.Context, q ReportQuery) (int64, error)
	// TopLinks ranks the user's links by lifetime clicks, descending.
	TopLinks(ctx context.Context, userID string, limit int) ([]RankedLink, error)
	// LifetimeTotals sums lifetime clicks and entity counts for the user.
	LifetimeTotals(ctx context.Context, userID string) (*Totals, error)
}

// Totals is the headline overview for one user.
type Totals struct {
	LinkClicks     int64 `json:"url_short_clicks"`
	QRClicks       int64 `json:"qr_code_clicks"`
	LinksCreated   int64 `json:"url_shorts_generated"`
	QRCodesCreated int64 `json:"qr_code_generated"`
}

// Reporter computes dashboard reports over the accumulated click data.
type Reporter struct {
	store ReportStore
	now   func() time.Time
}

// NewReporter creates a reporter using the real clock.
func NewReporter(store ReportStore) *Reporter {
	return &Reporter{store: store, now: time.Now}
}

// NewReporterWithClock creates a reporter with a fixed time source, for tests.
func NewReporterWithClock(store ReportStore, now func() time.Time) *Reporter {
	return &Reporter{store: store, now: now}
}

// CurrentMonthSeries returns the per-day click series for the current
// calendar month.
func (r *Reporter) CurrentMonthSeries(ctx context.Context, q ReportQuery) ([]SeriesPoint, error) {
	now := r.now().UTC()

	return r.store.MonthlyClickSeries(ctx, q, now.Year(), now.Month())
}

// TopBreakdown computes the top-N breakdown for each dimension, with each
// entry's percentage share of the scope's total location records.
func (r *Reporter) TopBreakdown(ctx context.Context, q ReportQuery) (*Breakdown, error) {
	total, err := r.store.TotalLocations(ctx, q)
	if err != nil {
		return nil, err
	}

	breakdown := &Breakdown{}

	for _, part := range []struct {
		dim  Dimension
		dest *[]BreakdownEntry
	}{
		{DimensionCountry, &breakdown.Countries},
		{DimensionCity, &breakdown.Cities},
		{DimensionDevice, &breakdown.Devices},
		{DimensionBrowser, &breakdown.Browsers},
	} {
		counts, err := r.store.TopDimension(ctx, q, part.dim)
		if err != nil {
			return nil, err
		}

		*part.dest = withPercentages(counts, total)
	}

	return breakdown, nil
}

// TopLinks returns the user's most-clicked links.
func (r *Reporter) TopLinks(ctx context.Context, userID string) ([]RankedLink, error) {
	return r.store.TopLinks(ctx, userID, TopLimit)
}

// Overview returns the user's lifetime totals.
func (r *Reporter) Overview(ctx context.Context, userID string) (*Totals, error) {
	return r.store.LifetimeTotals(ctx, userID)
}

func withPercentages(counts []DimensionCount, total int64) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(counts))

	for _, c := range counts {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(c.Count)/float64(total)*100*100) / 100
		}

		entries = append(entries, BreakdownEntry{
			Name:       c.Name,
			Count:      c.Count,
			Percentage: pct,
		})
	}

	return entries
}
