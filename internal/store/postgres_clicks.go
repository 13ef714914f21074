package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/snaplinkhq/snaplink/internal/analytics"
	"github.com/snaplinkhq/snaplink/internal/shortener"
)

// PostgresClickStore is the write and read side of click persistence: the
// recorder's counters and location rows, and the report aggregations.
type PostgresClickStore struct {
	pool *pgxpool.Pool
}

// NewPostgresClickStore creates a click store over an existing pool.
func NewPostgresClickStore(pool *pgxpool.Pool) *PostgresClickStore {
	return &PostgresClickStore{pool: pool}
}

// FindOwner resolves a short code to the entity it belongs to, checking the
// same tables in the same order the redirect path does. A short link created
// with an attached QR record also reports that record's id, so clicks count
// against both.
func (p *PostgresClickStore) FindOwner(ctx context.Context, shortCode string) (*analytics.Owner, error) {
	var (
		linkID     string
		wantQRCode bool
	)

	err := p.pool.QueryRow(ctx,
		`SELECT id, want_qr_code FROM short_links WHERE lower(short_code) = lower($1)`,
		shortCode,
	).Scan(&linkID, &wantQRCode)
	if err == nil {
		owner := &analytics.Owner{Kind: shortener.KindShortLink, ID: linkID}

		if wantQRCode {
			var qrID string

			err := p.pool.QueryRow(ctx,
				`SELECT id FROM qr_destinations WHERE short_link_id = $1`,
				linkID,
			).Scan(&qrID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}

			owner.LinkedQRID = qrID
		}

		return owner, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var qrID string

	err = p.pool.QueryRow(ctx,
		`SELECT id FROM qr_destinations WHERE lower(short_code) = lower($1) AND short_link_id IS NULL`,
		shortCode,
	).Scan(&qrID)
	if err == nil {
		return &analytics.Owner{Kind: shortener.KindQR, ID: qrID}, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var unauthID string

	err = p.pool.QueryRow(ctx,
		`SELECT id FROM unauth_qr_destinations WHERE lower(short_code) = lower($1)`,
		shortCode,
	).Scan(&unauthID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &analytics.Owner{Kind: shortener.KindUnauthQR, ID: unauthID}, nil
}

// IncrementDailyCounter bumps the (entity, day) rollup row, creating it on
// first click. The upsert rides the unique constraint so concurrent clicks
// never race into duplicate rows.
func (p *PostgresClickStore) IncrementDailyCounter(ctx context.Context, kind shortener.EntityKind, entityID string, day time.Time) error {
	query := `
		INSERT INTO click_counters (id, entity_type, entity_id, day, count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT ON CONSTRAINT uniq_click_counters_entity_day
		DO UPDATE SET count = click_counters.count + 1
	`

	_, err := p.pool.Exec(ctx, query, uuid.NewString(), string(kind), entityID, day)

	return err
}

// InsertLocation appends one click-location record.
func (p *PostgresClickStore) InsertLocation(ctx context.Context, kind shortener.EntityKind, entityID string, event *analytics.ClickEvent) error {
	query := `
		INSERT INTO click_locations
			(id, entity_type, entity_id, ip_address, country, city, device, browser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		uuid.NewString(), string(kind), entityID,
		event.IPAddress, event.Country, event.City, event.Device, event.Browser,
		event.ClickedAt,
	)

	return err
}

var lifetimeTables = map[shortener.EntityKind]string{
	shortener.KindShortLink: "short_links",
	shortener.KindQR:        "qr_destinations",
	shortener.KindUnauthQR:  "unauth_qr_destinations",
}

// IncrementLifetimeClicks bumps the entity's denormalized total. Short links
// are also marked redirected, which pins them against hard deletion.
func (p *PostgresClickStore) IncrementLifetimeClicks(ctx context.Context, kind shortener.EntityKind, entityID string) error {
	table, ok := lifetimeTables[kind]
	if !ok {
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	query := fmt.Sprintf(`UPDATE %s SET clicks = clicks + 1 WHERE id = $1`, table)
	if kind == shortener.KindShortLink {
		query = `UPDATE short_links SET clicks = clicks + 1, redirected = TRUE WHERE id = $1`
	}

	tag, err := p.pool.Exec(ctx, query, entityID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// scopeClause builds the WHERE fragment that restricts click rows to a
// report query's entity, or to everything the user owns.
func scopeClause(q analytics.ReportQuery, argOffset int) (string, []any) {
	if q.EntityID != "" {
		return fmt.Sprintf("entity_type = $%d AND entity_id = $%d", argOffset, argOffset+1),
			[]any{string(q.Kind), q.EntityID}
	}

	clause := fmt.Sprintf(`(
		(entity_type = 'short_link' AND entity_id IN (SELECT id FROM short_links WHERE user_id = $%d))
		OR (entity_type = 'qr' AND entity_id IN (SELECT id FROM qr_destinations WHERE user_id = $%d))
	)`, argOffset, argOffset)

	return clause, []any{q.UserID}
}

// MonthlyClickSeries sums the daily rollups for one calendar month. Days
// without clicks have no counter row and so produce no point.
func (p *PostgresClickStore) MonthlyClickSeries(ctx context.Context, q analytics.ReportQuery, year int, month time.Month) ([]analytics.SeriesPoint, error) {
	scope, args := scopeClause(q, 1)

	query := fmt.Sprintf(`
		SELECT to_char(day, 'DD-Mon-YYYY'), SUM(count)
		FROM click_counters
		WHERE %s
		  AND EXTRACT(YEAR FROM day) = $%d
		  AND EXTRACT(MONTH FROM day) = $%d
		GROUP BY day
		ORDER BY day
	`, scope, len(args)+1, len(args)+2)

	args = append(args, year, int(month))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []analytics.SeriesPoint

	for rows.Next() {
		var pt analytics.SeriesPoint

		if err := rows.Scan(&pt.Date, &pt.Clicks); err != nil {
			return nil, err
		}

		points = append(points, pt)
	}

	return points, rows.Err()
}

var dimensionColumns = map[analytics.Dimension]string{
	analytics.DimensionCountry: "country",
	analytics.DimensionCity:    "city",
	analytics.DimensionDevice:  "device",
	analytics.DimensionBrowser: "browser",
}

// TopDimension groups location records by one column and returns the
// largest groups. Blank values are skipped; they carry no signal.
func (p *PostgresClickStore) TopDimension(ctx context.Context, q analytics.ReportQuery, dim analytics.Dimension) ([]analytics.DimensionCount, error) {
	column, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}

	scope, args := scopeClause(q, 1)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM click_locations
		WHERE %s AND %s <> ''
		GROUP BY %s
		ORDER BY COUNT(*) DESC
		LIMIT %d
	`, column, scope, column, column, analytics.TopLimit)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []analytics.DimensionCount

	for rows.Next() {
		var c analytics.DimensionCount

		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}

		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// TotalLocations counts the scope's location records, the denominator for
// breakdown percentages.
func (p *PostgresClickStore) TotalLocations(ctx context.Context, q analytics.ReportQuery) (int64, error) {
	scope, args := scopeClause(q, 1)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM click_locations WHERE %s`, scope)

	var total int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// TopLinks ranks the user's visible links by lifetime clicks.
func (p *PostgresClickStore) TopLinks(ctx context.Context, userID string, limit int) ([]analytics.RankedLink, error) {
	query := `
		SELECT id, title, short_code, clicks
		FROM short_links
		WHERE user_id = $1 AND hidden = FALSE
		ORDER BY clicks DESC, created_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []analytics.RankedLink

	for rows.Next() {
		var l analytics.RankedLink

		if err := rows.Scan(&l.ID, &l.Title, &l.ShortCode, &l.Clicks); err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	return links, rows.Err()
}

// LifetimeTotals sums the denormalized click totals and entity counts for
// the overview card.
func (p *PostgresClickStore) LifetimeTotals(ctx context.Context, userID string) (*analytics.Totals, error) {
	totals := &analytics.Totals{}

	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(clicks), 0), COUNT(*) FROM short_links WHERE user_id = $1 AND hidden = FALSE`,
		userID,
	).Scan(&totals.LinkClicks, &totals.LinksCreated)
	if err != nil {
		return nil, err
	}

	err = p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(clicks), 0), COUNT(*) FROM qr_destinations WHERE user_id = $1`,
		userID,
	).Scan(&totals.QRClicks, &totals.QRCodesCreated)
	if err != nil {
		return nil, err
	}

	return totals, nil
}

var (
	_ analytics.Store       = (*PostgresClickStore)(nil)
	_ analytics.ReportStore = (*PostgresClickStore)(nil)
)
