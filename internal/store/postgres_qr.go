package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/snaplinkhq/snaplink/internal/shortener"
)

// PostgresQRStore persists authenticated QR destinations.
type PostgresQRStore struct {
	pool *pgxpool.Pool
}

// NewPostgresQRStore creates a QR store over an existing pool.
func NewPostgresQRStore(pool *pgxpool.Pool) *PostgresQRStore {
	return &PostgresQRStore{pool: pool}
}

func (p *PostgresQRStore) Save(ctx context.Context, qr *shortener.QRDestination) error {
	query := `
		INSERT INTO qr_destinations
			(id, user_id, original_url, short_code, title, category, style,
			 frame, short_link_id, hidden, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		qr.ID, nullable(qr.UserID), qr.OriginalURL, nullable(qr.ShortCode),
		qr.Title, qr.Category, qr.Style, qr.Frame, nullable(qr.ShortLinkID),
		qr.Hidden, qr.CreatedAt,
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	return err
}

func (p *PostgresQRStore) GetByID(ctx context.Context, id, userID string) (*shortener.QRDestination, error) {
	query := `
		SELECT id, user_id, original_url, short_code, title, category,
		       clicks, style, frame, short_link_id, hidden, created_at
		FROM qr_destinations
		WHERE id = $1 AND user_id = $2
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, id, userID))
}

func (p *PostgresQRStore) ByLinkID(ctx context.Context, linkID string) (*shortener.QRDestination, error) {
	query := `
		SELECT id, user_id, original_url, short_code, title, category,
		       clicks, style, frame, short_link_id, hidden, created_at
		FROM qr_destinations
		WHERE short_link_id = $1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, linkID))
}

func (p *PostgresQRStore) scanOne(row pgx.Row) (*shortener.QRDestination, error) {
	var (
		qr          shortener.QRDestination
		userIDCol   *string
		shortCode   *string
		shortLinkID *string
	)

	err := row.Scan(
		&qr.ID, &userIDCol, &qr.OriginalURL, &shortCode, &qr.Title,
		&qr.Category, &qr.Clicks, &qr.Style, &qr.Frame, &shortLinkID,
		&qr.Hidden, &qr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	qr.UserID = deref(userIDCol)
	qr.ShortCode = deref(shortCode)
	qr.ShortLinkID = deref(shortLinkID)

	return &qr, nil
}

func (p *PostgresQRStore) Update(ctx context.Context, qr *shortener.QRDestination) error {
	query := `
		UPDATE qr_destinations
		SET original_url = $2, title = $3, style = $4, frame = $5, hidden = $6
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		qr.ID, qr.OriginalURL, qr.Title, qr.Style, qr.Frame, qr.Hidden,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresQRStore) URLByCode(ctx context.Context, code string) (string, error) {
	query := `SELECT original_url FROM qr_destinations WHERE lower(short_code) = lower($1)`

	var url string

	err := p.pool.QueryRow(ctx, query, code).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

func (p *PostgresQRStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, p.pool, "qr_destinations", code)
}

// PostgresUnauthQRStore persists anonymous QR destinations.
type PostgresUnauthQRStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUnauthQRStore creates an anonymous QR store over an existing pool.
func NewPostgresUnauthQRStore(pool *pgxpool.Pool) *PostgresUnauthQRStore {
	return &PostgresUnauthQRStore{pool: pool}
}

func (p *PostgresUnauthQRStore) Save(ctx context.Context, qr *shortener.UnauthQRDestination) error {
	query := `
		INSERT INTO unauth_qr_destinations
			(id, original_url, short_code, title, user_agent, style, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		qr.ID, qr.OriginalURL, nullable(qr.ShortCode), qr.Title,
		qr.UserAgent, qr.Style, qr.CreatedAt,
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	return err
}

func (p *PostgresUnauthQRStore) URLByCode(ctx context.Context, code string) (string, error) {
	query := `SELECT original_url FROM unauth_qr_destinations WHERE lower(short_code) = lower($1)`

	var url string

	err := p.pool.QueryRow(ctx, query, code).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

func (p *PostgresUnauthQRStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, p.pool, "unauth_qr_destinations", code)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

var (
	_ shortener.QRRepository       = (*PostgresQRStore)(nil)
	_ shortener.UnauthQRRepository = (*PostgresUnauthQRStore)(nil)
)
