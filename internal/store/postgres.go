package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/snaplinkhq/snaplink/internal/shortener"
)

const pgUniqueViolation = "23505"

// PostgresLinkStore is the pgx-backed source of truth for short links.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a link store over an existing pool.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// --- shortener.ShortLinkRepository ---

func (p *PostgresLinkStore) Save(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links
			(id, user_id, original_url, short_code, title, want_qr_code,
			 has_custom_code, redirected, hidden, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID, link.UserID, link.OriginalURL, link.ShortCode, link.Title,
		link.WantQRCode, link.HasCustomCode, link.Redirected, link.Hidden,
		link.CreatedAt,
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	return err
}

func (p *PostgresLinkStore) GetByID(ctx context.Context, id, userID string) (*shortener.ShortLink, error) {
	query := `
		SELECT id, user_id, original_url, short_code, title, clicks,
		       want_qr_code, has_custom_code, redirected, hidden, created_at
		FROM short_links
		WHERE id = $1 AND user_id = $2
	`

	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, id, userID).Scan(
		&link.ID, &link.UserID, &link.OriginalURL, &link.ShortCode,
		&link.Title, &link.Clicks, &link.WantQRCode, &link.HasCustomCode,
		&link.Redirected, &link.Hidden, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresLinkStore) URLByCode(ctx context.Context, code string) (string, error) {
	query := `SELECT original_url FROM short_links WHERE lower(short_code) = lower($1)`

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

func (p *PostgresLinkStore) List(
	ctx context.Context, userID string, hidden bool, page, perPage int,
) (*shortener.Page[*shortener.ShortLink], error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM short_links WHERE user_id = $1 AND hidden = $2`,
		userID, hidden,
	).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, original_url, short_code, title, clicks,
		       want_qr_code, has_custom_code, redirected, hidden, created_at
		FROM short_links
		WHERE user_id = $1 AND hidden = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := p.pool.Query(ctx, query, userID, hidden, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*shortener.ShortLink

	for rows.Next() {
		var link shortener.ShortLink
		if err := rows.Scan(
			&link.ID, &link.UserID, &link.OriginalURL, &link.ShortCode,
			&link.Title, &link.Clicks, &link.WantQRCode, &link.HasCustomCode,
			&link.Redirected, &link.Hidden, &link.CreatedAt,
		); err != nil {
			return nil, err
		}

		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &shortener.Page[*shortener.ShortLink]{
		Items:      links,
		TotalItems: total,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

func (p *PostgresLinkStore) Update(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		UPDATE short_links
		SET original_url = $2, short_code = $3, title = $4,
		    want_qr_code = $5, has_custom_code = $6, hidden = $7
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		link.ID, link.OriginalURL, link.ShortCode, link.Title,
		link.WantQRCode, link.HasCustomCode, link.Hidden,
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeTaken
	}

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Delete removes a link together with its click history and the click
// history of its attached QR record (the QR row itself goes via cascade).
func (p *PostgresLinkStore) Delete(ctx context.Context, id string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var qrID *string
	err = tx.QueryRow(ctx,
		`SELECT id FROM qr_destinations WHERE short_link_id = $1`, id,
	).Scan(&qrID)

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if qrID != nil {
		if err := deleteClickRows(ctx, tx, shortener.KindQR, *qrID); err != nil {
			return err
		}
	}

	if err := deleteClickRows(ctx, tx, shortener.KindShortLink, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return tx.Commit(ctx)
}

func deleteClickRows(ctx context.Context, tx pgx.Tx, kind shortener.EntityKind, entityID string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM click_counters WHERE entity_type = $1 AND entity_id = $2`,
		string(kind), entityID,
	); err != nil {
		return err
	}

	_, err := tx.Exec(ctx,
		`DELETE FROM click_locations WHERE entity_type = $1 AND entity_id = $2`,
		string(kind), entityID,
	)

	return err
}

func (p *PostgresLinkStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, p.pool, "short_links", code)
}

func codeExists(ctx context.Context, pool *pgxpool.Pool, table, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE lower(short_code) = lower($1))`

	var exists bool
	if err := pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// AllCodes returns every issued short code across the three tables, used to
// seed the bloom filter at startup.
func (p *PostgresLinkStore) AllCodes(ctx context.Context) ([]string, error) {
	query := `
		SELECT short_code FROM short_links
		UNION ALL
		SELECT short_code FROM qr_destinations WHERE short_code IS NOT NULL
		UNION ALL
		SELECT short_code FROM unauth_qr_destinations WHERE short_code IS NOT NULL
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}

		codes = append(codes, code)
	}

	return codes, rows.Err()
}

var _ shortener.ShortLinkRepository = (*PostgresLinkStore)(nil)
