package shortener

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when no entity owns a given code or id.
var ErrNotFound = errors.New("not found")

// ErrCodeTaken is returned when a short code already exists in its table.
var ErrCodeTaken = errors.New("short code already taken")

// EntityKind identifies which table a short code belongs to.
type EntityKind string

const (
	KindShortLink EntityKind = "short_link"
	KindQR        EntityKind = "qr"
	KindUnauthQR  EntityKind = "unauth_qr"
)

// ShortLink is a shortened URL created by an authenticated user.
type ShortLink struct {
	ID            string
	UserID        string
	OriginalURL   string
	ShortCode     string
	Title         string
	Clicks        int64
	WantQRCode    bool
	HasCustomCode bool
	Redirected    bool
	Hidden        bool
	CreatedAt     time.Time
}

// Deletable reports whether the link may be hard-deleted. Links that were
// customized or have accrued redirects are only ever soft-hidden, to keep
// their analytics history and prevent code squatting.
func (l *ShortLink) Deletable() bool {
	return !l.HasCustomCode && !l.Redirected
}

// QRDestination is a QR-code payload that resolves through a short code.
// When created alongside a ShortLink it shares the link's code and carries
// the link's id; standalone QR codes get their own R-Z prefixed code.
type QRDestination struct {
	ID          string
	UserID      string
	OriginalURL string
	ShortCode   string
	Title       string
	Category    string
	Clicks      int64
	Style       json.RawMessage
	Frame       json.RawMessage
	ShortLinkID string
	Hidden      bool
	CreatedAt   time.Time
}

// UnauthQRDestination is a QR payload created by an anonymous caller.
// There is no owning user; the creator's user agent is kept instead.
type UnauthQRDestination struct {
	ID          string
	OriginalURL string
	ShortCode   string
	Title       string
	UserAgent   string
	Clicks      int64
	Style       json.RawMessage
	CreatedAt   time.Time
}

// Page wraps a paginated listing.
type Page[T any] struct {
	Items      []T
	TotalItems int64
	Page       int
	PerPage    int
}

// TotalPages computes the page count for the listing.
func (p *Page[T]) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}

	pages := int(p.TotalItems) / p.PerPage
	if int(p.TotalItems)%p.PerPage != 0 {
		pages++
	}

	return pages
}

// ShortLinkRepository persists short links.
type ShortLinkRepository interface {
	Save(ctx context.Context, link *ShortLink) error
	GetByID(ctx context.Context, id, userID string) (*ShortLink, error)
	// URLByCode resolves a code to its destination URL, case-insensitively.
	URLByCode(ctx context.Context, code string) (string, error)
	List(ctx context.Context, userID string, hidden bool, page, perPage int) (*Page[*ShortLink], error)
	Update(ctx context.Context, link *ShortLink) error
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// QRRepository persists authenticated QR destinations.
type QRRepository interface {
	Save(ctx context.Context, qr *QRDestination) error
	GetByID(ctx context.Context, id, userID string) (*QRDestination, error)
	// ByLinkID returns the QR record attached to a short link, if any.
	ByLinkID(ctx context.Context, linkID string) (*QRDestination, error)
	URLByCode(ctx context.Context, code string) (string, error)
	Update(ctx context.Context, qr *QRDestination) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// UnauthQRRepository persists anonymous QR destinations.
type UnauthQRRepository interface {
	Save(ctx context.Context, qr *UnauthQRDestination) error
	URLByCode(ctx context.Context, code string) (string, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}
