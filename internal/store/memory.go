package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/snaplinkhq/snaplink/internal/shortener"
)

// MemoryLinkStore is an in-memory implementation of ShortLinkRepository.
type MemoryLinkStore struct {
	mu    sync.RWMutex
	links map[string]*shortener.ShortLink // id -> link
}

// NewMemoryLinkStore creates a new in-memory short-link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[string]*shortener.ShortLink)}
}

func (m *MemoryLinkStore) Save(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.links {
		if strings.EqualFold(existing.ShortCode, link.ShortCode) {
			return shortener.ErrCodeTaken
		}
	}

	clone := *link
	m.links[link.ID] = &clone

	return nil
}

func (m *MemoryLinkStore) GetByID(_ context.Context, id, userID string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok || link.UserID != userID {
		return nil, shortener.ErrNotFound
	}

	clone := *link

	return &clone, nil
}

func (m *MemoryLinkStore) URLByCode(_ context.Context, code string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if strings.EqualFold(link.ShortCode, code) {
			return link.OriginalURL, nil
		}
	}

	return "", shortener.ErrNotFound
}

func (m *MemoryLinkStore) List(_ context.Context, userID string, hidden bool, page, perPage int) (*shortener.Page[*shortener.ShortLink], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*shortener.ShortLink

	for _, link := range m.links {
		if link.UserID == userID && link.Hidden == hidden {
			clone := *link
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * perPage

	if start >= len(matched) {
		matched = nil
	} else {
		end := start + perPage
		if end > len(matched) {
			end = len(matched)
		}

		matched = matched[start:end]
	}

	return &shortener.Page[*shortener.ShortLink]{
		Items:      matched,
		TotalItems: total,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

func (m *MemoryLinkStore) Update(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.links[link.ID]
	if !ok || existing.UserID != link.UserID {
		return shortener.ErrNotFound
	}

	clone := *link
	m.links[link.ID] = &clone

	return nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return shortener.ErrNotFound
	}

	delete(m.links, id)

	return nil
}

func (m *MemoryLinkStore) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if strings.EqualFold(link.ShortCode, code) {
			return true, nil
		}
	}

	return false, nil
}

// MemoryQRStore is an in-memory implementation of QRRepository.
type MemoryQRStore struct {
	mu  sync.RWMutex
	qrs map[string]*shortener.QRDestination // id -> qr
}

// NewMemoryQRStore creates a new in-memory QR store.
func NewMemoryQRStore() *MemoryQRStore {
	return &MemoryQRStore{qrs: make(map[string]*shortener.QRDestination)}
}

func (m *MemoryQRStore) Save(_ context.Context, qr *shortener.QRDestination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(existing.ShortCode, qr.ShortCode) {
			return shortener.ErrCodeTaken
		}
	}

	clone := *qr
	m.qrs[qr.ID] = &clone

	return nil
}

func (m *MemoryQRStore) GetByID(_ context.Context, id, userID string) (*shortener.QRDestination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	qr, ok := m.qrs[id]
	if !ok || qr.UserID != userID {
		return nil, shortener.ErrNotFound
	}

	clone := *qr

	return &clone, nil
}

func (m *MemoryQRStore) ByLinkID(_ context.Context, linkID string) (*shortener.QRDestination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, qr := range m.qrs {
		if qr.ShortLinkID != "" && qr.ShortLinkID == linkID {
			clone := *qr

			return &clone, nil
		}
	}

	return nil, shortener.ErrNotFound
}

func (m *MemoryQRStore) Update(_ context.Context, qr *shortener.QRDestination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.qrs[qr.ID]; !ok {
		return shortener.ErrNotFound
	}

	clone := *qr
	m.qrs[qr.ID] = &clone

	return nil
}

func (m *MemoryQRStore) URLByCode(_ context.Context, code string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, qr := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(qr.ShortCode, code) {
			return qr.OriginalURL, nil
		}
	}

	return "", shortener.ErrNotFound
}

func (m *MemoryQRStore) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, qr := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(qr.ShortCode, code) {
			return true, nil
		}
	}

	return false, nil
}

// MemoryUnauthQRStore is an in-memory implementation of UnauthQRRepository.
type MemoryUnauthQRStore struct {
	mu  sync.RWMutex
	qrs map[string]*shortener.UnauthQRDestination // id -> qr
}

// NewMemoryUnauthQRStore creates a new in-memory anonymous QR store.
func NewMemoryUnauthQRStore() *MemoryUnauthQRStore {
	return &MemoryUnauthQRStore{qrs: make(map[string]*shortener.UnauthQRDestination)}
}

func (m *MemoryUnauthQRStore) Save(_ context.Context, qr *shortener.UnauthQRDestination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(existing.ShortCode, qr.ShortCode) {
			return shortener.ErrCodeTaken
		}
	}

	clone := *qr
	m.qrs[qr.ID] = &clone

	return nil
}

func (m *MemoryUnauthQRStore) URLByCode(_ context.Context, code string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, qr := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(qr.ShortCode, code) {
			return qr.OriginalURL, nil
		}
	}

	return "", shortener.ErrNotFound
}

func (m *MemoryUnauthQRStore) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, qr := range m.qrs {
		if qr.ShortCode != "" && strings.EqualFold(qr.ShortCode, code) {
			return true, nil
		}
	}

	return false, nil
}

var (
	_ shortener.ShortLinkRepository = (*MemoryLinkStore)(nil)
	_ shortener.QRRepository        = (*MemoryQRStore)(nil)
	_ shortener.UnauthQRRepository  = (*MemoryUnauthQRStore)(nil)
)
