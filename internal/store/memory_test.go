package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/snaplinkhq/snaplink/internal/shortener"
	"github.com/snaplinkhq/snaplink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLinkStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and resolve case-insensitively", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{
			ID: "l1", UserID: "u1", ShortCode: "Bx7k2P", OriginalURL: "https://example.com",
		}))

		url, err := s.URLByCode(ctx, "bx7K2p")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("save rejects duplicate code", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{ID: "l1", ShortCode: "Bx7k2P"}))

		err := s.Save(ctx, &shortener.ShortLink{ID: "l2", ShortCode: "bx7k2p"})

		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("get scopes to the owner", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{ID: "l1", UserID: "u1", ShortCode: "Aaa001"}))

		_, err := s.GetByID(ctx, "l1", "u2")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("list paginates and filters hidden", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		for i, code := range []string{"Aaa001", "Aaa002", "Aaa003"} {
			require.NoError(t, s.Save(ctx, &shortener.ShortLink{
				ID: code, UserID: "u1", ShortCode: code,
				CreatedAt: base.AddDate(0, 0, i),
			}))
		}

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{
			ID: "hidden", UserID: "u1", ShortCode: "Aaa004", Hidden: true,
		}))

		page, err := s.List(ctx, "u1", false, 2, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(3), page.TotalItems)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Aaa001", page.Items[0].ID)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{ID: "l1", UserID: "u1", ShortCode: "Aaa001"}))

		require.NoError(t, s.Update(ctx, &shortener.ShortLink{
			ID: "l1", UserID: "u1", ShortCode: "Aaa001", Title: "updated",
		}))

		link, err := s.GetByID(ctx, "l1", "u1")

		require.NoError(t, err)
		assert.Equal(t, "updated", link.Title)
	})

	t.Run("delete removes the link", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Save(ctx, &shortener.ShortLink{ID: "l1", UserID: "u1", ShortCode: "Aaa001"}))
		require.NoError(t, s.Delete(ctx, "l1"))

		_, err := s.GetByID(ctx, "l1", "u1")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryQRStores(t *testing.T) {
	ctx := context.Background()

	t.Run("qr save and code exists", func(t *testing.T) {
		s := store.NewMemoryQRStore()

		require.NoError(t, s.Save(ctx, &shortener.QRDestination{
			ID: "q1", UserID: "u1", ShortCode: "Rxy123", OriginalURL: "https://example.com",
		}))

		taken, err := s.CodeExists(ctx, "rXY123")

		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("codeless qr records never collide", func(t *testing.T) {
		s := store.NewMemoryQRStore()

		require.NoError(t, s.Save(ctx, &shortener.QRDestination{ID: "q1", ShortLinkID: "l1"}))
		require.NoError(t, s.Save(ctx, &shortener.QRDestination{ID: "q2", ShortLinkID: "l2"}))

		taken, err := s.CodeExists(ctx, "")

		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("unauth qr resolves by code", func(t *testing.T) {
		s := store.NewMemoryUnauthQRStore()

		require.NoError(t, s.Save(ctx, &shortener.UnauthQRDestination{
			ID: "q1", ShortCode: "Jab123", OriginalURL: "https://example.com",
		}))

		url, err := s.URLByCode(ctx, "jAB123")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})
}
