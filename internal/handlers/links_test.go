package handlers_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/snaplinkhq/snaplink/internal/handlers"
	"github.com/snaplinkhq/snaplink/internal/shortener"
	"github.com/snaplinkhq/snaplink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserID = "user-1"

func userCtx(userID string) context.Context {
	return handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
		ClientIP:  "203.0.113.9",
		UserAgent: "TestAgent/1.0",
		UserID:    userID,
	})
}

type testStores struct {
	links  *store.MemoryLinkStore
	qrs    *store.MemoryQRStore
	unauth *store.MemoryUnauthQRStore
}

func newTestStores() *testStores {
	return &testStores{
		links:  store.NewMemoryLinkStore(),
		qrs:    store.NewMemoryQRStore(),
		unauth: store.NewMemoryUnauthQRStore(),
	}
}

func newTestIssuer(t *testing.T, s *testStores) *shortener.Issuer {
	t.Helper()

	gen, err := shortener.NewGenerator()
	require.NoError(t, err)

	exists := func(ctx context.Context, code string) (bool, error) {
		for _, check := range []shortener.CodeChecker{
			s.links.CodeExists, s.qrs.CodeExists, s.unauth.CodeExists,
		} {
			taken, err := check(ctx, code)
			if err != nil || taken {
				return taken, err
			}
		}

		return false, nil
	}

	return shortener.NewIssuer(gen, shortener.NewCodeFilter(1000, 0.01), exists, 5)
}

func newLinkHandler(t *testing.T, s *testStores) *handlers.LinkHandler {
	t.Helper()

	return handlers.NewLinkHandler(s.links, s.qrs, newTestIssuer(t, s), "http://localhost:8888", zap.NewNop())
}

func TestCreateLink(t *testing.T) {
	t.Run("creates link with generated code", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com/page"
		req.Body.Title = "Example"

		resp, err := handler.CreateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.Len(t, resp.Body.ShortCode, 6)
		assert.Contains(t, "ABCDEFGHI", strings.ToUpper(resp.Body.ShortCode[:1]))
		assert.Contains(t, resp.Body.ShortURL, resp.Body.ShortCode)
		assert.Equal(t, "https://example.com/page", resp.Body.OriginalURL)
	})

	t.Run("creates link with custom code", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com"
		req.Body.CustomCode = "my-brand"

		resp, err := handler.CreateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.Equal(t, "my-brand", resp.Body.ShortCode)
	})

	t.Run("rejects a taken custom code", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com"
		req.Body.CustomCode = "my-brand"

		_, err := handler.CreateLink(userCtx(testUserID), req)
		require.NoError(t, err)

		_, err = handler.CreateLink(userCtx("user-2"), req)
		assert.Error(t, err)
	})

	t.Run("rejects custom code differing only in case", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com"
		req.Body.CustomCode = "MyBrand"

		_, err := handler.CreateLink(userCtx(testUserID), req)
		require.NoError(t, err)

		req2 := &handlers.CreateLinkRequest{}
		req2.Body.URL = "https://example.com"
		req2.Body.CustomCode = "mybrand"

		_, err = handler.CreateLink(userCtx(testUserID), req2)
		assert.Error(t, err)
	})

	t.Run("creates linked qr record when requested", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com"
		req.Body.WantQRCode = true

		resp, err := handler.CreateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.WantQRCode)

		// The QR record shares the link's code.
		url, err := s.qrs.URLByCode(context.Background(), resp.Body.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("requires user identity", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "https://example.com"

		_, err := handler.CreateLink(context.Background(), req)

		assert.Error(t, err)
	})
}

func TestListLinks(t *testing.T) {
	t.Run("paginates newest first", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		for i := 0; i < 3; i++ {
			link := &shortener.ShortLink{
				ID:        "id-" + string(rune('a'+i)),
				UserID:    testUserID,
				ShortCode: "Aaa00" + string(rune('a'+i)),
				CreatedAt: time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
			}
			require.NoError(t, s.links.Save(context.Background(), link))
		}

		resp, err := handler.ListLinks(userCtx(testUserID), &handlers.ListLinksRequest{Page: 1, PerPage: 2})

		require.NoError(t, err)
		assert.Len(t, resp.Body.Items, 2)
		assert.Equal(t, int64(3), resp.Body.TotalItems)
		assert.Equal(t, 2, resp.Body.TotalPages)
		assert.Equal(t, "id-c", resp.Body.Items[0].ID)
	})

	t.Run("hidden filter excludes visible links", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "v", UserID: testUserID, ShortCode: "Aaa001",
		}))
		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "h", UserID: testUserID, ShortCode: "Aaa002", Hidden: true,
		}))

		resp, err := handler.ListLinks(userCtx(testUserID), &handlers.ListLinksRequest{Page: 1, PerPage: 10, Hidden: true})

		require.NoError(t, err)
		require.Len(t, resp.Body.Items, 1)
		assert.Equal(t, "h", resp.Body.Items[0].ID)
	})
}

func TestUpdateLink(t *testing.T) {
	t.Run("updates url and title", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "Aaa001", OriginalURL: "https://old.example.com",
		}))

		newURL := "https://new.example.com"
		newTitle := "New title"

		req := &handlers.UpdateLinkRequest{ID: "l1"}
		req.Body.URL = &newURL
		req.Body.Title = &newTitle

		resp, err := handler.UpdateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.Equal(t, newURL, resp.Body.OriginalURL)
		assert.Equal(t, newTitle, resp.Body.Title)
	})

	t.Run("carries title and visibility over to the linked qr record", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		create := &handlers.CreateLinkRequest{}
		create.Body.URL = "https://example.com"
		create.Body.Title = "Original"
		create.Body.WantQRCode = true

		created, err := handler.CreateLink(userCtx(testUserID), create)
		require.NoError(t, err)

		newTitle := "Renamed"
		hidden := true

		req := &handlers.UpdateLinkRequest{ID: created.Body.ID}
		req.Body.Title = &newTitle
		req.Body.Hidden = &hidden

		resp, err := handler.UpdateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Hidden)

		qr, err := s.qrs.ByLinkID(context.Background(), created.Body.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", qr.Title)
		assert.True(t, qr.Hidden)
	})

	t.Run("hiding on delete also hides the linked qr record", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		create := &handlers.CreateLinkRequest{}
		create.Body.URL = "https://example.com"
		create.Body.CustomCode = "keepme"
		create.Body.WantQRCode = true

		created, err := handler.CreateLink(userCtx(testUserID), create)
		require.NoError(t, err)

		resp, err := handler.DeleteLink(userCtx(testUserID), &handlers.DeleteLinkRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.False(t, resp.Body.Deleted)

		qr, err := s.qrs.ByLinkID(context.Background(), created.Body.ID)
		require.NoError(t, err)
		assert.True(t, qr.Hidden)
	})

	t.Run("changes the short code and marks it custom", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "Aaa001",
		}))

		newCode := "my-brand"
		req := &handlers.UpdateLinkRequest{ID: "l1"}
		req.Body.ShortCode = &newCode

		resp, err := handler.UpdateLink(userCtx(testUserID), req)

		require.NoError(t, err)
		assert.Equal(t, newCode, resp.Body.ShortCode)

		url, err := s.links.URLByCode(context.Background(), "MY-BRAND")
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	})

	t.Run("rejects a short code held by another link", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		create := &handlers.CreateLinkRequest{}
		create.Body.URL = "https://example.com"
		create.Body.CustomCode = "taken1"

		_, err := handler.CreateLink(userCtx(testUserID), create)
		require.NoError(t, err)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "Aaa001",
		}))

		newCode := "Taken1"
		req := &handlers.UpdateLinkRequest{ID: "l1"}
		req.Body.ShortCode = &newCode

		_, err = handler.UpdateLink(userCtx(testUserID), req)

		assert.Error(t, err)
	})

	t.Run("404 for another user's link", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: "someone-else", ShortCode: "Aaa001",
		}))

		newTitle := "x"
		req := &handlers.UpdateLinkRequest{ID: "l1"}
		req.Body.Title = &newTitle

		_, err := handler.UpdateLink(userCtx(testUserID), req)

		assert.Error(t, err)
	})
}

func TestDeleteLink(t *testing.T) {
	t.Run("hard deletes a plain link", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "Aaa001",
		}))

		resp, err := handler.DeleteLink(userCtx(testUserID), &handlers.DeleteLinkRequest{ID: "l1"})

		require.NoError(t, err)
		assert.True(t, resp.Body.Deleted)

		_, err = s.links.GetByID(context.Background(), "l1", testUserID)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("soft hides a customized link", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "my-brand", HasCustomCode: true,
		}))

		resp, err := handler.DeleteLink(userCtx(testUserID), &handlers.DeleteLinkRequest{ID: "l1"})

		require.NoError(t, err)
		assert.False(t, resp.Body.Deleted)

		link, err := s.links.GetByID(context.Background(), "l1", testUserID)
		require.NoError(t, err)
		assert.True(t, link.Hidden)
	})

	t.Run("soft hides a redirected link", func(t *testing.T) {
		s := newTestStores()
		handler := newLinkHandler(t, s)

		require.NoError(t, s.links.Save(context.Background(), &shortener.ShortLink{
			ID: "l1", UserID: testUserID, ShortCode: "Aaa001", Redirected: true,
		}))

		resp, err := handler.DeleteLink(userCtx(testUserID), &handlers.DeleteLinkRequest{ID: "l1"})

		require.NoError(t, err)
		assert.False(t, resp.Body.Deleted)
	})
}
