package enrich_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/snaplinkhq/snaplink/internal/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPInfoClient_Locate(t *testing.T) {
	t.Run("parses city and country", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/203.0.113.7/json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ip":"203.0.113.7","city":"Lagos","country":"NG"}`))
		}))
		defer srv.Close()

		client := enrich.NewIPInfoClient(srv.URL, time.Second)
		city, country, err := client.Locate(context.Background(), "203.0.113.7")

		require.NoError(t, err)
		assert.Equal(t, "Lagos", city)
		assert.Equal(t, "NG", country)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := enrich.NewIPInfoClient(srv.URL, time.Second)
		_, _, err := client.Locate(context.Background(), "203.0.113.7")

		assert.Error(t, err)
	})

	t.Run("respects context timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := enrich.NewIPInfoClient(srv.URL, time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, _, err := client.Locate(ctx, "203.0.113.7")

		assert.Error(t, err)
	})
}
