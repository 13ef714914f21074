package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplinkhq/snaplink/internal/ratelimit"
)

// RegisterRoutes registers all API routes with per-endpoint rate limit
// configuration.
func RegisterRoutes(
	api huma.API,
	redirects *RedirectHandler,
	links *LinkHandler,
	qrcodes *QRHandler,
	reports *AnalyticsHandler,
	health *HealthHandler,
) {
	// Creation endpoints share the strict write budget the public site
	// enforces: 5 per minute per client, with an hourly backstop.
	strictCreate := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 5},
			{Window: time.Hour, Max: 100},
		},
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{ratelimit.MetadataKey: strictCreate},
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List short links",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/api/links/{id}",
		Summary:     "Get short link",
		Tags:        []string{"Links"},
	}, links.GetLink)

	huma.Register(api, huma.Operation{
		OperationID: "update-link",
		Method:      http.MethodPatch,
		Path:        "/api/links/{id}",
		Summary:     "Update short link",
		Tags:        []string{"Links"},
	}, links.UpdateLink)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/api/links/{id}",
		Summary:     "Delete or hide short link",
		Description: "Hard-deletes links that were never customized or redirected; soft-hides the rest.",
		Tags:        []string{"Links"},
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "create-qr",
		Method:      http.MethodPost,
		Path:        "/api/qrcodes",
		Summary:     "Create QR destination",
		Tags:        []string{"QR"},
		Metadata:    map[string]any{ratelimit.MetadataKey: strictCreate},
	}, qrcodes.CreateQR)

	huma.Register(api, huma.Operation{
		OperationID: "duplicate-qr",
		Method:      http.MethodPost,
		Path:        "/api/qrcodes/{id}/duplicate",
		Summary:     "Duplicate QR destination",
		Tags:        []string{"QR"},
		Metadata:    map[string]any{ratelimit.MetadataKey: strictCreate},
	}, qrcodes.DuplicateQR)

	huma.Register(api, huma.Operation{
		OperationID: "create-public-qr",
		Method:      http.MethodPost,
		Path:        "/api/public/qrcodes",
		Summary:     "Create anonymous QR destination",
		Tags:        []string{"QR"},
		Metadata:    map[string]any{ratelimit.MetadataKey: strictCreate},
	}, qrcodes.CreateUnauthQR)

	huma.Register(api, huma.Operation{
		OperationID: "analytics-overview",
		Method:      http.MethodGet,
		Path:        "/api/analytics/overview",
		Summary:     "Lifetime totals",
		Tags:        []string{"Analytics"},
	}, reports.Overview)

	huma.Register(api, huma.Operation{
		OperationID: "analytics-series",
		Method:      http.MethodGet,
		Path:        "/api/analytics/series",
		Summary:     "Current month click series",
		Tags:        []string{"Analytics"},
	}, reports.Series)

	huma.Register(api, huma.Operation{
		OperationID: "analytics-breakdown",
		Method:      http.MethodGet,
		Path:        "/api/analytics/breakdown",
		Summary:     "Top locations, devices and browsers",
		Tags:        []string{"Analytics"},
	}, reports.Breakdown)

	huma.Register(api, huma.Operation{
		OperationID: "analytics-top-links",
		Method:      http.MethodGet,
		Path:        "/api/analytics/top-links",
		Summary:     "Most clicked links",
		Tags:        []string{"Analytics"},
	}, reports.TopLinks)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, health.Check)

	huma.Register(api, huma.Operation{
		OperationID: "root-redirect",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Redirect to frontend",
		Tags:        []string{"Redirect"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, redirects.Root)

	// The redirect route is registered last so static API prefixes win.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect short code",
		Description: "Resolves a short code across links and QR destinations and redirects, falling back to the configured destination for unknown codes.",
		Tags:        []string{"Redirect"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, redirects.Redirect)
}
