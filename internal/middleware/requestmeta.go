package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplinkhq/snaplink/internal/handlers"
)

// UserIDHeader carries the caller's identity, asserted by the auth layer in
// front of this service.
const UserIDHeader = "X-User-ID"

// RequestMeta is a middleware that adds client IP, user-agent, referrer, and
// the asserted user id to the request context.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
			UserID:    ctx.Header(UserIDHeader),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
