package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds per-request metadata: the caller's network identity for
// analytics and the user id asserted by the auth layer in front of us.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
	UserID    string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
