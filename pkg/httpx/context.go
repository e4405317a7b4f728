package httpx

import "context"

type ctxKey string

const (
	ctxKeyAuth             = ctxKey("auth")
	CtxKeyUserID    ctxKey = "user_id"
)

// AuthInfo carries the request attributes set by the authentication
// middleware. Handlers consume these; they never produce them.
type AuthInfo struct {
	Subject       string
	Authenticated bool
	Administrator bool
	Scopes        []string
}

// ContextWithAuth stores the authentication attributes for downstream
// handlers.
func ContextWithAuth(ctx context.Context, a AuthInfo) context.Context {
	ctx = context.WithValue(ctx, ctxKeyAuth, a)
	return context.WithValue(ctx, CtxKeyUserID, a.Subject)
}

// AuthFromContext returns the authentication attributes. ok is false when
// the middleware never ran, which indicates the handler was mounted on the
// wrong transport.
func AuthFromContext(ctx context.Context) (AuthInfo, bool) {
	a, ok := ctx.Value(ctxKeyAuth).(AuthInfo)
	return a, ok
}

func scopesFromCtx(ctx context.Context) []string {
	a, ok := AuthFromContext(ctx)
	if !ok {
		return nil
	}
	return a.Scopes
}
