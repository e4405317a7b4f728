package httpx

import (
	"net/http"
	"slices"
	"strings"

	"github.com/verdigris-systems/ledgerd/pkg/jwtx"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token and records the resulting
// authentication attributes in the request context. It never rejects the
// request itself: handlers decide what an unauthenticated or unprivileged
// caller gets, so a missing or bad token simply yields
// AuthInfo{Authenticated: false}.
//
// adminScope is the scope that marks a caller as administrator.
func AuthnMiddleware(v jwtx.Verifier, adminScope string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			info := AuthInfo{}

			authz := r.Header.Get("Authorization")
			if authz != "" && strings.HasPrefix(authz, "Bearer ") {
				raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

				claims, err := v.Verify(raw)
				switch {
				case err != nil:
					log.Warn("jwt verify failed", "err", err)
				default:
					info = AuthInfo{
						Subject:       claims.Subject,
						Authenticated: true,
						Administrator: slices.Contains(claims.Scopes, adminScope),
						Scopes:        claims.Scopes,
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAuth(ctx, info)))
		})
	}
}
