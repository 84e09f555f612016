package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

// AuthnMiddleware is the trust-boundary gate: it extracts the bearer token,
// verifies it, and either forwards the request with the resolved principal
// in the context or rejects it with 401 before any downstream handler runs.
//
// Every rejection looks identical to the client; the specific failure
// (missing, malformed, bad signature, expired, refresh-token misuse) is only
// recorded in the logs so validation internals don't leak.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerError(w)
				return
			}

			// A refresh token must never grant resource access.
			if err := claims.ValidateUse(jwtx.UseAccess); err != nil {
				log.Warn("non-access token presented at edge", "use", claims.Use)
				writeBearerError(w)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithPrincipal(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithPrincipal(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyUsername, c.Username)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-style bearer challenge. The body and header are deliberately the
// same for every failure mode.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)
}
