package http

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/sharedrop/sharedrop/pkg/httpx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

// Headers the gateway stamps onto upstream requests after verifying the
// caller's access token. Inbound values are always stripped first so a
// client can never smuggle its own principal past the filter.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUsername = "X-Username"
	HeaderUserRole = "X-User-Role"
)

// NewProxy builds a reverse proxy to the given upstream. When the request
// context carries a verified principal (set by AuthnMiddleware), the
// principal is forwarded as trusted headers; otherwise the headers are
// simply removed.
func NewProxy(target *url.URL) http.Handler {
	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.Host = target.Host
			// Path, query, and remaining headers are preserved.

			req.Header.Del(HeaderUserID)
			req.Header.Del(HeaderUsername)
			req.Header.Del(HeaderUserRole)

			ctx := req.Context()
			if userID := httpx.UserIDFromCtx(ctx); userID != "" {
				req.Header.Set(HeaderUserID, userID)
				req.Header.Set(HeaderUsername, httpx.UsernameFromCtx(ctx))
				req.Header.Set(HeaderUserRole, httpx.RoleFromCtx(ctx))
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("upstream unreachable",
				"upstream", target.Host,
				"path", r.URL.Path,
				"err", err,
			)
			httpx.WriteJSON(w, http.StatusBadGateway, map[string]string{
				"error":             "bad_gateway",
				"error_description": "upstream service unavailable",
			})
		},
	}

	return proxy
}
