package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/httpx"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

// Router is the gateway's edge. Auth endpoints pass through unauthenticated
// (that is where tokens come from); everything else sits behind the access
// token filter, so upstream services only ever see verified traffic.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	authURL  *url.URL
	filesURL *url.URL
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	authURL, filesURL *url.URL,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		authURL:      authURL,
		filesURL:     filesURL,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	authProxy := NewProxy(r.authURL)
	filesProxy := NewProxy(r.filesURL)

	// Token acquisition endpoints are the only unauthenticated passthrough.
	// Strict limit: these are the brute-force surface.
	r.Mux.Handle("/v1/auth/",
		httpx.Chain(authProxy,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Userinfo needs a valid access token and lives on the auth service.
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(authProxy,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// File sharing API: every request is filtered at the edge.
	r.Mux.Handle("/v1/files/",
		httpx.Chain(filesProxy,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /livez", r.livezHandler())
	r.Mux.Handle("GET /readyz", r.readyzHandler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) livezHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(r.startTime).String(),
			Version: r.buildVersion,
		})
	}
}

// readyzHandler reports 503 when the auth service cannot be reached. The
// gateway is useless without it: no tokens can be minted and nothing can
// be verified against a fresh principal.
func (r *Router) readyzHandler() http.HandlerFunc {
	probe := &http.Client{Timeout: 2 * time.Second}

	return func(w http.ResponseWriter, req *http.Request) {
		checks := &authsdk.HealthChecks{
			Upstream: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := r.probeAuth(req.Context(), probe); err != nil {
			checks.Upstream = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(r.startTime).String(),
			Version: r.buildVersion,
			Checks:  checks,
		})
	}
}

func (r *Router) probeAuth(ctx context.Context, client *http.Client) error {
	target := *r.authURL
	target.Path = "/livez"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
