package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gatewayhttp "github.com/sharedrop/sharedrop/internal/gateway/http"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	Path     string
	UserID   string
	Username string
	Role     string
}

// echoBackend records every request it receives and echoes the trusted
// principal headers back, so tests can assert what crossed the boundary.
func echoBackend(t *testing.T, requests *[]seenRequest) *url.URL {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, seenRequest{
			Path:     r.URL.Path,
			UserID:   r.Header.Get(gatewayhttp.HeaderUserID),
			Username: r.Header.Get(gatewayhttp.HeaderUsername),
			Role:     r.Header.Get(gatewayhttp.HeaderUserRole),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func TestGatewayEdgeFiltering(t *testing.T) {
	codec, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "sharedrop-auth")
	require.NoError(t, err)

	var authSeen, filesSeen []seenRequest
	authURL := echoBackend(t, &authSeen)
	filesURL := echoBackend(t, &filesSeen)

	logger := slogx.New(slogx.Config{Service: "gateway-test", Level: "error"})
	router := gatewayhttp.NewRouter(codec, "test", authURL, filesURL, logger)
	router.ApplyRoutes()

	gateway := httptest.NewServer(router)
	t.Cleanup(gateway.Close)

	get := func(path, token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, gateway.URL+path, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	accessToken := func(sub, username, role string) string {
		claims := jwtx.NewAccessClaims(sub, username, role, time.Minute, "sharedrop-auth", time.Now().UTC())
		token, err := codec.Sign(claims)
		require.NoError(t, err)
		return token
	}

	t.Run("file requests without a token never reach the backend", func(t *testing.T) {
		filesSeen = nil
		resp := get("/v1/files/123", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Empty(t, filesSeen)
	})

	t.Run("expired token is rejected at the edge", func(t *testing.T) {
		filesSeen = nil
		claims := jwtx.NewAccessClaims("7", "mallory", "USER", time.Minute, "sharedrop-auth",
			time.Now().UTC().Add(-time.Hour))
		token, err := codec.Sign(claims)
		require.NoError(t, err)

		resp := get("/v1/files/123", token)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Empty(t, filesSeen)
	})

	t.Run("refresh token grants nothing", func(t *testing.T) {
		filesSeen = nil
		claims := jwtx.NewRefreshClaims("7", "mallory", time.Hour, "sharedrop-auth", time.Now().UTC())
		token, err := codec.Sign(claims)
		require.NoError(t, err)

		resp := get("/v1/files/123", token)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Empty(t, filesSeen)
	})

	t.Run("valid token is forwarded with trusted principal headers", func(t *testing.T) {
		filesSeen = nil
		resp := get("/v1/files/123", accessToken("42", "alice", "ADMIN"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, filesSeen, 1)
		require.Equal(t, "/v1/files/123", filesSeen[0].Path)
		require.Equal(t, "42", filesSeen[0].UserID)
		require.Equal(t, "alice", filesSeen[0].Username)
		require.Equal(t, "ADMIN", filesSeen[0].Role)
	})

	t.Run("auth endpoints pass through unauthenticated", func(t *testing.T) {
		authSeen = nil
		resp, err := http.Post(gateway.URL+"/v1/auth/login", "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, authSeen, 1)
		require.Equal(t, "/v1/auth/login", authSeen[0].Path)
	})

	t.Run("spoofed principal headers are stripped", func(t *testing.T) {
		authSeen = nil
		req, err := http.NewRequest(http.MethodPost, gateway.URL+"/v1/auth/login", nil)
		require.NoError(t, err)
		req.Header.Set(gatewayhttp.HeaderUserID, "1")
		req.Header.Set(gatewayhttp.HeaderUserRole, "ADMIN")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Len(t, authSeen, 1)
		require.Empty(t, authSeen[0].UserID)
		require.Empty(t, authSeen[0].Role)
	})

	t.Run("livez is served locally", func(t *testing.T) {
		resp := get("/livez", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var health map[string]any
		require.NoError(t, json.Unmarshal(body, &health))
		require.Equal(t, "ok", health["status"])
	})

	t.Run("readyz probes the auth service", func(t *testing.T) {
		resp := get("/readyz", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestGatewayReadyzDegraded(t *testing.T) {
	codec, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "sharedrop-auth")
	require.NoError(t, err)

	// Point the gateway at a dead upstream.
	deadURL, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "gateway-test", Level: "error"})
	router := gatewayhttp.NewRouter(codec, "test", deadURL, deadURL, logger)
	router.ApplyRoutes()

	gateway := httptest.NewServer(router)
	t.Cleanup(gateway.Close)

	resp, err := http.Get(gateway.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
