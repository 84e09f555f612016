package http_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	authhttp "github.com/sharedrop/sharedrop/internal/auth/http"
	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/internal/auth/store/drivers/sqlite"
	"github.com/sharedrop/sharedrop/pkg/authsdk"
	"github.com/sharedrop/sharedrop/pkg/cryptox"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test-*")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newTestServer wires a full auth service against a throwaway sqlite file
// and returns a typed client pointed at it.
func newTestServer(t *testing.T) *authsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "sharedrop-auth")
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "auth-test", Level: "error"})

	router := authhttp.NewRouter(codec, "test", st, logger)
	router.UserService = &service.UserService{Store: st}
	router.TokenService = &service.TokenService{
		Signer:     codec,
		Verifier:   codec,
		Store:      st,
		Issuer:     "sharedrop-auth",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL)
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	user, err := client.Signup(ctx, authsdk.SignupRequest{
		Username:      "alice@example.com",
		Password:      "correct-horse-battery",
		PreferredName: "Alice",
	})
	require.NoError(t, err)
	require.Positive(t, user.ID)
	require.Equal(t, "USER", user.Role)

	t.Run("duplicate signup is a 409", func(t *testing.T) {
		_, err := client.Signup(ctx, authsdk.SignupRequest{
			Username: "alice@example.com",
			Password: "another-password-entirely",
		})
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 409, apiErr.StatusCode)
		require.Equal(t, authsdk.ErrorCodeDuplicateUsername, apiErr.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := client.Signup(ctx, authsdk.SignupRequest{
			Username: "bob@example.com",
			Password: "short",
		})
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 400, apiErr.StatusCode)
	})

	login, err := client.Login(ctx, "alice@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.Equal(t, user.ID, login.User.ID)
	require.Equal(t, "Bearer", login.TokenType)
	require.Equal(t, int((15 * time.Minute).Seconds()), login.ExpiresIn)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	t.Run("wrong password is a plain 401", func(t *testing.T) {
		_, err := client.Login(ctx, "alice@example.com", "wrong-password-here")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
		require.Equal(t, authsdk.ErrorCodeUnauthorized, apiErr.Code)
	})

	t.Run("unknown user gets the identical 401", func(t *testing.T) {
		_, err := client.Login(ctx, "nobody@example.com", "correct-horse-battery")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
		require.Equal(t, authsdk.ErrorCodeUnauthorized, apiErr.Code)
	})

	t.Run("userinfo with the access token", func(t *testing.T) {
		info, err := client.UserInfo(ctx, login.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, info.ID)
		require.Equal(t, "alice@example.com", info.Username)
	})

	t.Run("userinfo rejects the refresh token", func(t *testing.T) {
		_, err := client.UserInfo(ctx, login.RefreshToken)
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		next, err := client.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, next.User.ID)
		require.NotEqual(t, login.AccessToken, next.AccessToken)
		require.NotEqual(t, login.RefreshToken, next.RefreshToken)

		// The consumed refresh token is dead.
		_, err = client.Refresh(ctx, login.RefreshToken)
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 401, apiErr.StatusCode)

		// The new access token works at userinfo.
		info, err := client.UserInfo(ctx, next.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, info.ID)
	})
}
