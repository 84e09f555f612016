package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
	"github.com/sharedrop/sharedrop/internal/auth/service"
	"github.com/sharedrop/sharedrop/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *service.UserService {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &service.UserService{Store: s}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	user, err := svc.Signup(ctx, "alice@example.com", "hunter2hunter2", "Alice")
	require.NoError(t, err)
	require.Positive(t, user.ID)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Signup(ctx, "alice@example.com", "another-password", "Imposter")
		require.ErrorIs(t, err, service.ErrDuplicateUsername)
	})

	t.Run("preferred name defaults to username", func(t *testing.T) {
		u, err := svc.Signup(ctx, "bob@example.com", "hunter2hunter2", "")
		require.NoError(t, err)
		require.Equal(t, "bob@example.com", u.PreferredName)
	})
}

func TestVerifyCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Signup(ctx, "alice@example.com", "correct-horse-battery", "Alice")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.VerifyCredentials(ctx, "alice@example.com", "correct-horse-battery")
		require.NoError(t, err)
		require.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		_, err := svc.VerifyCredentials(ctx, "nobody@example.com", "correct-horse-battery")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Signup(ctx, "alice@example.com", "hunter2hunter2", "Alice")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Username, user.Username)

	_, err = svc.GetUser(ctx, 999999)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
