package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
	"github.com/sharedrop/sharedrop/internal/auth/store"
	"github.com/sharedrop/sharedrop/pkg/cryptox"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrDuplicateUsername  = errors.New("duplicate_username")
	ErrUserNotFound       = errors.New("user_not_found")
)

// UserService registers principals and verifies their credentials. It never
// reveals whether a given username exists: a failed lookup and a failed
// password check both come back as ErrInvalidCredentials, and the lookup
// miss still burns a full argon2 verification so the two paths take
// comparable time.
type UserService struct {
	Store store.Store
}

// Signup registers a new user with the default USER role.
func (s *UserService) Signup(ctx context.Context, username, password, preferredName string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if preferredName == "" {
		preferredName = username
	}

	exists, err := s.Store.Users().ExistsByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, ErrDuplicateUsername
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:      username,
		PreferredName: preferredName,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
	})
	if err != nil {
		// Lost the race against a concurrent signup with the same name.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// VerifyCredentials checks a username/password pair and returns the matching
// user. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.VerifyDecoy(password)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns the principal snapshot for an authenticated request.
func (s *UserService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
