package store

import (
	"context"
	"errors"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback() on the
	// returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by its numeric id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ExistsByUsername reports whether a username is already registered.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// CreateUser inserts a new user and returns it with the store-assigned
	// id. Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateRole sets the role and bumps updated_at.
	UpdateRole(ctx context.Context, userID int64, role string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID int64) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores the record backing an issued refresh JWT.
	CreateRefreshToken(ctx context.Context, t domain.RefreshTokenRecord) error

	// GetRefreshTokenByJTI returns the record matching a presented token's JTI.
	GetRefreshTokenByJTI(ctx context.Context, jti string) (domain.RefreshTokenRecord, error)

	// MarkRefreshTokenUsed consumes the record so the token cannot be
	// exchanged twice.
	MarkRefreshTokenUsed(ctx context.Context, jti string) error

	// RevokeAllUserRefreshTokens bulk consumption for a user (e.g., password reset).
	RevokeAllUserRefreshTokens(ctx context.Context, userID int64) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
