package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
	"github.com/sharedrop/sharedrop/internal/auth/store"
	"github.com/sharedrop/sharedrop/pkg/idx"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/sharedrop/sharedrop/pkg/slogx"
)

// ErrInvalidRefresh covers every way a presented refresh token can fail:
// bad signature, expired, wrong use, unknown or already-consumed JTI. The
// HTTP layer maps all of them to the same 401 so callers cannot probe which
// check tripped.
var ErrInvalidRefresh = errors.New("invalid_refresh_token")

// TokenService mints access/refresh pairs and runs the refresh exchange.
// Access tokens are short-lived and carry the role; refresh tokens are
// long-lived, carry identity only, and are single-use thanks to the JTI
// records kept in the store.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a fresh token pair for a verified user and records the
// refresh token's JTI for later single-use exchange.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issuePair(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// verified cryptographically, matched against its stored JTI record,
// consumed, and replaced, all within one transaction so a token can never
// be exchanged twice. The user row is re-read so role changes since login
// show up in the new access token.
func (s *TokenService) Refresh(ctx context.Context, rawToken string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(rawToken)
	if err != nil {
		l.Info("refresh token rejected", slog.String("reason", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}
	if err := claims.ValidateUse(jwtx.UseRefresh); err != nil {
		l.Info("refresh token rejected", slog.String("reason", "wrong use claim"))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefresh, jwtx.ErrInvalidClaim)
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByJTI(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if record.UserID != userID || record.Consumed() || record.Expired(now) {
			return ErrInvalidRefresh
		}

		if err := tx.RefreshTokens().MarkRefreshTokenUsed(ctx, claims.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		pair, err = s.issuePair(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("refresh token exchanged", slog.Int64("user_id", userID))
	return pair, nil
}

// issuePair signs the pair and records the refresh JTI using the given
// (usually tx-scoped) store.
func (s *TokenService) issuePair(ctx context.Context, st store.Store, user domain.User, now time.Time) (*domain.TokenPair, error) {
	subject := strconv.FormatInt(user.ID, 10)

	accessClaims := jwtx.NewAccessClaims(subject, user.Username, user.Role, s.AccessTTL, s.Issuer, now)
	accessToken, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwtx.NewRefreshClaims(subject, user.Username, s.RefreshTTL, s.Issuer, now)
	refreshToken, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	err = st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshTokenRecord{
		ID:        idx.New(),
		JTI:       refreshClaims.ID,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.RefreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessTTL,
	}, nil
}
