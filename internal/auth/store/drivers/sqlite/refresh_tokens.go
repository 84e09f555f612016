package sqlite

import (
	"context"

	"github.com/sharedrop/sharedrop/internal/auth/domain"
	"github.com/sharedrop/sharedrop/internal/auth/store"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshTokenRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, jti, user_id, expires_at, used_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID.String(), t.JTI, t.UserID, t.ExpiresAt, mapOptionalTime(t.UsedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *refreshTokensRepo) GetRefreshTokenByJTI(
	ctx context.Context,
	jti string,
) (domain.RefreshTokenRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, jti, user_id, expires_at, used_at, created_at
		FROM refresh_tokens WHERE jti = ?`, jti)
	return scanRefreshToken(row)
}

func (r *refreshTokensRepo) MarkRefreshTokenUsed(ctx context.Context, jti string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET used_at = CURRENT_TIMESTAMP
		WHERE jti = ? AND used_at IS NULL`, jti)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET used_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND used_at IS NULL`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	return err
}
