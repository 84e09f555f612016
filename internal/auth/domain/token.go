package domain

import (
	"time"

	"github.com/sharedrop/sharedrop/pkg/idx"
)

// TokenPair is the result of a successful login or refresh exchange.
type TokenPair struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// RefreshTokenRecord is the server-side row backing an issued refresh JWT.
// The token itself is never stored; only its JTI is, so a presented token
// can be matched against exactly one unconsumed record. Marking the record
// used is what makes refresh tokens single-use.
type RefreshTokenRecord struct {
	ID        idx.ID
	JTI       string
	UserID    int64
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Consumed reports whether this record has already been exchanged.
func (r RefreshTokenRecord) Consumed() bool {
	return r.UsedAt != nil
}

// Expired reports whether the record is past its expiry at the given time.
func (r RefreshTokenRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
