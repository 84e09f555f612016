package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Access tokens are kept short so a leaked
// token has a small blast radius; refresh tokens are long-lived for user
// convenience and can only be traded in for a new pair.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token use values carried in the "use" claim. A refresh token must never
// be accepted where an access token is expected, and vice versa.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims are the token claims used across the platform.
type Claims struct {
	jwt.RegisteredClaims

	/* Cross-service custom fields */

	// Username of the authenticated user.
	Username string `json:"username,omitempty"`

	// Role of the user at issue time (e.g. "USER", "ADMIN"). Only present
	// on access tokens; refresh tokens carry identity, never authorization.
	Role string `json:"role,omitempty"`

	// Use distinguishes access from refresh tokens.
	Use string `json:"use"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(
	subject, username, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Username:         username,
		Role:             role,
		Use:              UseAccess,
	}
}

// NewRefreshClaims builds refresh-token claims. Role is deliberately
// omitted: the user's current role is re-read from the store at refresh
// time, so a stale role embedded here could never leak forward.
func NewRefreshClaims(
	subject, username string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Username:         username,
		Use:              UseRefresh,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. There
// might be a better way of doing this, but I'm being lazy and using random.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateUse ensures the token was minted for the expected purpose.
func (c *Claims) ValidateUse(expected string) error {
	if c.Use != expected {
		return ErrWrongUse
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	// A token without an expiry is never acceptable.
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
