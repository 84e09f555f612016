package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the smallest signing secret we accept for HS256.
// HMAC-SHA256 keys shorter than the hash output weaken the construction.
const MinSecretBytes = 32

// HS256 signs and verifies tokens with a single symmetric secret shared by
// every service that needs to validate tokens. The secret is loaded once at
// startup and treated as immutable for the process lifetime.
type HS256 struct {
	secret []byte
	issuer string
}

var (
	_ Signer   = (*HS256)(nil)
	_ Verifier = (*HS256)(nil)
)

// NewHS256 creates a symmetric signer/verifier. The secret must be at
// least MinSecretBytes long; a process without a usable trust anchor must
// refuse to start rather than serve authenticated routes.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwtx: signing secret must be at least %d bytes, got %d",
			MinSecretBytes, len(secret))
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign encodes and signs the claims. Pure CPU work, no side effects.
func (h *HS256) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks the signature and the registered time
// claims, and enforces the issuer. The signature is always checked before
// any claim is inspected, so forged tokens never reach business logic.
// Tokens without an exp claim are rejected outright.
func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// mapParseError translates golang-jwt errors into our sentinel taxonomy so
// callers can switch on stable errors instead of library internals.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidClaim
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
