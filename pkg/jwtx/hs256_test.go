package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharedrop/sharedrop/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T) *jwtx.HS256 {
	t.Helper()
	codec, err := jwtx.NewHS256(testSecret, "sharedrop-auth")
	require.NoError(t, err)
	return codec
}

func TestNewHS256_RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("too-short"), "sharedrop-auth")
	require.Error(t, err)
}

func TestHS256_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	claims := jwtx.NewAccessClaims("42", "alice@example.com", "USER", time.Minute, "sharedrop-auth", now)
	token, err := codec.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "42", got.Subject)
	require.Equal(t, "alice@example.com", got.Username)
	require.Equal(t, "USER", got.Role)
	require.Equal(t, jwtx.UseAccess, got.Use)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestHS256_ExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("before expiry", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("1", "u", "USER", time.Hour, "sharedrop-auth", time.Now().UTC())
		token, err := codec.Sign(claims)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.NoError(t, err)
	})

	t.Run("at or after expiry", func(t *testing.T) {
		// Issue in the past so exp has already been reached.
		claims := jwtx.NewAccessClaims("1", "u", "USER", time.Minute, "sharedrop-auth",
			time.Now().UTC().Add(-2*time.Minute))
		token, err := codec.Sign(claims)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestHS256_TamperedSignatureRejected(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwtx.NewAccessClaims("7", "bob", "ADMIN", time.Minute, "sharedrop-auth", time.Now().UTC())
	token, err := codec.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip every byte of the signature segment in turn; each mutation must
	// be rejected as an invalid signature, never silently accepted.
	sig := []byte(parts[2])
	for i := range sig {
		mutated := append([]byte(nil), sig...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		forged := parts[0] + "." + parts[1] + "." + string(mutated)
		if forged == token {
			continue
		}
		_, err := codec.Verify(forged)
		require.Error(t, err, "byte %d", i)
		require.NotErrorIs(t, err, jwtx.ErrExpired, "byte %d", i)
	}
}

func TestHS256_WrongSecretRejected(t *testing.T) {
	codec := newTestCodec(t)
	other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "sharedrop-auth")
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("7", "bob", "USER", time.Minute, "sharedrop-auth", time.Now().UTC())
	token, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256_MalformedRejected(t *testing.T) {
	codec := newTestCodec(t)

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", raw)
	}
}

func TestHS256_AlgMismatchRejected(t *testing.T) {
	codec := newTestCodec(t)

	// An unsigned (alg=none) token must be rejected before any claim logic.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone,
		jwtx.NewAccessClaims("1", "u", "USER", time.Minute, "sharedrop-auth", time.Now().UTC()))
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
}

func TestHS256_MissingExpiryRejected(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwtx.Claims{Username: "ghost", Use: jwtx.UseAccess}
	token, err := codec.Sign(claims)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestHS256_IssuerMismatchRejected(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwtx.NewAccessClaims("1", "u", "USER", time.Minute, "someone-else", time.Now().UTC())
	token, err := codec.Sign(claims)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
