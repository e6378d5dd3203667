package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "reelhub-connector")

	claims := jwtx.NewOperatorClaims("operator-1", "reelhub-connector",
		[]string{"accounts:read", "tokens:read"}, time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "operator-1", got.Subject)
	require.True(t, got.HasScope("tokens:read"))
	require.False(t, got.HasScope("accounts:write"))
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "reelhub-connector")

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte(strings.Repeat("z", 32)))
		require.NoError(t, err)
		token, err := other.Sign(jwtx.NewOperatorClaims("op", "reelhub-connector", nil, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewOperatorClaims("op", "someone-else", nil, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewOperatorClaims("op", "reelhub-connector", nil, time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtx.NewOperatorClaims("op", "reelhub-connector", nil, time.Hour, time.Now()))
		signed, err := token.SignedString(testSecret)
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		require.Error(t, err)
	})
}

func TestSignerRequiresLongSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.Error(t, err)
}

func TestValidateExpiryAt(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claims := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
	}}

	require.ErrorIs(t, claims.ValidateExpiryAt(now, 0), jwtx.ErrExpired)
	require.NoError(t, claims.ValidateExpiryAt(now, 30*time.Second))

	claims.NotBefore = jwt.NewNumericDate(now.Add(time.Minute))
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
	require.ErrorIs(t, claims.ValidateExpiryAt(now, 0), jwtx.ErrNotYetValid)
}
