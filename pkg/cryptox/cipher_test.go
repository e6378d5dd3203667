package cryptox_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := cryptox.NewCipher("operator-secret-for-tests")
	require.NoError(t, err)
	require.False(t, c.Ephemeral())

	for _, plaintext := range []string{
		"",
		"act.ExampleAccessToken",
		"rft.with/slashes+and=padding==",
		strings.Repeat("x", 4096),
		"ünïcødé ✓",
	} {
		ciphertext, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		if plaintext != "" {
			require.NotContains(t, ciphertext, plaintext)
		}

		decrypted, err := c.Decrypt(ciphertext)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)
	}
}

func TestCipherNonceIsFreshPerCall(t *testing.T) {
	t.Parallel()

	c, err := cryptox.NewCipher("operator-secret-for-tests")
	require.NoError(t, err)

	a, err := c.Encrypt("same-token")
	require.NoError(t, err)
	b, err := c.Encrypt("same-token")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCipherSameSecretSameKey(t *testing.T) {
	t.Parallel()

	first, err := cryptox.NewCipher("stable-secret")
	require.NoError(t, err)
	second, err := cryptox.NewCipher("stable-secret")
	require.NoError(t, err)

	ciphertext, err := first.Encrypt("AT1")
	require.NoError(t, err)

	plaintext, err := second.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "AT1", plaintext)
}

func TestCipherWrongKey(t *testing.T) {
	t.Parallel()

	c, err := cryptox.NewCipher("key-one")
	require.NoError(t, err)
	other, err := cryptox.NewCipher("key-two")
	require.NoError(t, err)

	ciphertext, err := c.Encrypt("AT1")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	require.Error(t, err)
	require.ErrorIs(t, err, cryptox.ErrDecryption)

	var decErr *cryptox.DecryptionError
	require.True(t, errors.As(err, &decErr))
	require.Equal(t, "authentication failed", decErr.Reason)
}

func TestCipherMalformedInput(t *testing.T) {
	t.Parallel()

	c, err := cryptox.NewCipher("operator-secret-for-tests")
	require.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := c.Decrypt("%%% not base64 %%%")
		require.ErrorIs(t, err, cryptox.ErrDecryption)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := c.Decrypt(base64.RawURLEncoding.EncodeToString([]byte("short")))
		require.ErrorIs(t, err, cryptox.ErrDecryption)
	})

	t.Run("tampered", func(t *testing.T) {
		ciphertext, err := c.Encrypt("AT1")
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff

		_, err = c.Decrypt(base64.RawURLEncoding.EncodeToString(raw))
		require.ErrorIs(t, err, cryptox.ErrDecryption)
	})
}

func TestNewCipherRawKey(t *testing.T) {
	t.Parallel()

	key := make([]byte, cryptox.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	secret := cryptox.RawKeyPrefix + base64.StdEncoding.EncodeToString(key)

	fromSecret, err := cryptox.NewCipher(secret)
	require.NoError(t, err)
	fromKey, err := cryptox.NewCipherFromKey(key)
	require.NoError(t, err)

	ciphertext, err := fromSecret.Encrypt("RT1")
	require.NoError(t, err)
	plaintext, err := fromKey.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "RT1", plaintext)

	_, err = cryptox.NewCipher(cryptox.RawKeyPrefix + base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}

func TestNewCipherRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := cryptox.NewCipher("   ")
	require.Error(t, err)
}

func TestEphemeralCipher(t *testing.T) {
	t.Parallel()

	c, err := cryptox.NewEphemeralCipher()
	require.NoError(t, err)
	require.True(t, c.Ephemeral())

	ciphertext, err := c.Encrypt("AT1")
	require.NoError(t, err)
	plaintext, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "AT1", plaintext)

	restarted, err := cryptox.NewEphemeralCipher()
	require.NoError(t, err)
	_, err = restarted.Decrypt(ciphertext)
	require.ErrorIs(t, err, cryptox.ErrDecryption)
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, cryptox.DeriveKey("abc"), cryptox.DeriveKey("abc"))
	require.NotEqual(t, cryptox.DeriveKey("abc"), cryptox.DeriveKey("abd"))
	require.Len(t, cryptox.DeriveKey("abc"), cryptox.KeySize)
}
