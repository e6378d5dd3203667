package cryptox_test

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	for _, size := range []int{cryptox.TokenSize128, cryptox.TokenSize256} {
		token, err := cryptox.GenerateToken(size)
		require.NoError(t, err)
		require.Equal(t, url.QueryEscape(token), token, "safe in a query string")

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, size)
	}

	seen := make(map[string]struct{}, 100)
	for range 100 {
		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NotContains(t, seen, token)
		seen[token] = struct{}{}
	}

	_, err := cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	state := "connect-state"
	require.Equal(t, cryptox.FingerprintToken(state), cryptox.FingerprintToken(state))
	require.NotEqual(t, cryptox.FingerprintToken(state), cryptox.FingerprintToken(state+"x"))
	require.Len(t, cryptox.FingerprintToken(state), 43)
	require.NotContains(t, cryptox.FingerprintToken(state), state)
}
