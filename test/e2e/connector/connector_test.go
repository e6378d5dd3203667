//go:build integration

package connector_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	baseURL := setupConnectorContainer(t, nil)
	client := connectorsdk.NewClient(baseURL, "")
	ctx := context.Background()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Cipher)
	require.Equal(t, "local", ready.Checks.Lock)
}

func TestEphemeralCipherIsReported(t *testing.T) {
	t.Parallel()

	baseURL := setupConnectorContainer(t, map[string]string{"TOKEN_ENCRYPTION_KEY": ""})

	ready, err := connectorsdk.NewClient(baseURL, "").GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ephemeral", ready.Checks.Cipher)
}

func TestOperatorAuthentication(t *testing.T) {
	t.Parallel()

	baseURL := setupConnectorContainer(t, nil)
	ctx := context.Background()

	_, err := connectorsdk.NewClient(baseURL, "garbage").ListAccounts(ctx, "")
	requireAPIError(t, err, http.StatusUnauthorized, connectorsdk.ErrorCodeInvalidToken)

	_, err = newClient(t, baseURL, "op-1", "accounts:read").BeginConnect(ctx, "tiktok")
	requireAPIError(t, err, http.StatusForbidden, connectorsdk.ErrorCodeInsufficientScope)

	list, err := newClient(t, baseURL, "op-1", "accounts:read").ListAccounts(ctx, "")
	require.NoError(t, err)
	require.Empty(t, list.Accounts)
}

func TestConnectFlowWithoutPlatform(t *testing.T) {
	t.Parallel()

	baseURL := setupConnectorContainer(t, nil)
	client := newClient(t, baseURL, "op-1", allScopes...)
	ctx := context.Background()

	begin, err := client.BeginConnect(ctx, "tiktok")
	require.NoError(t, err)
	require.Contains(t, begin.AuthorizeURL, "client_key=e2e-client-key")
	stateFrom(t, begin.AuthorizeURL)

	t.Run("platform not configured", func(t *testing.T) {
		_, err := client.BeginConnect(ctx, "instagram")
		requireAPIError(t, err, http.StatusNotFound, connectorsdk.ErrorCodeUnsupportedPlatform)
	})

	t.Run("forged state", func(t *testing.T) {
		resp := getNoRedirect(t, baseURL+"/v1/oauth/tiktok/callback?code=abc&state=forged")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("state for another platform", func(t *testing.T) {
		state := stateFrom(t, begin.AuthorizeURL)
		resp := getNoRedirect(t, baseURL+"/v1/oauth/instagram/callback?code=abc&state="+url.QueryEscape(state))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		// The state is spent even though the platform did not match.
		resp = getNoRedirect(t, baseURL+"/v1/oauth/tiktok/callback?code=abc&state="+url.QueryEscape(state))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("user declined", func(t *testing.T) {
		resp := getNoRedirect(t, baseURL+"/v1/oauth/tiktok/callback?error=access_denied")
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := client.GetAccount(ctx, "01JNOTANACCOUNT0000000000")
		requireAPIError(t, err, http.StatusNotFound, connectorsdk.ErrorCodeNotFound)

		_, err = client.AccessToken(ctx, "01JNOTANACCOUNT0000000000")
		requireAPIError(t, err, http.StatusNotFound, connectorsdk.ErrorCodeNotFound)
	})
}

func TestCallbackRedirect(t *testing.T) {
	t.Parallel()

	baseURL := setupConnectorContainer(t, map[string]string{"CONNECT_RETURN_URL": "https://app.example/accounts"})

	resp := getNoRedirect(t, baseURL+"/v1/oauth/tiktok/callback?code=abc&state=forged")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "error", loc.Query().Get("status"))
	require.Equal(t, connectorsdk.ErrorCodeInvalidState, loc.Query().Get("error"))
}
