package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/stretchr/testify/require"
)

func stateFrom(t *testing.T, authorizeURL string) string {
	t.Helper()

	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestConnectFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req, err := env.connect.Begin(ctx, domain.PlatformTikTok, "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, req.State)
	require.Equal(t, req.State, stateFrom(t, req.AuthorizeURL))
	require.True(t, env.clock.Now().Add(DefaultStateTTL).Equal(req.ExpiresAt))

	acc, err := env.connect.Complete(ctx, domain.PlatformTikTok, req.State, "abc")
	require.NoError(t, err)
	require.Equal(t, "owner-1", acc.OwnerID)
	require.Equal(t, "u1", acc.ExternalID)

	t.Run("state is single use", func(t *testing.T) {
		_, err := env.connect.Complete(ctx, domain.PlatformTikTok, req.State, "abc")
		require.ErrorIs(t, err, ErrInvalidState)
		require.EqualValues(t, 1, env.tiktok.exchangeCalls.Load())
	})
}

func TestConnectCompleteRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("unknown state", func(t *testing.T) {
		_, err := env.connect.Complete(ctx, domain.PlatformTikTok, "never-issued", "abc")
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("empty state", func(t *testing.T) {
		_, err := env.connect.Complete(ctx, domain.PlatformTikTok, "", "abc")
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("missing code", func(t *testing.T) {
		req, err := env.connect.Begin(ctx, domain.PlatformTikTok, "owner")
		require.NoError(t, err)
		_, err = env.connect.Complete(ctx, domain.PlatformTikTok, req.State, "")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("platform mismatch", func(t *testing.T) {
		req, err := env.connect.Begin(ctx, domain.PlatformInstagram, "owner")
		require.NoError(t, err)
		_, err = env.connect.Complete(ctx, domain.PlatformTikTok, req.State, "abc")
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("expired state", func(t *testing.T) {
		req, err := env.connect.Begin(ctx, domain.PlatformTikTok, "owner")
		require.NoError(t, err)
		env.clock.Advance(DefaultStateTTL + time.Second)
		_, err = env.connect.Complete(ctx, domain.PlatformTikTok, req.State, "abc")
		require.ErrorIs(t, err, ErrInvalidState)
	})

	require.Zero(t, env.tiktok.exchangeCalls.Load())
}

func TestConnectBeginUnsupportedPlatform(t *testing.T) {
	env := newTestEnv(t)
	env.connect.Providers = provider.NewRegistry(env.tiktok)

	_, err := env.connect.Begin(context.Background(), domain.PlatformInstagram, "owner")
	require.ErrorIs(t, err, provider.ErrUnsupportedPlatform)
}

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	used, err := env.connect.Begin(ctx, domain.PlatformTikTok, "owner")
	require.NoError(t, err)
	_, err = env.connect.Complete(ctx, domain.PlatformTikTok, used.State, "abc")
	require.NoError(t, err)

	_, err = env.connect.Begin(ctx, domain.PlatformTikTok, "owner")
	require.NoError(t, err)

	hk := NewHousekeepingService(env.store, quietLogger(), time.Minute)
	hk.Now = env.clock.Now

	require.EqualValues(t, 1, hk.Sweep(ctx), "only the consumed state is stale")

	env.clock.Advance(DefaultStateTTL)
	require.EqualValues(t, 1, hk.Sweep(ctx))
	require.Zero(t, hk.Sweep(ctx))

	hk.Start()
	hk.Stop()
}
