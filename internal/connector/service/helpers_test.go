package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeAdapter struct {
	platform domain.Platform

	mu       sync.Mutex
	exchange func(code string) (provider.Grant, error)
	refresh  func(refreshToken string) (provider.TokenSet, error)
	profile  provider.Profile

	exchangeCalls atomic.Int32
	refreshCalls  atomic.Int32
}

func (f *fakeAdapter) Platform() domain.Platform { return f.platform }

func (f *fakeAdapter) AuthorizeURL(state string) string {
	return "https://auth.example/" + f.platform.String() + "?state=" + url.QueryEscape(state)
}

func (f *fakeAdapter) ExchangeCode(_ context.Context, code string) (provider.Grant, error) {
	f.exchangeCalls.Add(1)
	f.mu.Lock()
	fn := f.exchange
	f.mu.Unlock()
	return fn(code)
}

func (f *fakeAdapter) FetchProfile(context.Context, string, string) provider.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

func (f *fakeAdapter) Refresh(_ context.Context, refreshToken string) (provider.TokenSet, error) {
	f.refreshCalls.Add(1)
	f.mu.Lock()
	fn := f.refresh
	f.mu.Unlock()
	return fn(refreshToken)
}

func (f *fakeAdapter) onExchange(fn func(code string) (provider.Grant, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchange = fn
}

func (f *fakeAdapter) onRefresh(fn func(refreshToken string) (provider.TokenSet, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh = fn
}

type testEnv struct {
	store     *sqlite.Store
	clock     *fakeClock
	cipher    *cryptox.Cipher
	tokens    *TokenStore
	accounts  *AccountRegistry
	lifecycle *TokenLifecycleService
	connect   *ConnectService
	tiktok    *fakeAdapter
	instagram *fakeAdapter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	cipher, err := cryptox.NewCipher("service-test-secret")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	tiktok := &fakeAdapter{platform: domain.PlatformTikTok}
	tiktok.onExchange(func(code string) (provider.Grant, error) {
		return provider.Grant{
			TokenSet: provider.TokenSet{
				AccessToken:  "AT1",
				RefreshToken: "RT1",
				ExpiresIn:    86400 * time.Second,
			},
			ExternalID: "u1",
		}, nil
	})
	tiktok.onRefresh(func(string) (provider.TokenSet, error) {
		return provider.TokenSet{AccessToken: "AT2", RefreshToken: "RT2", ExpiresIn: 86400 * time.Second}, nil
	})
	instagram := &fakeAdapter{platform: domain.PlatformInstagram}

	tokens := &TokenStore{Store: st, Cipher: cipher, Now: clock.Now}
	accounts := &AccountRegistry{Store: st, Now: clock.Now}
	lifecycle := &TokenLifecycleService{
		Store:     st,
		Accounts:  accounts,
		Tokens:    tokens,
		Providers: provider.NewRegistry(tiktok, instagram),
		Now:       clock.Now,
	}

	return &testEnv{
		store:     st,
		clock:     clock,
		cipher:    cipher,
		tokens:    tokens,
		accounts:  accounts,
		lifecycle: lifecycle,
		connect: &ConnectService{
			Store:     st,
			Providers: lifecycle.Providers,
			Lifecycle: lifecycle,
			Now:       clock.Now,
		},
		tiktok:    tiktok,
		instagram: instagram,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
