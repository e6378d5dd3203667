package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	httpapi "github.com/aussiebroadwan/reelhub/internal/connector/http"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "reelhub-test"
	testSecret = "operator-token-secret-for-http-tests-0123"
)

var allScopes = []string{httpapi.ScopeAccountsRead, httpapi.ScopeAccountsWrite, httpapi.ScopeTokensRead}

type stubAdapter struct {
	platform domain.Platform

	mu      sync.Mutex
	grant   provider.Grant
	refresh func(refreshToken string) (provider.TokenSet, error)
}

func (s *stubAdapter) Platform() domain.Platform { return s.platform }

func (s *stubAdapter) AuthorizeURL(state string) string {
	return "https://provider.example/" + s.platform.String() + "/authorize?state=" + url.QueryEscape(state)
}

func (s *stubAdapter) ExchangeCode(_ context.Context, code string) (provider.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == "bad" {
		return provider.Grant{}, &provider.Error{Kind: provider.KindPermanent, Platform: s.platform, Op: "exchange_code", StatusCode: 400, Code: "invalid_grant"}
	}
	return s.grant, nil
}

func (s *stubAdapter) FetchProfile(context.Context, string, string) provider.Profile {
	return provider.Profile{DisplayName: "Display " + s.platform.String()}
}

func (s *stubAdapter) Refresh(_ context.Context, refreshToken string) (provider.TokenSet, error) {
	s.mu.Lock()
	fn := s.refresh
	s.mu.Unlock()
	return fn(refreshToken)
}

func (s *stubAdapter) onRefresh(fn func(refreshToken string) (provider.TokenSet, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = fn
}

type testServer struct {
	srv       *httptest.Server
	store     *sqlite.Store
	lifecycle *service.TokenLifecycleService
	tiktok    *stubAdapter
	signer    *jwtx.HS256Signer
	now       time.Time
}

type serverOption func(r *httpapi.Router)

func withReturnURL(u string) serverOption {
	return func(r *httpapi.Router) { r.ConnectReturnURL = u }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	cipher, err := cryptox.NewCipher("http-test-secret")
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tiktok := &stubAdapter{
		platform: domain.PlatformTikTok,
		grant: provider.Grant{
			TokenSet:   provider.TokenSet{AccessToken: "AT1", RefreshToken: "RT1", TokenType: "Bearer", ExpiresIn: time.Hour},
			ExternalID: "u1",
		},
	}
	tiktok.onRefresh(func(string) (provider.TokenSet, error) {
		return provider.TokenSet{AccessToken: "AT2", RefreshToken: "RT2", ExpiresIn: time.Hour}, nil
	})

	tokens := &service.TokenStore{Store: st, Cipher: cipher, Now: clock}
	accounts := &service.AccountRegistry{Store: st, Now: clock}
	lifecycle := &service.TokenLifecycleService{
		Store:     st,
		Accounts:  accounts,
		Tokens:    tokens,
		Providers: provider.NewRegistry(tiktok),
		Now:       clock,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter(jwtx.NewVerifierHS256([]byte(testSecret), testIssuer), "test", st, cipher, logger)
	router.Lifecycle = lifecycle
	router.ConnectService = &service.ConnectService{
		Store:     st,
		Providers: lifecycle.Providers,
		Lifecycle: lifecycle,
		Now:       clock,
	}
	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)

	return &testServer{srv: srv, store: st, lifecycle: lifecycle, tiktok: tiktok, signer: signer, now: now}
}

func (s *testServer) token(t *testing.T, operator string, scopes ...string) string {
	t.Helper()
	tok, err := s.signer.Sign(jwtx.NewOperatorClaims(operator, testIssuer, scopes, time.Hour, time.Now()))
	require.NoError(t, err)
	return tok
}

// do sends a request; an empty bearer sends no Authorization header.
func (s *testServer) do(t *testing.T, method, path, bearer string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, s.srv.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// connect runs the full browser flow for operator and returns the account id.
func (s *testServer) connect(t *testing.T, operator string) string {
	t.Helper()

	state := s.beginConnect(t, operator)
	resp := s.do(t, http.MethodGet, "/v1/oauth/tiktok/callback?code=abc&state="+url.QueryEscape(state), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	account := decode[struct {
		ID string `json:"id"`
	}](t, resp)
	require.NotEmpty(t, account.ID)
	return account.ID
}

func (s *testServer) beginConnect(t *testing.T, operator string) string {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/v1/connect/tiktok", s.token(t, operator, httpapi.ScopeAccountsWrite))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[struct {
		AuthorizeURL string `json:"authorize_url"`
	}](t, resp)
	u, err := url.Parse(body.AuthorizeURL)
	require.NoError(t, err)

	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}
