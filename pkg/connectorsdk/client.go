package connectorsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// tokenExpiryBuffer is subtracted from expires_at before a cached token
	// is considered stale.
	tokenExpiryBuffer = 30 * time.Second

	// DefaultNoExpiryCacheTTL bounds how long a token without a reported
	// expiry is served from cache.
	DefaultNoExpiryCacheTTL = 5 * time.Minute
)

// Client talks to the connector service on behalf of one operator.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// OperatorToken is the bearer JWT sent with every authenticated call.
	OperatorToken string

	// NoExpiryCacheTTL applies to tokens the platform gave no lifetime for.
	// Zero disables caching those tokens.
	NoExpiryCacheTTL time.Duration

	Now func() time.Time

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	resp    AccessTokenResponse
	staleAt time.Time
}

// NewClient creates a client for baseURL authenticated with operatorToken.
func NewClient(baseURL, operatorToken string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		OperatorToken:    operatorToken,
		NoExpiryCacheTTL: DefaultNoExpiryCacheTTL,
		tokens:           make(map[string]cachedToken),
	}
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ListAccounts returns the operator's active accounts, optionally filtered
// by platform ("" for all).
func (c *Client) ListAccounts(ctx context.Context, platform string) (*ListAccountsResponse, error) {
	path := "/v1/accounts"
	if platform != "" {
		path += "?" + url.Values{"platform": {platform}}.Encode()
	}

	resp, err := c.doAuthRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var out ListAccountsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount returns one account owned by the operator.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*AccountResponse, error) {
	resp, err := c.doAuthRequest(ctx, http.MethodGet, accountPath(accountID, ""))
	if err != nil {
		return nil, err
	}

	var out AccountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// BeginConnect starts the OAuth flow for platform and returns the URL the
// account owner must visit.
func (c *Client) BeginConnect(ctx context.Context, platform string) (*BeginConnectResponse, error) {
	resp, err := c.doAuthRequest(ctx, http.MethodPost, "/v1/connect/"+url.PathEscape(platform))
	if err != nil {
		return nil, err
	}

	var out BeginConnectResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Disconnect deactivates the account. Stored credentials are kept so a
// later connect of the same account picks them up again.
func (c *Client) Disconnect(ctx context.Context, accountID string) error {
	c.forget(accountID)

	resp, err := c.doAuthRequest(ctx, http.MethodDelete, accountPath(accountID, ""))
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Revoke deletes the account's stored credentials and deactivates it.
func (c *Client) Revoke(ctx context.Context, accountID string) error {
	c.forget(accountID)

	resp, err := c.doAuthRequest(ctx, http.MethodDelete, accountPath(accountID, "/token"))
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Refresh forces the service to refresh the account's token now.
func (c *Client) Refresh(ctx context.Context, accountID string) (*RefreshResponse, error) {
	c.forget(accountID)

	resp, err := c.doAuthRequest(ctx, http.MethodPost, accountPath(accountID, "/refresh"))
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Token returns a valid access token for the account along with its
// metadata. Cached values are reused until 30 seconds before they expire.
func (c *Client) Token(ctx context.Context, accountID string) (*AccessTokenResponse, error) {
	if tok, ok := c.cached(accountID); ok {
		return &tok, nil
	}

	resp, err := c.doAuthRequest(ctx, http.MethodGet, accountPath(accountID, "/token"))
	if err != nil {
		return nil, err
	}

	var out AccessTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		c.forget(accountID)
		return nil, err
	}

	c.store(accountID, out)
	return &out, nil
}

// AccessToken is Token returning only the access token string.
func (c *Client) AccessToken(ctx context.Context, accountID string) (string, error) {
	tok, err := c.Token(ctx, accountID)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *Client) cached(accountID string) (AccessTokenResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tokens[accountID]
	if !ok {
		return AccessTokenResponse{}, false
	}
	if !c.now().Before(entry.staleAt) {
		delete(c.tokens, accountID)
		return AccessTokenResponse{}, false
	}
	return entry.resp, true
}

func (c *Client) store(accountID string, tok AccessTokenResponse) {
	var staleAt time.Time
	if tok.ExpiresAt != nil {
		staleAt = tok.ExpiresAt.Add(-tokenExpiryBuffer)
	} else {
		staleAt = c.now().Add(c.NoExpiryCacheTTL)
	}
	if !c.now().Before(staleAt) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens == nil {
		c.tokens = make(map[string]cachedToken)
	}
	c.tokens[accountID] = cachedToken{resp: tok, staleAt: staleAt}
}

func (c *Client) forget(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, accountID)
}

func accountPath(accountID, suffix string) string {
	return "/v1/accounts/" + url.PathEscape(accountID) + suffix
}
