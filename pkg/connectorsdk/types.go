package connectorsdk

import "time"

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	// Error is a machine readable code (e.g. "reauthorization_required")
	Error string `json:"error"`

	// ErrorDescription is a human readable explanation
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Accounts
// ============================================================================

// AccountResponse describes one connected social account. Credentials are
// never part of it.
type AccountResponse struct {
	ID          string     `json:"id"`
	Platform    string     `json:"platform"`
	ExternalID  string     `json:"external_id"`
	DisplayName string     `json:"display_name,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Active      bool       `json:"active"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListAccountsResponse is returned by GET /v1/accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ============================================================================
// Connect flow
// ============================================================================

// BeginConnectResponse is returned by POST /v1/connect/{platform}. The
// caller sends the account owner's browser to AuthorizeURL before ExpiresAt.
type BeginConnectResponse struct {
	Platform     string    `json:"platform"`
	AuthorizeURL string    `json:"authorize_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ============================================================================
// Tokens
// ============================================================================

// AccessTokenResponse is returned by GET /v1/accounts/{id}/token.
type AccessTokenResponse struct {
	AccountID   string `json:"account_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope,omitempty"`

	// ExpiresAt is omitted when the platform did not report a lifetime
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RefreshResponse is returned by POST /v1/accounts/{id}/refresh. The new
// access token itself is fetched with the token endpoint.
type RefreshResponse struct {
	AccountID string     `json:"account_id"`
	TokenType string     `json:"token_type"`
	Scope     string     `json:"scope,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz (only readyz fills Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the service uptime (e.g. "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the service dependencies.
type HealthChecks struct {
	// Database is "ok" or the ping error
	Database string `json:"database"`

	// Cipher is "ok", or "ephemeral" when stored credentials will not
	// survive a restart
	Cipher string `json:"cipher"`

	// Lock is "local", "ok" for a reachable Redis, or the ping error
	Lock string `json:"lock"`
}
