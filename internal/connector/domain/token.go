package domain

import "time"

// DefaultTokenType is used when a provider omits token_type.
const DefaultTokenType = "Bearer"

// TokenRecord is the encrypted credential set owned by exactly one Account.
// Only ciphertext is ever held here.
type TokenRecord struct {
	AccountID          string
	AccessTokenCipher  string
	RefreshTokenCipher string // empty when the provider gave no usable refresh token
	TokenType          string
	Scope              string
	ExpiresAt          *time.Time // nil means no known expiry
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasRefreshToken reports whether a refresh token is stored.
func (r *TokenRecord) HasRefreshToken() bool {
	return r.RefreshTokenCipher != ""
}

// IsExpired reports whether ExpiresAt is set and now is strictly after it.
// Records without an expiry are never expired by this check.
func (r *TokenRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// ExpiresWithin reports whether the record expires within d of now. A zero
// d is the same as IsExpired.
func (r *TokenRecord) ExpiresWithin(now time.Time, d time.Duration) bool {
	return r.ExpiresAt != nil && now.Add(d).After(*r.ExpiresAt)
}

// PlaintextToken is a decrypted credential set. It must not be stored or
// logged and should not outlive the call that needed it.
type PlaintextToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    *time.Time
	IsExpired    bool
}
