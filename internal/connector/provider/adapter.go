// Package provider talks to the OAuth and profile endpoints of each
// supported social platform.
package provider

import (
	"context"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
)

// TokenSet is what a provider hands back from a code exchange or a refresh.
// A zero ExpiresIn means the provider did not say.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    time.Duration
}

// Grant is the result of exchanging an authorization code.
type Grant struct {
	TokenSet
	ExternalID string
	RawProfile map[string]any
}

// Profile is display information for a connected account. Fields are empty
// when the provider could not be reached.
type Profile struct {
	DisplayName string
	AvatarURL   string
}

// Adapter is implemented once per platform. ExchangeCode and Refresh return
// *Error for provider failures and wrap ErrTimeout when ctx ends first.
type Adapter interface {
	Platform() domain.Platform

	// AuthorizeURL is where the user is sent to grant consent.
	AuthorizeURL(state string) string

	ExchangeCode(ctx context.Context, code string) (Grant, error)

	// FetchProfile is best-effort and never fails.
	FetchProfile(ctx context.Context, accessToken, externalID string) Profile

	Refresh(ctx context.Context, refreshToken string) (TokenSet, error)
}
