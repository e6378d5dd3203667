package provider

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

const (
	InstagramAuthBaseURL  = "https://api.instagram.com"
	InstagramGraphBaseURL = "https://graph.instagram.com"

	// InstagramLongLivedTTL applies when a long-lived token response omits
	// expires_in.
	InstagramLongLivedTTL = 60 * 24 * time.Hour
)

var DefaultInstagramScopes = []string{"user_profile", "user_media"}

type InstagramConfig struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	Scopes      []string

	// Base URLs default to the production hosts.
	AuthBaseURL  string
	GraphBaseURL string

	HTTPClient *http.Client
	Retry      RetryPolicy
}

// Instagram implements Adapter for the Instagram Basic Display API.
//
// Instagram has no separate refresh token: the long-lived access token is
// refreshed with itself. ExchangeCode therefore returns the long-lived
// token as both AccessToken and RefreshToken, and Refresh expects it back.
type Instagram struct {
	cfg InstagramConfig
	ep  endpoint
}

func NewInstagram(cfg InstagramConfig) *Instagram {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultInstagramScopes
	}
	cfg.AuthBaseURL = strings.TrimRight(cmp.Or(cfg.AuthBaseURL, InstagramAuthBaseURL), "/")
	cfg.GraphBaseURL = strings.TrimRight(cmp.Or(cfg.GraphBaseURL, InstagramGraphBaseURL), "/")

	return &Instagram{
		cfg: cfg,
		ep:  newEndpoint(domain.PlatformInstagram, cfg.HTTPClient, cfg.Retry),
	}
}

func (i *Instagram) Platform() domain.Platform { return domain.PlatformInstagram }

func (i *Instagram) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", i.cfg.AppID)
	q.Set("redirect_uri", i.cfg.RedirectURI)
	q.Set("scope", strings.Join(i.cfg.Scopes, ","))
	q.Set("response_type", "code")
	q.Set("state", state)
	return i.cfg.AuthBaseURL + "/oauth/authorize?" + q.Encode()
}

type instagramShortLivedResponse struct {
	AccessToken string      `json:"access_token"`
	UserID      json.Number `json:"user_id"`
}

type instagramLongLivedResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (r instagramLongLivedResponse) tokenSet() TokenSet {
	expiresIn := time.Duration(r.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = InstagramLongLivedTTL
	}
	return TokenSet{
		AccessToken:  r.AccessToken,
		RefreshToken: r.AccessToken,
		TokenType:    r.TokenType,
		ExpiresIn:    expiresIn,
	}
}

func (i *Instagram) ExchangeCode(ctx context.Context, code string) (Grant, error) {
	form := url.Values{}
	form.Set("client_id", i.cfg.AppID)
	form.Set("client_secret", i.cfg.AppSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", i.cfg.RedirectURI)
	form.Set("code", code)

	var short instagramShortLivedResponse
	if err := i.ep.postForm(ctx, "exchange_code", i.cfg.AuthBaseURL+"/oauth/access_token", form, &short); err != nil {
		return Grant{}, err
	}
	if short.AccessToken == "" || short.UserID == "" {
		return Grant{}, i.malformed("exchange_code", "response has no access_token or user_id")
	}

	q := url.Values{}
	q.Set("grant_type", "ig_exchange_token")
	q.Set("client_secret", i.cfg.AppSecret)
	q.Set("access_token", short.AccessToken)

	long, err := i.longLived(ctx, "exchange_long_lived", i.cfg.GraphBaseURL+"/access_token?"+q.Encode())
	if err != nil {
		return Grant{}, err
	}

	return Grant{
		TokenSet:   long.tokenSet(),
		ExternalID: short.UserID.String(),
		RawProfile: map[string]any{"user_id": short.UserID.String()},
	}, nil
}

func (i *Instagram) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	q := url.Values{}
	q.Set("grant_type", "ig_refresh_token")
	q.Set("access_token", refreshToken)

	long, err := i.longLived(ctx, "refresh", i.cfg.GraphBaseURL+"/refresh_access_token?"+q.Encode())
	if err != nil {
		return TokenSet{}, err
	}
	return long.tokenSet(), nil
}

func (i *Instagram) longLived(ctx context.Context, op, rawURL string) (instagramLongLivedResponse, error) {
	var resp instagramLongLivedResponse
	if err := i.ep.get(ctx, op, rawURL, nil, &resp); err != nil {
		return instagramLongLivedResponse{}, err
	}
	if resp.AccessToken == "" {
		return instagramLongLivedResponse{}, i.malformed(op, "response has no access_token")
	}
	return resp, nil
}

func (i *Instagram) malformed(op, msg string) *Error {
	return &Error{
		Kind:     KindPermanent,
		Platform: domain.PlatformInstagram,
		Op:       op,
		Err:      errors.New(msg),
	}
}

type instagramUserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountType string `json:"account_type"`
	MediaCount  int    `json:"media_count"`
}

// FetchProfile reads the username. The Basic Display API exposes no avatar.
func (i *Instagram) FetchProfile(ctx context.Context, accessToken, externalID string) Profile {
	q := url.Values{}
	q.Set("fields", "id,username,account_type,media_count")
	q.Set("access_token", accessToken)

	var resp instagramUserResponse
	rawURL := i.cfg.GraphBaseURL + "/" + url.PathEscape(externalID) + "?" + q.Encode()
	if err := i.ep.get(ctx, "fetch_profile", rawURL, nil, &resp); err != nil {
		slogx.FromContext(ctx).Warn("instagram profile unavailable", "external_id", externalID, "error", err)
		return Profile{}
	}
	return Profile{DisplayName: resp.Username}
}
