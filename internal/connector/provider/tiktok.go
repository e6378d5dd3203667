package provider

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

const (
	TikTokAuthBaseURL = "https://www.tiktok.com"
	TikTokAPIBaseURL  = "https://open.tiktokapis.com"
)

var DefaultTikTokScopes = []string{"user.info.basic", "video.publish"}

type TikTokConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	// Base URLs default to the production hosts.
	AuthBaseURL string
	APIBaseURL  string

	HTTPClient *http.Client
	Retry      RetryPolicy
}

// TikTok implements Adapter for the TikTok Login Kit v2 API. Every grant
// returns both tokens, and a refresh may rotate the refresh token.
type TikTok struct {
	cfg TikTokConfig
	ep  endpoint
}

func NewTikTok(cfg TikTokConfig) *TikTok {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultTikTokScopes
	}
	cfg.AuthBaseURL = strings.TrimRight(cmp.Or(cfg.AuthBaseURL, TikTokAuthBaseURL), "/")
	cfg.APIBaseURL = strings.TrimRight(cmp.Or(cfg.APIBaseURL, TikTokAPIBaseURL), "/")

	return &TikTok{
		cfg: cfg,
		ep:  newEndpoint(domain.PlatformTikTok, cfg.HTTPClient, cfg.Retry),
	}
}

func (t *TikTok) Platform() domain.Platform { return domain.PlatformTikTok }

func (t *TikTok) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_key", t.cfg.ClientKey)
	q.Set("scope", strings.Join(t.cfg.Scopes, ","))
	q.Set("response_type", "code")
	q.Set("redirect_uri", t.cfg.RedirectURI)
	q.Set("state", state)
	return t.cfg.AuthBaseURL + "/v2/auth/authorize/?" + q.Encode()
}

type tiktokTokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`

	// TikTok reports some failures with a 200 status.
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r tiktokTokenResponse) tokenSet() TokenSet {
	return TokenSet{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		Scope:        r.Scope,
		ExpiresIn:    time.Duration(r.ExpiresIn) * time.Second,
	}
}

func (t *TikTok) token(ctx context.Context, op string, form url.Values) (tiktokTokenResponse, error) {
	form.Set("client_key", t.cfg.ClientKey)
	form.Set("client_secret", t.cfg.ClientSecret)

	var resp tiktokTokenResponse
	if err := t.ep.postForm(ctx, op, t.cfg.APIBaseURL+"/v2/oauth/token/", form, &resp); err != nil {
		return tiktokTokenResponse{}, err
	}
	if resp.Error != "" {
		return tiktokTokenResponse{}, &Error{
			Kind:        KindPermanent,
			Platform:    domain.PlatformTikTok,
			Op:          op,
			StatusCode:  http.StatusOK,
			Code:        resp.Error,
			Description: resp.ErrorDescription,
		}
	}
	if resp.AccessToken == "" {
		return tiktokTokenResponse{}, &Error{
			Kind:     KindPermanent,
			Platform: domain.PlatformTikTok,
			Op:       op,
			Err:      errors.New("response has no access_token"),
		}
	}
	return resp, nil
}

func (t *TikTok) ExchangeCode(ctx context.Context, code string) (Grant, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", t.cfg.RedirectURI)

	resp, err := t.token(ctx, "exchange_code", form)
	if err != nil {
		return Grant{}, err
	}
	if resp.OpenID == "" {
		return Grant{}, &Error{
			Kind:     KindPermanent,
			Platform: domain.PlatformTikTok,
			Op:       "exchange_code",
			Err:      errors.New("response has no open_id"),
		}
	}

	return Grant{
		TokenSet:   resp.tokenSet(),
		ExternalID: resp.OpenID,
		RawProfile: map[string]any{
			"open_id":            resp.OpenID,
			"scope":              resp.Scope,
			"refresh_expires_in": resp.RefreshExpiresIn,
		},
	}, nil
}

func (t *TikTok) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	resp, err := t.token(ctx, "refresh", form)
	if err != nil {
		return TokenSet{}, err
	}
	return resp.tokenSet(), nil
}

type tiktokUserInfoResponse struct {
	Data struct {
		User struct {
			OpenID      string `json:"open_id"`
			UnionID     string `json:"union_id"`
			AvatarURL   string `json:"avatar_url"`
			DisplayName string `json:"display_name"`
		} `json:"user"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *TikTok) FetchProfile(ctx context.Context, accessToken, externalID string) Profile {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	var resp tiktokUserInfoResponse
	rawURL := t.cfg.APIBaseURL + "/v2/user/info/?fields=open_id,union_id,avatar_url,display_name"
	if err := t.ep.get(ctx, "fetch_profile", rawURL, header, &resp); err != nil {
		slogx.FromContext(ctx).Warn("tiktok profile unavailable", "external_id", externalID, "error", err)
		return Profile{}
	}
	if resp.Error.Code != "" && resp.Error.Code != "ok" {
		slogx.FromContext(ctx).Warn("tiktok profile unavailable",
			"external_id", externalID,
			"error_code", resp.Error.Code,
		)
		return Profile{}
	}

	return Profile{
		DisplayName: resp.Data.User.DisplayName,
		AvatarURL:   resp.Data.User.AvatarURL,
	}
}
