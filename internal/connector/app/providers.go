package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
)

// NewProviderRegistry registers an adapter for every platform whose client
// credentials are configured.
func NewProviderRegistry(cfg Config, logger *slog.Logger) *provider.Registry {
	client := &http.Client{
		// Per-attempt deadlines come from the retry policy.
		Timeout: 0,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
	retry := cfg.RetryPolicy()

	var adapters []provider.Adapter

	if cfg.TikTok.Enabled() {
		adapters = append(adapters, provider.NewTikTok(provider.TikTokConfig{
			ClientKey:    cfg.TikTok.ClientKey,
			ClientSecret: cfg.TikTok.ClientSecret,
			RedirectURI:  cfg.TikTok.RedirectURI,
			Scopes:       cfg.TikTok.Scopes,
			HTTPClient:   client,
			Retry:        retry,
		}))
	} else {
		logger.Info("tiktok credentials not configured; platform disabled")
	}

	if cfg.Instagram.Enabled() {
		adapters = append(adapters, provider.NewInstagram(provider.InstagramConfig{
			AppID:       cfg.Instagram.AppID,
			AppSecret:   cfg.Instagram.AppSecret,
			RedirectURI: cfg.Instagram.RedirectURI,
			Scopes:      cfg.Instagram.Scopes,
			HTTPClient:  client,
			Retry:       retry,
		}))
	} else {
		logger.Info("instagram credentials not configured; platform disabled")
	}

	return provider.NewRegistry(adapters...)
}
