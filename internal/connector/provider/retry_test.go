package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyTransientExhaustsBudget(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var delays []time.Duration
	retry := provider.RetryPolicy{
		MaxRetries:     3,
		BaseDelay:      time.Millisecond,
		AttemptTimeout: time.Second,
		OnRetry: func(_ int, d time.Duration) {
			delays = append(delays, d)
		},
	}
	tt := provider.NewTikTok(provider.TikTokConfig{APIBaseURL: srv.URL, Retry: retry})

	_, err := tt.Refresh(context.Background(), "RT1")
	require.Error(t, err)
	require.True(t, provider.IsTransient(err))
	require.False(t, errors.Is(err, provider.ErrTimeout))

	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)

	require.EqualValues(t, 4, hits.Load())
	require.Len(t, delays, 3)
	for i := 1; i < len(delays); i++ {
		require.Greater(t, delays[i], delays[i-1])
	}
}

func TestRetryPolicyPermanentIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"refresh token revoked"}`))
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 2},
	})

	_, err := tt.Refresh(context.Background(), "RT1")
	require.True(t, provider.IsPermanent(err))
	require.EqualValues(t, 1, hits.Load())

	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "invalid_grant", pe.Code)
	require.Equal(t, "refresh token revoked", pe.Description)
	require.Equal(t, domain.PlatformTikTok, pe.Platform)
}

func TestRetryPolicyRecovers(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"AT2","refresh_token":"RT2","expires_in":86400}`))
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 2},
	})

	ts, err := tt.Refresh(context.Background(), "RT1")
	require.NoError(t, err)
	require.Equal(t, "AT2", ts.AccessToken)
	require.EqualValues(t, 3, hits.Load())
}

func TestRetryPolicyCallerDeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tt.Refresh(ctx, "RT1")
	require.ErrorIs(t, err, provider.ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, provider.IsTransient(err))
	require.False(t, provider.IsPermanent(err))
}

func TestRetryPolicyAttemptTimeoutIsTransient(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-r.Context().Done()
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 1, AttemptTimeout: 20 * time.Millisecond},
	})

	_, err := tt.Refresh(context.Background(), "RT1")
	require.True(t, provider.IsTransient(err))
	require.False(t, errors.Is(err, provider.ErrTimeout), "no caller deadline was set")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.EqualValues(t, 2, hits.Load())
}

func TestRetryPolicyCallerCancelIsNotTimeout(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := tt.Refresh(ctx, "RT1")
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, errors.Is(err, provider.ErrTimeout))
	require.False(t, provider.IsTransient(err))
}

func TestRetryPolicyBudget(t *testing.T) {
	t.Parallel()

	// 3 attempts of 10s, waits of 2s and 4s.
	require.Equal(t, 36*time.Second, provider.DefaultRetryPolicy().Budget())

	p := provider.RetryPolicy{MaxRetries: 5, BaseDelay: time.Second, AttemptTimeout: 5 * time.Second}
	require.Equal(t, 6*5*time.Second+31*time.Second, p.Budget())

	capped := provider.RetryPolicy{MaxRetries: 50, BaseDelay: time.Second, AttemptTimeout: 5 * time.Second}
	require.Equal(t, p.Budget(), capped.Budget())

	require.Equal(t, provider.DefaultAttemptTimeout, provider.RetryPolicy{}.Budget())
}

func TestRetryPolicyCapsRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tt := provider.NewTikTok(provider.TikTokConfig{
		APIBaseURL: srv.URL,
		Retry:      provider.RetryPolicy{MaxRetries: 50},
	})

	_, err := tt.Refresh(context.Background(), "RT1")
	require.True(t, provider.IsTransient(err))
	require.EqualValues(t, provider.MaxRetriesCap+1, hits.Load())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistry(
		provider.NewTikTok(provider.TikTokConfig{}),
		provider.NewInstagram(provider.InstagramConfig{}),
	)
	require.Equal(t, []domain.Platform{domain.PlatformInstagram, domain.PlatformTikTok}, reg.Platforms())

	a, err := reg.Get(domain.PlatformTikTok)
	require.NoError(t, err)
	require.Equal(t, domain.PlatformTikTok, a.Platform())

	_, err = provider.NewRegistry().Get(domain.PlatformInstagram)
	require.ErrorIs(t, err, provider.ErrUnsupportedPlatform)
}
