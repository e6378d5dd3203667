package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/reelhub/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestRedactsCredentialAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Level: "debug", Output: &buf})

	logger.Info("token stored",
		"access_token", "AT1",
		"Refresh_Token", "RT1",
		"code", "abc",
		"account_id", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, slogx.Redacted, entry["access_token"])
	require.Equal(t, slogx.Redacted, entry["Refresh_Token"])
	require.Equal(t, slogx.Redacted, entry["code"])
	require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", entry["account_id"])
	require.NotContains(t, buf.String(), "AT1")
	require.NotContains(t, buf.String(), "RT1")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.NotNil(t, slogx.FromContext(context.Background()))
}

func TestHTTPMiddlewareSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Output: &buf})

	var sawLogger bool
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = slogx.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/oauth/tiktok/callback?code=secret-code", nil))

	require.True(t, sawLogger)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotContains(t, buf.String(), "secret-code")
	require.Contains(t, buf.String(), `"status":418`)
}

func TestHTTPMiddlewareServerErrorsLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Output: &buf})

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "WARN", entry["level"])
	require.Equal(t, "req-123", entry["req_id"])
	require.EqualValues(t, http.StatusBadGateway, entry["status"])
	require.EqualValues(t, len("boom\n"), entry["bytes"])
}
