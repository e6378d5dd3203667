//go:build integration

package connector_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Black-box tests against the connector image. Platform credentials are
 * fake, so only flows that never reach TikTok or Instagram are covered.
 */

const (
	testImageName = "reelhub-connector-test:latest"

	operatorSecret = "e2e-operator-secret-0123456789abcdef"
	operatorIssuer = "reelhub-connector"
)

var allScopes = []string{"accounts:read", "accounts:write", "tokens:read"}

// TestMain builds the image once for the whole package.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Connector Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Connector Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/connector/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupConnectorContainer starts the service and returns its base URL.
func setupConnectorContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"OPERATOR_TOKEN_SECRET": operatorSecret,
		"OPERATOR_TOKEN_ISSUER": operatorIssuer,
		"TOKEN_ENCRYPTION_KEY":  "e2e-encryption-secret",
		"TIKTOK_CLIENT_KEY":     "e2e-client-key",
		"TIKTOK_CLIENT_SECRET":  "e2e-client-secret",
		"TIKTOK_REDIRECT_URI":   "http://localhost:8080/v1/oauth/tiktok/callback",
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		// Tests fire many requests from one IP.
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

func operatorToken(t *testing.T, operator string, scopes ...string) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(operatorSecret))
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewOperatorClaims(operator, operatorIssuer, scopes, time.Hour, time.Now()))
	require.NoError(t, err)
	return token
}

func newClient(t *testing.T, baseURL, operator string, scopes ...string) *connectorsdk.Client {
	t.Helper()
	return connectorsdk.NewClient(baseURL, operatorToken(t, operator, scopes...))
}

// getNoRedirect performs an unauthenticated GET without following redirects.
func getNoRedirect(t *testing.T, rawURL string) *http.Response {
	t.Helper()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(rawURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *connectorsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	if code != "" {
		require.Equal(t, code, apiErr.Code)
	}
}

func stateFrom(t *testing.T, authorizeURL string) string {
	t.Helper()

	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}
