package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
)

type Config struct {
	DatabaseURL  string // Optional: postgres:// URL; selects the Postgres driver when set
	DatabaseFile string // Optional: SQLite database file (default: connector.db)
	RedisURL     string // Optional: enables the shared refresh lock

	EncryptionKey     string // Optional: secret for the credential cipher
	EncryptionKeyFile string // Optional: file holding the secret; wins over EncryptionKey

	OperatorTokenSecret string // Required: HS256 secret for operator JWTs
	OperatorTokenIssuer string // Optional: expected iss claim (default: reelhub-connector)

	TikTok    TikTokConfig
	Instagram InstagramConfig

	ProviderMaxRetries     int           // Optional: retries after the first attempt (default: 2, max: 5)
	ProviderRetryDelay     time.Duration // Optional: base backoff delay (default: 2s)
	ProviderAttemptTimeout time.Duration // Optional: per-attempt timeout (default: 10s)

	RefreshSkew      time.Duration // Optional: refresh tokens this long before expiry (default: 0)
	ConnectStateTTL  time.Duration // Optional: lifetime of a pending connect (default: 10m)
	ConnectReturnURL string        // Optional: browser redirect after the OAuth callback

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

type TikTokConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// Enabled reports whether both halves of the client credentials are set.
func (c TikTokConfig) Enabled() bool { return c.ClientKey != "" && c.ClientSecret != "" }

type InstagramConfig struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	Scopes      []string
}

func (c InstagramConfig) Enabled() bool { return c.AppID != "" && c.AppSecret != "" }

func LoadConfig() Config {
	return Config{
		DatabaseURL:       os.Getenv("CONNECTOR_DATABASE_URL"),
		DatabaseFile:      getEnvOrDefault("CONNECTOR_DATABASE_FILE", "connector.db"),
		RedisURL:          os.Getenv("REDIS_URL"),
		EncryptionKey:     os.Getenv("TOKEN_ENCRYPTION_KEY"),
		EncryptionKeyFile: os.Getenv("TOKEN_ENCRYPTION_KEY_FILE"),

		OperatorTokenSecret: os.Getenv("OPERATOR_TOKEN_SECRET"),
		OperatorTokenIssuer: getEnvOrDefault("OPERATOR_TOKEN_ISSUER", "reelhub-connector"),

		TikTok: TikTokConfig{
			ClientKey:    os.Getenv("TIKTOK_CLIENT_KEY"),
			ClientSecret: os.Getenv("TIKTOK_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("TIKTOK_REDIRECT_URI"),
			Scopes:       getEnvListOrDefault("TIKTOK_SCOPES", provider.DefaultTikTokScopes),
		},
		Instagram: InstagramConfig{
			AppID:       os.Getenv("INSTAGRAM_APP_ID"),
			AppSecret:   os.Getenv("INSTAGRAM_APP_SECRET"),
			RedirectURI: os.Getenv("INSTAGRAM_REDIRECT_URI"),
			Scopes:      getEnvListOrDefault("INSTAGRAM_SCOPES", provider.DefaultInstagramScopes),
		},

		ProviderMaxRetries:     getEnvIntOrDefault("PROVIDER_MAX_RETRIES", provider.DefaultMaxRetries),
		ProviderRetryDelay:     getEnvDurationOrDefault("PROVIDER_RETRY_DELAY", provider.DefaultRetryDelay),
		ProviderAttemptTimeout: getEnvDurationOrDefault("PROVIDER_ATTEMPT_TIMEOUT", provider.DefaultAttemptTimeout),

		RefreshSkew:      getEnvDurationOrDefault("TOKEN_REFRESH_SKEW", 0),
		ConnectStateTTL:  getEnvDurationOrDefault("CONNECT_STATE_TTL", service.DefaultStateTTL),
		ConnectReturnURL: os.Getenv("CONNECT_RETURN_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// RetryPolicy builds the provider retry policy; out of range values are
// clamped by the provider package.
func (c Config) RetryPolicy() provider.RetryPolicy {
	return provider.RetryPolicy{
		MaxRetries:     c.ProviderMaxRetries,
		BaseDelay:      c.ProviderRetryDelay,
		AttemptTimeout: c.ProviderAttemptTimeout,
	}
}

const (
	refreshPersistMargin = 5 * time.Second
	refreshLockMargin    = 10 * time.Second
)

// RefreshTimeout bounds one shared token refresh: the slowest provider
// retry run plus time to store the result.
func (c Config) RefreshTimeout() time.Duration {
	return c.RetryPolicy().Budget() + refreshPersistMargin
}

// RefreshLockTTL outlives RefreshTimeout so the distributed lock cannot
// lapse while its holder is still refreshing.
func (c Config) RefreshLockTTL() time.Duration {
	return c.RefreshTimeout() + refreshLockMargin
}

// UsePostgres reports whether DatabaseURL points at Postgres.
func (c Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvListOrDefault splits on commas or whitespace.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return defaultValue
	}
	return fields
}
