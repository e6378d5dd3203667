package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
)

// InitCipher builds the credential cipher from the configured secret. With
// no secret configured a random per-process key is used and a warning is
// logged: every credential stored in that mode is lost on restart.
func InitCipher(cfg Config, logger *slog.Logger) (*cryptox.Cipher, error) {
	secret := cfg.EncryptionKey

	if cfg.EncryptionKeyFile != "" {
		data, err := os.ReadFile(cfg.EncryptionKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read encryption key file: %w", err)
		}
		secret = string(data)
	}

	if strings.TrimSpace(secret) == "" {
		if cfg.Env == "prod" {
			return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY or TOKEN_ENCRYPTION_KEY_FILE is required in prod")
		}
		logger.Warn("no token encryption key configured; using an ephemeral key, stored credentials will be unreadable after restart")
		return cryptox.NewEphemeralCipher()
	}

	c, err := cryptox.NewCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential cipher: %w", err)
	}
	logger.Info("credential cipher initialized")
	return c, nil
}
