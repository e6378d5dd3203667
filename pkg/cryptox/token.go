package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// TokenSize128 is used for lock ownership tokens.
	TokenSize128 = 16
	// TokenSize256 is used for OAuth state values handed to providers.
	TokenSize256 = 32
)

// GenerateToken returns size random bytes encoded as unpadded base64url, so
// the value can go straight into a query string.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the SHA-256 of token in unpadded base64url (43 chars).
// Single-use values are stored by fingerprint and looked up the same way.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
