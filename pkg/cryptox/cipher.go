package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// KDFIterations is the PBKDF2-SHA256 iteration count used to stretch an
	// operator secret into a key.
	KDFIterations = 100_000

	// RawKeyPrefix marks a secret that already is a base64 encoded 32-byte key
	// and must be used as-is instead of going through the KDF.
	RawKeyPrefix = "base64:"
)

// kdfSalt is fixed so the same secret always yields the same key across
// restarts. Changing it makes every stored credential unreadable.
var kdfSalt = []byte("reelhub/credential-cipher/v1")

// ErrDecryption is matched by every error returned from Cipher.Decrypt.
var ErrDecryption = errors.New("cryptox: decryption failed")

// DecryptionError describes why a ciphertext could not be opened.
type DecryptionError struct {
	Reason string
	Err    error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cryptox: decryption failed: %s: %v", e.Reason, e.Err)
	}
	return "cryptox: decryption failed: " + e.Reason
}

func (e *DecryptionError) Unwrap() error { return e.Err }

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryption }

// Cipher encrypts credential strings with AES-256-GCM.
//
// The ciphertext format is base64url([12-byte nonce][sealed data][16-byte tag]).
// A Cipher is read-only after construction and safe for concurrent use.
type Cipher struct {
	aead      cipher.AEAD
	ephemeral bool
}

// NewCipher builds a Cipher from an operator secret. Secrets prefixed with
// RawKeyPrefix are decoded and used directly; any other secret is stretched
// with PBKDF2-SHA256.
func NewCipher(secret string) (*Cipher, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("cryptox: empty cipher secret")
	}

	if encoded, ok := strings.CutPrefix(secret, RawKeyPrefix); ok {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("cryptox: invalid raw key: %w", err)
		}
		return NewCipherFromKey(key)
	}

	return NewCipherFromKey(DeriveKey(secret))
}

// NewCipherFromKey builds a Cipher around a ready-made 32-byte key.
func NewCipherFromKey(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cryptox: key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: gcm}, nil
}

// NewEphemeralCipher generates a random key that only lives for this process.
// Anything encrypted with it is unreadable after a restart; it exists for
// demos and local development.
func NewEphemeralCipher() (*Cipher, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	c, err := NewCipherFromKey(key)
	if err != nil {
		return nil, err
	}
	c.ephemeral = true
	return c, nil
}

// DeriveKey stretches secret into a 32-byte key with PBKDF2-SHA256.
func DeriveKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), kdfSalt, KDFIterations, KeySize, sha256.New)
}

// Ephemeral reports whether the key was randomly generated at startup.
func (c *Cipher) Ephemeral() bool { return c.ephemeral }

// Encrypt seals plaintext with a fresh random nonce.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Malformed input and
// authentication failures (wrong key, tampering) both return a
// *DecryptionError.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &DecryptionError{Reason: "malformed encoding", Err: err}
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return "", &DecryptionError{Reason: "ciphertext too short"}
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &DecryptionError{Reason: "authentication failed", Err: err}
	}

	return string(plaintext), nil
}
