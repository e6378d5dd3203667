package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
)

// TokenStore keeps one encrypted TokenRecord per account. Plaintext only
// leaves it through GetPlaintext and Decrypt.
type TokenStore struct {
	Store  store.Store
	Cipher *cryptox.Cipher
	Now    func() time.Time
}

// PutParams carries plaintext credentials to be encrypted. A zero ExpiresIn
// stores no expiry.
type PutParams struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    time.Duration
}

func (s *TokenStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Put encrypts and upserts the record for accountID. Concurrent writers are
// serialized by the primary key on account_id; the last write wins.
func (s *TokenStore) Put(ctx context.Context, accountID string, p PutParams) (domain.TokenRecord, error) {
	return s.put(ctx, s.Store.Tokens(), accountID, p)
}

func (s *TokenStore) put(ctx context.Context, tokens store.Tokens, accountID string, p PutParams) (domain.TokenRecord, error) {
	if accountID == "" || p.AccessToken == "" {
		return domain.TokenRecord{}, ErrInvalidRequest
	}

	accessCipher, err := s.Cipher.Encrypt(p.AccessToken)
	if err != nil {
		return domain.TokenRecord{}, fmt.Errorf("encrypt access token: %w", err)
	}

	var refreshCipher string
	if p.RefreshToken != "" {
		refreshCipher, err = s.Cipher.Encrypt(p.RefreshToken)
		if err != nil {
			return domain.TokenRecord{}, fmt.Errorf("encrypt refresh token: %w", err)
		}
	}

	now := s.now()
	rec := domain.TokenRecord{
		AccountID:          accountID,
		AccessTokenCipher:  accessCipher,
		RefreshTokenCipher: refreshCipher,
		TokenType:          p.TokenType,
		Scope:              p.Scope,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if rec.TokenType == "" {
		rec.TokenType = domain.DefaultTokenType
	}
	if p.ExpiresIn > 0 {
		expiresAt := now.Add(p.ExpiresIn)
		rec.ExpiresAt = &expiresAt
	}

	return tokens.UpsertToken(ctx, rec)
}

// Get returns the stored record without decrypting it.
func (s *TokenStore) Get(ctx context.Context, accountID string) (domain.TokenRecord, error) {
	rec, err := s.Store.Tokens().GetToken(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenRecord{}, ErrNotFound
	}
	return rec, err
}

// GetPlaintext loads and decrypts the record. A key mismatch surfaces as
// cryptox.ErrDecryption.
func (s *TokenStore) GetPlaintext(ctx context.Context, accountID string) (domain.PlaintextToken, error) {
	rec, err := s.Get(ctx, accountID)
	if err != nil {
		return domain.PlaintextToken{}, err
	}
	return s.Decrypt(rec)
}

// Decrypt opens both token fields of rec.
func (s *TokenStore) Decrypt(rec domain.TokenRecord) (domain.PlaintextToken, error) {
	access, err := s.Cipher.Decrypt(rec.AccessTokenCipher)
	if err != nil {
		return domain.PlaintextToken{}, fmt.Errorf("account %s access token: %w", rec.AccountID, err)
	}

	var refresh string
	if rec.HasRefreshToken() {
		refresh, err = s.Cipher.Decrypt(rec.RefreshTokenCipher)
		if err != nil {
			return domain.PlaintextToken{}, fmt.Errorf("account %s refresh token: %w", rec.AccountID, err)
		}
	}

	return domain.PlaintextToken{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    rec.TokenType,
		Scope:        rec.Scope,
		ExpiresAt:    rec.ExpiresAt,
		IsExpired:    s.IsExpired(rec),
	}, nil
}

// Delete removes the record and reports whether one existed.
func (s *TokenStore) Delete(ctx context.Context, accountID string) (bool, error) {
	return s.Store.Tokens().DeleteToken(ctx, accountID)
}

// IsExpired is true only when an expiry is set and has passed.
func (s *TokenStore) IsExpired(rec domain.TokenRecord) bool {
	return rec.IsExpired(s.now())
}
