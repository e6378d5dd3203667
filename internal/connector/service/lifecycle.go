package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/lock"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
	"golang.org/x/sync/singleflight"
)

// TokenLifecycleService connects accounts, hands out valid access tokens,
// refreshing them when they expire, and disconnects or revokes accounts.
// All methods take the internal account id; only adapters see external ids.
type TokenLifecycleService struct {
	Store     store.Store
	Accounts  *AccountRegistry
	Tokens    *TokenStore
	Providers *provider.Registry

	// Locker serializes refreshes of one account across processes. Nil
	// means an in-process lock.
	Locker lock.Locker

	// RefreshSkew refreshes tokens this long before they expire.
	RefreshSkew time.Duration

	// RefreshTimeout bounds one shared refresh, lock wait included. Zero
	// uses DefaultRefreshTimeout.
	RefreshTimeout time.Duration

	Now func() time.Time

	group      singleflight.Group
	localOnce  sync.Once
	localLocks lock.Locker
}

// DefaultRefreshTimeout covers the default provider retry budget plus
// time to store the result.
var DefaultRefreshTimeout = provider.DefaultRetryPolicy().Budget() + 5*time.Second

func (s *TokenLifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *TokenLifecycleService) locker() lock.Locker {
	if s.Locker != nil {
		return s.Locker
	}
	s.localOnce.Do(func() { s.localLocks = lock.NewLocalLocker() })
	return s.localLocks
}

// Connect exchanges an authorization code and stores the account and its
// tokens. The account upsert and the token write commit together, so a
// failure leaves neither a new account nor a stale token behind.
func (s *TokenLifecycleService) Connect(
	ctx context.Context,
	platform domain.Platform,
	code, ownerID string,
) (domain.Account, error) {
	code = strings.TrimSpace(code)
	ownerID = strings.TrimSpace(ownerID)
	if code == "" || ownerID == "" {
		return domain.Account{}, ErrInvalidRequest
	}

	adapter, err := s.Providers.Get(platform)
	if err != nil {
		return domain.Account{}, err
	}

	l := slogx.FromContext(ctx).With("platform", platform, "owner_id", ownerID)

	grant, err := adapter.ExchangeCode(ctx, code)
	if err != nil {
		l.Warn("authorization code exchange failed", "error", err)
		return domain.Account{}, fmt.Errorf("exchange code: %w", err)
	}

	profile := adapter.FetchProfile(ctx, grant.AccessToken, grant.ExternalID)

	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = s.Accounts.upsert(ctx, tx.Accounts(), UpsertAccountParams{
			Platform:    platform,
			ExternalID:  grant.ExternalID,
			OwnerID:     ownerID,
			DisplayName: profile.DisplayName,
			AvatarURL:   profile.AvatarURL,
		})
		if err != nil {
			return fmt.Errorf("upsert account: %w", err)
		}

		_, err = s.Tokens.put(ctx, tx.Tokens(), account.ID, PutParams{
			AccessToken:  grant.AccessToken,
			RefreshToken: grant.RefreshToken,
			TokenType:    grant.TokenType,
			Scope:        grant.Scope,
			ExpiresIn:    grant.ExpiresIn,
		})
		if err != nil {
			return fmt.Errorf("store tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		l.Error("failed to persist connected account", "external_id", grant.ExternalID, "error", err)
		return domain.Account{}, err
	}

	l.Info("account connected", "account_id", account.ID, "external_id", account.ExternalID)
	return account, nil
}

// GetValidToken returns a usable plaintext access token for the account.
func (s *TokenLifecycleService) GetValidToken(ctx context.Context, accountID string) (string, error) {
	tok, err := s.ValidToken(ctx, accountID)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// ValidToken is GetValidToken with the token metadata. An expired token is
// refreshed first; if that is impossible the error matches
// ErrReauthorizationRequired.
func (s *TokenLifecycleService) ValidToken(ctx context.Context, accountID string) (domain.PlaintextToken, error) {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return domain.PlaintextToken{}, err
	}

	rec, err := s.Tokens.Get(ctx, account.ID)
	if err != nil {
		return domain.PlaintextToken{}, err
	}

	var tok domain.PlaintextToken
	if s.needsRefresh(rec) {
		tok, err = s.refresh(ctx, account, false)
	} else {
		tok, err = s.Tokens.Decrypt(rec)
	}
	if err != nil {
		return domain.PlaintextToken{}, err
	}

	if err := s.Accounts.Touch(ctx, account.ID); err != nil {
		slogx.FromContext(ctx).Warn("failed to record account use", "account_id", account.ID, "error", err)
	}
	return tok, nil
}

// ForceRefresh refreshes the account's token regardless of its expiry.
func (s *TokenLifecycleService) ForceRefresh(ctx context.Context, accountID string) (domain.PlaintextToken, error) {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return domain.PlaintextToken{}, err
	}
	return s.refresh(ctx, account, true)
}

// Disconnect deactivates the account and keeps its token record, so a
// reconnect can pick it up again.
func (s *TokenLifecycleService) Disconnect(ctx context.Context, accountID string) error {
	if err := s.Accounts.Deactivate(ctx, accountID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account disconnected", "account_id", accountID)
	return nil
}

// Revoke deletes the stored credentials and deactivates the account.
func (s *TokenLifecycleService) Revoke(ctx context.Context, accountID string) error {
	now := s.now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().SetAccountActive(ctx, accountID, false, now); err != nil {
			return mapStoreErr(err)
		}
		_, err := tx.Tokens().DeleteToken(ctx, accountID)
		return err
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account credentials revoked", "account_id", accountID)
	return nil
}

func (s *TokenLifecycleService) ListActive(
	ctx context.Context,
	ownerID string,
	platform domain.Platform,
) ([]domain.Account, error) {
	return s.Accounts.ListActive(ctx, ownerID, platform)
}

func (s *TokenLifecycleService) activeAccount(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := s.Accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.Active {
		return domain.Account{}, ErrAccountInactive
	}
	return account, nil
}

func (s *TokenLifecycleService) needsRefresh(rec domain.TokenRecord) bool {
	if s.RefreshSkew > 0 {
		return rec.ExpiresWithin(s.now(), s.RefreshSkew)
	}
	return s.Tokens.IsExpired(rec)
}

// refresh shares one in-flight refresh per account within the process and
// holds the account lock while talking to the provider. The shared work is
// detached from any single caller; each caller only waits on its own ctx.
func (s *TokenLifecycleService) refresh(
	ctx context.Context,
	account domain.Account,
	force bool,
) (domain.PlaintextToken, error) {
	key := account.ID
	if force {
		key = "force:" + account.ID
	}

	ch := s.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), cmp.Or(s.RefreshTimeout, DefaultRefreshTimeout))
		defer cancel()
		return s.refreshLocked(shared, account, force)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.PlaintextToken{}, res.Err
		}
		return res.Val.(domain.PlaintextToken), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.PlaintextToken{}, fmt.Errorf("%w: waiting for refresh: %w", provider.ErrTimeout, ctx.Err())
		}
		return domain.PlaintextToken{}, ctx.Err()
	}
}

func (s *TokenLifecycleService) refreshLocked(
	ctx context.Context,
	account domain.Account,
	force bool,
) (domain.PlaintextToken, error) {
	l := slogx.FromContext(ctx).With("account_id", account.ID, "platform", account.Platform)

	unlock, err := s.locker().Lock(ctx, "refresh:"+account.ID)
	if err != nil {
		if ctx.Err() != nil {
			return domain.PlaintextToken{}, fmt.Errorf("%w: waiting for refresh lock: %w", provider.ErrTimeout, err)
		}
		return domain.PlaintextToken{}, fmt.Errorf("acquire refresh lock: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			l.Warn("failed to release refresh lock", "error", err)
		}
	}()

	// Another holder may have refreshed while we waited.
	rec, err := s.Tokens.Get(ctx, account.ID)
	if err != nil {
		return domain.PlaintextToken{}, err
	}
	current, err := s.Tokens.Decrypt(rec)
	if err != nil {
		l.Error("stored credentials unreadable", "error", err)
		return domain.PlaintextToken{}, err
	}
	if !force && !s.needsRefresh(rec) {
		return current, nil
	}

	if current.RefreshToken == "" {
		l.Warn("token expired without refresh token")
		return domain.PlaintextToken{}, &ReauthorizationError{AccountID: account.ID, Err: ErrMissingRefreshToken}
	}

	adapter, err := s.Providers.Get(account.Platform)
	if err != nil {
		return domain.PlaintextToken{}, err
	}

	ts, err := adapter.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if provider.IsPermanent(err) {
			l.Warn("provider rejected refresh", "error", err)
			return domain.PlaintextToken{}, &ReauthorizationError{AccountID: account.ID, Err: err}
		}
		return domain.PlaintextToken{}, fmt.Errorf("refresh token: %w", err)
	}

	// Providers that do not rotate keep the old refresh token valid.
	refreshToken := cmp.Or(ts.RefreshToken, current.RefreshToken)
	saved, err := s.Tokens.Put(ctx, account.ID, PutParams{
		AccessToken:  ts.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    cmp.Or(ts.TokenType, rec.TokenType),
		Scope:        cmp.Or(ts.Scope, rec.Scope),
		ExpiresIn:    ts.ExpiresIn,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PlaintextToken{}, ErrNotFound
		}
		return domain.PlaintextToken{}, fmt.Errorf("store refreshed tokens: %w", err)
	}

	l.Info("token refreshed", "expires_at", saved.ExpiresAt)
	return domain.PlaintextToken{
		AccessToken:  ts.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    saved.TokenType,
		Scope:        saved.Scope,
		ExpiresAt:    saved.ExpiresAt,
		IsExpired:    false,
	}, nil
}
