package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/idx"
)

// AccountRegistry maps (platform, external id) pairs to internal accounts.
type AccountRegistry struct {
	Store store.Store
	Now   func() time.Time
}

type UpsertAccountParams struct {
	Platform    domain.Platform
	ExternalID  string
	OwnerID     string
	DisplayName string
	AvatarURL   string
}

func (r *AccountRegistry) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *AccountRegistry) Get(ctx context.Context, id string) (domain.Account, error) {
	a, err := r.Store.Accounts().GetAccount(ctx, id)
	return a, mapStoreErr(err)
}

func (r *AccountRegistry) FindByPlatformAndExternalID(
	ctx context.Context,
	platform domain.Platform,
	externalID string,
) (domain.Account, error) {
	a, err := r.Store.Accounts().GetAccountByExternalID(ctx, platform, externalID)
	return a, mapStoreErr(err)
}

// Upsert creates the account or, for a known (platform, external id),
// re-parents it to OwnerID, re-activates it and refreshes non-empty
// profile fields. The internal id never changes.
func (r *AccountRegistry) Upsert(ctx context.Context, p UpsertAccountParams) (domain.Account, error) {
	return r.upsert(ctx, r.Store.Accounts(), p)
}

func (r *AccountRegistry) upsert(ctx context.Context, accounts store.Accounts, p UpsertAccountParams) (domain.Account, error) {
	p.ExternalID = strings.TrimSpace(p.ExternalID)
	p.OwnerID = strings.TrimSpace(p.OwnerID)
	if !p.Platform.Valid() || p.ExternalID == "" || p.OwnerID == "" {
		return domain.Account{}, ErrInvalidRequest
	}

	now := r.now()
	return accounts.UpsertAccount(ctx, domain.Account{
		ID:          idx.NewAt(now).String(),
		Platform:    p.Platform,
		ExternalID:  p.ExternalID,
		OwnerID:     p.OwnerID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Deactivate soft-deletes the account. Its token record is left alone.
func (r *AccountRegistry) Deactivate(ctx context.Context, id string) error {
	return mapStoreErr(r.Store.Accounts().SetAccountActive(ctx, id, false, r.now()))
}

// ListActive returns the owner's active accounts, optionally for one platform.
func (r *AccountRegistry) ListActive(ctx context.Context, ownerID string, platform domain.Platform) ([]domain.Account, error) {
	if platform != "" && !platform.Valid() {
		return nil, domain.ErrUnknownPlatform
	}
	return r.Store.Accounts().ListActiveAccounts(ctx, ownerID, platform)
}

// Touch records that a token was handed out for the account.
func (r *AccountRegistry) Touch(ctx context.Context, id string) error {
	return mapStoreErr(r.Store.Accounts().TouchAccount(ctx, id, r.now()))
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
