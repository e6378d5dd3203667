package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite/gen"
)

type accountsRepo struct{ q *gen.Queries }

func (r *accountsRepo) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccount(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByExternalID(
	ctx context.Context,
	platform domain.Platform,
	externalID string,
) (domain.Account, error) {
	row, err := r.q.GetAccountByExternalID(ctx, gen.GetAccountByExternalIDParams{
		Platform:   platform.String(),
		ExternalID: externalID,
	})
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) UpsertAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	err := r.q.UpsertAccount(ctx, gen.UpsertAccountParams{
		ID:          a.ID,
		Platform:    a.Platform.String(),
		ExternalID:  a.ExternalID,
		OwnerID:     a.OwnerID,
		DisplayName: mapStringNull(a.DisplayName),
		AvatarUrl:   mapStringNull(a.AvatarURL),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	})
	if err != nil {
		return domain.Account{}, err
	}

	// The conflict target keeps the original id, so read back by the natural key.
	return r.GetAccountByExternalID(ctx, a.Platform, a.ExternalID)
}

func (r *accountsRepo) SetAccountActive(ctx context.Context, id string, active bool, now time.Time) error {
	n, err := r.q.SetAccountActive(ctx, gen.SetAccountActiveParams{
		Active:    active,
		UpdatedAt: now.UTC(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) TouchAccount(ctx context.Context, id string, now time.Time) error {
	n, err := r.q.TouchAccount(ctx, gen.TouchAccountParams{
		LastUsedAt: sql.NullTime{Time: now.UTC(), Valid: true},
		ID:         id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) ListActiveAccounts(
	ctx context.Context,
	ownerID string,
	platform domain.Platform,
) ([]domain.Account, error) {
	var (
		rows []gen.Account
		err  error
	)
	if platform == "" {
		rows, err = r.q.ListActiveAccountsByOwner(ctx, ownerID)
	} else {
		rows, err = r.q.ListActiveAccountsByOwnerAndPlatform(ctx, gen.ListActiveAccountsByOwnerAndPlatformParams{
			OwnerID:  ownerID,
			Platform: platform.String(),
		})
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}
