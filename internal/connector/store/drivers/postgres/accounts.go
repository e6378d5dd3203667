package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, platform, external_id, owner_id, display_name, avatar_url, active, last_used_at, created_at, updated_at`

type accountsRepo struct{ db querier }

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a           domain.Account
		platform    string
		displayName *string
		avatarURL   *string
	)
	err := row.Scan(
		&a.ID, &platform, &a.ExternalID, &a.OwnerID,
		&displayName, &avatarURL, &a.Active, &a.LastUsedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapError(err)
	}
	a.Platform = domain.Platform(platform)
	a.DisplayName = derefString(displayName)
	a.AvatarURL = derefString(avatarURL)
	a.LastUsedAt = utcPtr(a.LastUsedAt)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *accountsRepo) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountsRepo) GetAccountByExternalID(
	ctx context.Context,
	platform domain.Platform,
	externalID string,
) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE platform = $1 AND external_id = $2`
	return scanAccount(r.db.QueryRow(ctx, query, platform.String(), externalID))
}

func (r *accountsRepo) UpsertAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	query := `
		INSERT INTO accounts (id, platform, external_id, owner_id, display_name, avatar_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
		ON CONFLICT (platform, external_id) DO UPDATE SET
			owner_id     = EXCLUDED.owner_id,
			display_name = COALESCE(EXCLUDED.display_name, accounts.display_name),
			avatar_url   = COALESCE(EXCLUDED.avatar_url, accounts.avatar_url),
			active       = TRUE,
			updated_at   = EXCLUDED.updated_at
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRow(ctx, query,
		a.ID, a.Platform.String(), a.ExternalID, a.OwnerID,
		nullString(a.DisplayName), nullString(a.AvatarURL),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	))
}

func (r *accountsRepo) SetAccountActive(ctx context.Context, id string, active bool, now time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET active = $1, updated_at = $2 WHERE id = $3`, active, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set account active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) TouchAccount(ctx context.Context, id string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_used_at = $1 WHERE id = $2`, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) ListActiveAccounts(
	ctx context.Context,
	ownerID string,
	platform domain.Platform,
) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1 AND active AND ($2 = '' OR platform = $2)
		ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, ownerID, platform.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
