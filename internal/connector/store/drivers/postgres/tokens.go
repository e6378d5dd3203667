package postgres

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/jackc/pgx/v5"
)

const tokenColumns = `account_id, access_token_cipher, refresh_token_cipher, token_type, scope, expires_at, created_at, updated_at`

type tokensRepo struct{ db querier }

func scanToken(row pgx.Row) (domain.TokenRecord, error) {
	var (
		rec     domain.TokenRecord
		refresh *string
		scope   *string
	)
	err := row.Scan(
		&rec.AccountID, &rec.AccessTokenCipher, &refresh, &rec.TokenType,
		&scope, &rec.ExpiresAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.TokenRecord{}, mapError(err)
	}
	rec.RefreshTokenCipher = derefString(refresh)
	rec.Scope = derefString(scope)
	rec.ExpiresAt = utcPtr(rec.ExpiresAt)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func (r *tokensRepo) GetToken(ctx context.Context, accountID string) (domain.TokenRecord, error) {
	return scanToken(r.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM oauth_tokens WHERE account_id = $1`, accountID))
}

func (r *tokensRepo) UpsertToken(ctx context.Context, rec domain.TokenRecord) (domain.TokenRecord, error) {
	tokenType := rec.TokenType
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}

	query := `
		INSERT INTO oauth_tokens (account_id, access_token_cipher, refresh_token_cipher, token_type, scope, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id) DO UPDATE SET
			access_token_cipher  = EXCLUDED.access_token_cipher,
			refresh_token_cipher = EXCLUDED.refresh_token_cipher,
			token_type           = EXCLUDED.token_type,
			scope                = EXCLUDED.scope,
			expires_at           = EXCLUDED.expires_at,
			updated_at           = EXCLUDED.updated_at
		RETURNING ` + tokenColumns
	return scanToken(r.db.QueryRow(ctx, query,
		rec.AccountID, rec.AccessTokenCipher, nullString(rec.RefreshTokenCipher),
		tokenType, nullString(rec.Scope), utcPtr(rec.ExpiresAt),
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	))
}

func (r *tokensRepo) DeleteToken(ctx context.Context, accountID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM oauth_tokens WHERE account_id = $1`, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
