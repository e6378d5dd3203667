package sqlite

import (
	"context"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite/gen"
)

type tokensRepo struct{ q *gen.Queries }

func (r *tokensRepo) GetToken(ctx context.Context, accountID string) (domain.TokenRecord, error) {
	row, err := r.q.GetToken(ctx, accountID)
	if err != nil {
		return domain.TokenRecord{}, mapNotFound(err)
	}
	return mapToken(row), nil
}

func (r *tokensRepo) UpsertToken(ctx context.Context, rec domain.TokenRecord) (domain.TokenRecord, error) {
	tokenType := rec.TokenType
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}

	err := r.q.UpsertToken(ctx, gen.UpsertTokenParams{
		AccountID:          rec.AccountID,
		AccessTokenCipher:  rec.AccessTokenCipher,
		RefreshTokenCipher: mapStringNull(rec.RefreshTokenCipher),
		TokenType:          tokenType,
		Scope:              mapStringNull(rec.Scope),
		ExpiresAt:          mapOptionalTime(rec.ExpiresAt),
		CreatedAt:          rec.CreatedAt.UTC(),
		UpdatedAt:          rec.UpdatedAt.UTC(),
	})
	if err != nil {
		return domain.TokenRecord{}, err
	}
	return r.GetToken(ctx, rec.AccountID)
}

func (r *tokensRepo) DeleteToken(ctx context.Context, accountID string) (bool, error) {
	n, err := r.q.DeleteToken(ctx, accountID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
