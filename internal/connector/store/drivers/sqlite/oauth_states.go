package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite/gen"
)

type oauthStatesRepo struct{ q *gen.Queries }

func (r *oauthStatesRepo) CreateOAuthState(ctx context.Context, s domain.OAuthState) error {
	return r.q.CreateOAuthState(ctx, gen.CreateOAuthStateParams{
		ID:        s.ID,
		StateHash: s.StateHash,
		Platform:  s.Platform.String(),
		OwnerID:   s.OwnerID,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
	})
}

// ConsumeOAuthState should run inside a transaction so the mark and the
// read-back see the same row.
func (r *oauthStatesRepo) ConsumeOAuthState(
	ctx context.Context,
	stateHash string,
	now time.Time,
) (domain.OAuthState, error) {
	n, err := r.q.MarkOAuthStateUsed(ctx, gen.MarkOAuthStateUsedParams{
		UsedAt:    sql.NullTime{Time: now.UTC(), Valid: true},
		StateHash: stateHash,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return domain.OAuthState{}, err
	}
	if n == 0 {
		return domain.OAuthState{}, store.ErrNotFound
	}

	row, err := r.q.GetOAuthStateByHash(ctx, stateHash)
	if err != nil {
		return domain.OAuthState{}, mapNotFound(err)
	}
	return mapOAuthState(row), nil
}

func (r *oauthStatesRepo) DeleteStaleOAuthStates(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteStaleOAuthStates(ctx, now.UTC())
}
