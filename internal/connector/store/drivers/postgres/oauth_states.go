package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
)

type oauthStatesRepo struct{ db querier }

func (r *oauthStatesRepo) CreateOAuthState(ctx context.Context, s domain.OAuthState) error {
	query := `
		INSERT INTO oauth_states (id, state_hash, platform, owner_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.StateHash, s.Platform.String(), s.OwnerID, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return mapError(err)
}

func (r *oauthStatesRepo) ConsumeOAuthState(
	ctx context.Context,
	stateHash string,
	now time.Time,
) (domain.OAuthState, error) {
	query := `
		UPDATE oauth_states
		SET used_at = $1
		WHERE state_hash = $2 AND used_at IS NULL AND expires_at > $1
		RETURNING id, state_hash, platform, owner_id, expires_at, used_at, created_at`

	var (
		s        domain.OAuthState
		platform string
	)
	err := r.db.QueryRow(ctx, query, now.UTC(), stateHash).Scan(
		&s.ID, &s.StateHash, &platform, &s.OwnerID, &s.ExpiresAt, &s.UsedAt, &s.CreatedAt,
	)
	if err != nil {
		return domain.OAuthState{}, mapError(err)
	}
	s.Platform = domain.Platform(platform)
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.UsedAt = utcPtr(s.UsedAt)
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *oauthStatesRepo) DeleteStaleOAuthStates(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM oauth_states WHERE expires_at <= $1 OR used_at IS NOT NULL`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale oauth states: %w", err)
	}
	return tag.RowsAffected(), nil
}
