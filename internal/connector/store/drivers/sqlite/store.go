package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	q  *gen.Queries
}

// NewStore opens a SQLite database. SQLite has a single writer, so the pool
// is pinned to one connection; this also keeps ":memory:" databases shared.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db: db,
		q:  gen.New(db),
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts       { return &accountsRepo{q: s.q} }
func (s *Store) Tokens() store.Tokens           { return &tokensRepo{q: s.q} }
func (s *Store) OAuthStates() store.OAuthStates { return &oauthStatesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapAccount(row gen.Account) domain.Account {
	return domain.Account{
		ID:          row.ID,
		Platform:    domain.Platform(row.Platform),
		ExternalID:  row.ExternalID,
		OwnerID:     row.OwnerID,
		DisplayName: mapNullString(row.DisplayName),
		AvatarURL:   mapNullString(row.AvatarUrl),
		Active:      row.Active,
		LastUsedAt:  mapNullTimePtr(row.LastUsedAt),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func mapToken(row gen.OauthToken) domain.TokenRecord {
	return domain.TokenRecord{
		AccountID:          row.AccountID,
		AccessTokenCipher:  row.AccessTokenCipher,
		RefreshTokenCipher: mapNullString(row.RefreshTokenCipher),
		TokenType:          row.TokenType,
		Scope:              mapNullString(row.Scope),
		ExpiresAt:          mapNullTimePtr(row.ExpiresAt),
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
}

func mapOAuthState(row gen.OauthState) domain.OAuthState {
	return domain.OAuthState{
		ID:        row.ID,
		StateHash: row.StateHash,
		Platform:  domain.Platform(row.Platform),
		OwnerID:   row.OwnerID,
		ExpiresAt: row.ExpiresAt.UTC(),
		UsedAt:    mapNullTimePtr(row.UsedAt),
		CreatedAt: row.CreatedAt.UTC(),
	}
}
