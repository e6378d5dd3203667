package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it and expose sub-repositories so a transaction can
// hand out the same repositories bound to the transaction.
type Store interface {
	Accounts() Accounts
	Tokens() Tokens
	OAuthStates() OAuthStates

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Nested transactions are not supported.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccount returns an account by internal id.
	GetAccount(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByExternalID looks up the unique (platform, external_id) pair.
	GetAccountByExternalID(ctx context.Context, platform domain.Platform, externalID string) (domain.Account, error)

	// UpsertAccount inserts a.ID for a new (platform, external_id) or updates
	// the existing row: owner is re-parented, the account is re-activated and
	// non-empty profile fields overwrite stored ones. Returns the stored row.
	UpsertAccount(ctx context.Context, a domain.Account) (domain.Account, error)

	// SetAccountActive flips the soft-delete flag and bumps updated_at.
	SetAccountActive(ctx context.Context, id string, active bool, now time.Time) error

	// TouchAccount records that a token was handed out for the account.
	TouchAccount(ctx context.Context, id string, now time.Time) error

	// ListActiveAccounts returns the owner's active accounts. An empty
	// platform matches every platform.
	ListActiveAccounts(ctx context.Context, ownerID string, platform domain.Platform) ([]domain.Account, error)
}

type Tokens interface {
	// GetToken returns the token record owned by accountID.
	GetToken(ctx context.Context, accountID string) (domain.TokenRecord, error)

	// UpsertToken writes the single record for rec.AccountID, replacing every
	// mutable field when one exists. Returns the stored row.
	UpsertToken(ctx context.Context, rec domain.TokenRecord) (domain.TokenRecord, error)

	// DeleteToken removes the record, reporting whether one existed.
	DeleteToken(ctx context.Context, accountID string) (bool, error)
}

type OAuthStates interface {
	// CreateOAuthState stores a pending connect attempt.
	CreateOAuthState(ctx context.Context, s domain.OAuthState) error

	// ConsumeOAuthState marks the unused, unexpired state with the given hash
	// as used and returns it. Returns ErrNotFound when no such state exists.
	ConsumeOAuthState(ctx context.Context, stateHash string, now time.Time) (domain.OAuthState, error)

	// DeleteStaleOAuthStates removes expired or consumed states.
	DeleteStaleOAuthStates(ctx context.Context, now time.Time) (int64, error)
}
