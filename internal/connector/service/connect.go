package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/idx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

const DefaultStateTTL = 10 * time.Minute

// ConnectService runs the browser side of the OAuth flow: it issues a
// single-use state for the authorize redirect and, on callback, trades the
// state back for the owner that started the flow.
type ConnectService struct {
	Store     store.Store
	Providers *provider.Registry
	Lifecycle *TokenLifecycleService
	StateTTL  time.Duration
	Now       func() time.Time
}

// ConnectRequest is a started connect flow. State is only returned here;
// the store keeps its fingerprint.
type ConnectRequest struct {
	Platform     domain.Platform
	AuthorizeURL string
	State        string
	ExpiresAt    time.Time
}

func (s *ConnectService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Begin records a pending connect for ownerID and returns where to send
// the user.
func (s *ConnectService) Begin(ctx context.Context, platform domain.Platform, ownerID string) (ConnectRequest, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ConnectRequest{}, ErrInvalidRequest
	}

	adapter, err := s.Providers.Get(platform)
	if err != nil {
		return ConnectRequest{}, err
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return ConnectRequest{}, err
	}

	ttl := s.StateTTL
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	now := s.now()

	err = s.Store.OAuthStates().CreateOAuthState(ctx, domain.OAuthState{
		ID:        idx.NewAt(now).String(),
		StateHash: cryptox.FingerprintToken(state),
		Platform:  platform,
		OwnerID:   ownerID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return ConnectRequest{}, err
	}

	slogx.FromContext(ctx).Info("connect started", "platform", platform, "owner_id", ownerID)
	return ConnectRequest{
		Platform:     platform,
		AuthorizeURL: adapter.AuthorizeURL(state),
		State:        state,
		ExpiresAt:    now.Add(ttl),
	}, nil
}

// Complete consumes state and connects the account for the owner that
// started the flow. Unknown, reused, expired or cross-platform states fail
// with ErrInvalidState before any provider call.
func (s *ConnectService) Complete(ctx context.Context, platform domain.Platform, state, code string) (domain.Account, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return domain.Account{}, ErrInvalidState
	}
	if strings.TrimSpace(code) == "" {
		return domain.Account{}, ErrInvalidRequest
	}

	var pending domain.OAuthState
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pending, err = tx.OAuthStates().ConsumeOAuthState(ctx, cryptox.FingerprintToken(state), s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrInvalidState
		}
		return domain.Account{}, err
	}

	if pending.Platform != platform {
		slogx.FromContext(ctx).Warn("connect state used for another platform",
			"expected", pending.Platform,
			"got", platform,
		)
		return domain.Account{}, ErrInvalidState
	}

	return s.Lifecycle.Connect(ctx, platform, code, pending.OwnerID)
}
