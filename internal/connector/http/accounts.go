package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/aussiebroadwan/reelhub/pkg/httpx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

// AccountsHandler handles the account management endpoints. Every handler
// only sees accounts owned by the calling operator.
type AccountsHandler struct {
	Lifecycle *service.TokenLifecycleService
}

// ownedAccount loads the account and hides accounts of other operators
// behind service.ErrNotFound.
func (h *AccountsHandler) ownedAccount(ctx context.Context, id string) (domain.Account, error) {
	account, err := h.Lifecycle.Accounts.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if account.OwnerID != httpx.OperatorID(ctx) {
		return domain.Account{}, service.ErrNotFound
	}
	return account, nil
}

// HandleList handles GET /v1/accounts
//
//	@Summary		List Connected Accounts
//	@Description	Returns the caller's active accounts, optionally filtered by platform.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string								true	"Bearer token with accounts:read scope"
//	@Param			platform		query		string								false	"tiktok or instagram"
//	@Success		200				{object}	connectorsdk.ListAccountsResponse	"accounts"
//	@Failure		401				{object}	connectorsdk.ErrorResponse			"error, error_description"
//	@Failure		403				{object}	connectorsdk.ErrorResponse			"error, error_description"
//	@Failure		404				{object}	connectorsdk.ErrorResponse			"unsupported platform"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var platform domain.Platform
	if raw := r.URL.Query().Get("platform"); raw != "" {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			writeServiceError(w, r, "invalid platform filter", err)
			return
		}
		platform = p
	}

	accounts, err := h.Lifecycle.ListActive(ctx, httpx.OperatorID(ctx), platform)
	if err != nil {
		writeServiceError(w, r, "failed to list accounts", err)
		return
	}

	resp := connectorsdk.ListAccountsResponse{Accounts: make([]connectorsdk.AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/accounts/{id}
//
//	@Summary		Get Account
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with accounts:read scope"
//	@Param			id				path		string							true	"Account ID"
//	@Success		200				{object}	connectorsdk.AccountResponse	"account"
//	@Failure		401				{object}	connectorsdk.ErrorResponse		"error, error_description"
//	@Failure		403				{object}	connectorsdk.ErrorResponse		"error, error_description"
//	@Failure		404				{object}	connectorsdk.ErrorResponse		"account not found"
//	@Router			/v1/accounts/{id} [get].
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.ownedAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "failed to get account", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// HandleDisconnect handles DELETE /v1/accounts/{id}
//
//	@Summary		Disconnect Account
//	@Description	Marks the account inactive. Stored credentials are kept until revoked or the account is connected again.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Param			Authorization	header	string	true	"Bearer token with accounts:write scope"
//	@Param			id				path	string	true	"Account ID"
//	@Success		204				"Account disconnected"
//	@Failure		401				{object}	connectorsdk.ErrorResponse	"error, error_description"
//	@Failure		403				{object}	connectorsdk.ErrorResponse	"error, error_description"
//	@Failure		404				{object}	connectorsdk.ErrorResponse	"account not found"
//	@Router			/v1/accounts/{id} [delete].
func (h *AccountsHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.ownedAccount(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "failed to disconnect account", err)
		return
	}

	if err := h.Lifecycle.Disconnect(ctx, account.ID); err != nil {
		writeServiceError(w, r, "failed to disconnect account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh handles POST /v1/accounts/{id}/refresh
//
//	@Summary		Force Token Refresh
//	@Description	Refreshes the account's platform token now, regardless of its expiry.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with accounts:write scope"
//	@Param			id				path		string							true	"Account ID"
//	@Success		200				{object}	connectorsdk.RefreshResponse	"new token metadata"
//	@Failure		404				{object}	connectorsdk.ErrorResponse		"account not found"
//	@Failure		409				{object}	connectorsdk.ErrorResponse		"account_inactive or reauthorization_required"
//	@Failure		502				{object}	connectorsdk.ErrorResponse		"provider_unavailable or provider_rejected"
//	@Failure		504				{object}	connectorsdk.ErrorResponse		"provider_timeout"
//	@Router			/v1/accounts/{id}/refresh [post].
func (h *AccountsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.ownedAccount(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "failed to refresh token", err)
		return
	}

	tok, err := h.Lifecycle.ForceRefresh(ctx, account.ID)
	if err != nil {
		writeServiceError(w, r, "failed to refresh token", err)
		return
	}

	slogx.FromContext(ctx).Info("token refreshed on request", "account_id", account.ID)
	httpx.WriteJSON(w, http.StatusOK, connectorsdk.RefreshResponse{
		AccountID: account.ID,
		TokenType: tok.TokenType,
		Scope:     tok.Scope,
		ExpiresAt: tok.ExpiresAt,
	})
}

// HandleRevoke handles DELETE /v1/accounts/{id}/token
//
//	@Summary		Revoke Stored Credentials
//	@Description	Deletes the account's encrypted tokens and disconnects it. Connecting again is the only way back.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Param			Authorization	header	string	true	"Bearer token with accounts:write scope"
//	@Param			id				path	string	true	"Account ID"
//	@Success		204				"Credentials deleted"
//	@Failure		404				{object}	connectorsdk.ErrorResponse	"account not found"
//	@Router			/v1/accounts/{id}/token [delete].
func (h *AccountsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.ownedAccount(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "failed to revoke credentials", err)
		return
	}

	if err := h.Lifecycle.Revoke(ctx, account.ID); err != nil {
		writeServiceError(w, r, "failed to revoke credentials", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToken handles GET /v1/accounts/{id}/token
//
//	@Summary		Get Valid Access Token
//	@Description	Returns a usable platform access token, refreshing it first when it has expired.
//	@Description	The response is never cacheable.
//	@Tags			Tokens
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string								true	"Bearer token with tokens:read scope"
//	@Param			id				path		string								true	"Account ID"
//	@Success		200				{object}	connectorsdk.AccessTokenResponse	"access_token, token_type, expires_at"
//	@Failure		404				{object}	connectorsdk.ErrorResponse			"account not found"
//	@Failure		409				{object}	connectorsdk.ErrorResponse			"account_inactive or reauthorization_required"
//	@Failure		500				{object}	connectorsdk.ErrorResponse			"credential_unreadable"
//	@Failure		502				{object}	connectorsdk.ErrorResponse			"provider_unavailable or provider_rejected"
//	@Failure		504				{object}	connectorsdk.ErrorResponse			"provider_timeout"
//	@Router			/v1/accounts/{id}/token [get].
func (h *AccountsHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.ownedAccount(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "failed to issue token", err)
		return
	}

	tok, err := h.Lifecycle.ValidToken(ctx, account.ID)
	if err != nil {
		writeServiceError(w, r, "failed to issue token", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, connectorsdk.AccessTokenResponse{
		AccountID:   account.ID,
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       tok.Scope,
		ExpiresAt:   tok.ExpiresAt,
	})
}
