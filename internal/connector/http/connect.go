package http

import (
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/aussiebroadwan/reelhub/pkg/httpx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

// ConnectHandler runs both halves of the OAuth connect flow.
type ConnectHandler struct {
	ConnectService *service.ConnectService

	// ReturnURL, when set, is where the browser is sent after the callback
	// instead of receiving JSON.
	ReturnURL string
}

// HandleBegin handles POST /v1/connect/{platform}
//
//	@Summary		Begin Account Connect
//	@Description	Starts the OAuth flow for the calling operator. Send the account owner to authorize_url before expires_at.
//	@Tags			Connect
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string								true	"Bearer token with accounts:write scope"
//	@Param			platform		path		string								true	"tiktok or instagram"
//	@Success		201				{object}	connectorsdk.BeginConnectResponse	"authorize_url, expires_at"
//	@Failure		401				{object}	connectorsdk.ErrorResponse			"error, error_description"
//	@Failure		403				{object}	connectorsdk.ErrorResponse			"error, error_description"
//	@Failure		404				{object}	connectorsdk.ErrorResponse			"unsupported platform"
//	@Router			/v1/connect/{platform} [post].
func (h *ConnectHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		writeServiceError(w, r, "connect for unknown platform", err)
		return
	}

	req, err := h.ConnectService.Begin(ctx, platform, httpx.OperatorID(ctx))
	if err != nil {
		writeServiceError(w, r, "failed to begin connect", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, connectorsdk.BeginConnectResponse{
		Platform:     req.Platform.String(),
		AuthorizeURL: req.AuthorizeURL,
		ExpiresAt:    req.ExpiresAt,
	})
}

// HandleCallback handles GET /v1/oauth/{platform}/callback
//
//	@Summary		OAuth Callback
//	@Description	Redirect target registered with the platform. Consumes the state issued by Begin Account Connect,
//	@Description	exchanges the code and stores the encrypted tokens. Redirects to the configured return URL when set.
//	@Tags			Connect
//	@Produce		json
//	@Param			platform			path		string							true	"tiktok or instagram"
//	@Param			code				query		string							false	"Authorization code"
//	@Param			state				query		string							true	"State from authorize_url"
//	@Param			error				query		string							false	"Set by the platform when the user declined"
//	@Param			error_description	query		string							false	"Platform supplied description"
//	@Success		200					{object}	connectorsdk.AccountResponse	"connected account"
//	@Success		303					"Redirect to the return URL"
//	@Failure		400					{object}	connectorsdk.ErrorResponse		"invalid_state or invalid_request"
//	@Failure		403					{object}	connectorsdk.ErrorResponse		"access_denied"
//	@Failure		502					{object}	connectorsdk.ErrorResponse		"provider_unavailable or provider_rejected"
//	@Router			/v1/oauth/{platform}/callback [get].
func (h *ConnectHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	platform, err := domain.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		h.fail(w, r, classify(err))
		return
	}

	if providerErr := q.Get("error"); providerErr != "" {
		log.Info("connect declined at platform",
			"platform", platform,
			"provider_error", providerErr,
			"provider_error_description", q.Get("error_description"),
		)
		h.fail(w, r, apiError{http.StatusForbidden, connectorsdk.ErrorCodeAccessDenied, "the user did not authorize the connection"})
		return
	}

	account, err := h.ConnectService.Complete(ctx, platform, q.Get("state"), q.Get("code"))
	if err != nil {
		e := classify(err)
		log.Warn("connect callback failed", "platform", platform, "error", err, "code", e.code)
		h.fail(w, r, e)
		return
	}

	if h.ReturnURL != "" {
		h.redirect(w, r, url.Values{
			"status":     {"connected"},
			"platform":   {platform.String()},
			"account_id": {account.ID},
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *ConnectHandler) fail(w http.ResponseWriter, r *http.Request, e apiError) {
	if h.ReturnURL != "" {
		h.redirect(w, r, url.Values{"status": {"error"}, "error": {e.code}})
		return
	}
	httpx.WriteError(w, e.status, e.code, e.description)
}

func (h *ConnectHandler) redirect(w http.ResponseWriter, r *http.Request, params url.Values) {
	target, err := url.Parse(h.ReturnURL)
	if err != nil {
		slogx.FromContext(r.Context()).Error("invalid connect return url", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, connectorsdk.ErrorCodeServerError, "internal server error")
		return
	}

	q := target.Query()
	for k, v := range params {
		q[k] = v
	}
	target.RawQuery = q.Encode()

	httpx.NoCache(w)
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}
