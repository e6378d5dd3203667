package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/pkg/connectorsdk"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/httpx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
)

type apiError struct {
	status      int
	code        string
	description string
}

// classify maps a service error onto its HTTP status and error code.
// Reauthorization is checked before provider errors since it wraps the
// permanent provider failure that caused it.
func classify(err error) apiError {
	var provErr *provider.Error
	switch {
	case errors.Is(err, service.ErrReauthorizationRequired):
		return apiError{http.StatusConflict, connectorsdk.ErrorCodeReauthorizationRequired,
			"the account must be connected again"}
	case errors.Is(err, service.ErrNotFound):
		return apiError{http.StatusNotFound, connectorsdk.ErrorCodeNotFound, "account not found"}
	case errors.Is(err, provider.ErrUnsupportedPlatform), errors.Is(err, domain.ErrUnknownPlatform):
		return apiError{http.StatusNotFound, connectorsdk.ErrorCodeUnsupportedPlatform, "platform is not supported"}
	case errors.Is(err, service.ErrAccountInactive):
		return apiError{http.StatusConflict, connectorsdk.ErrorCodeAccountInactive, "account is disconnected"}
	case errors.Is(err, service.ErrInvalidState):
		return apiError{http.StatusBadRequest, connectorsdk.ErrorCodeInvalidState, "unknown, used or expired state"}
	case errors.Is(err, service.ErrInvalidRequest):
		return apiError{http.StatusBadRequest, connectorsdk.ErrorCodeInvalidRequest, "missing or invalid parameters"}
	case errors.Is(err, provider.ErrTimeout):
		return apiError{http.StatusGatewayTimeout, connectorsdk.ErrorCodeProviderTimeout, "platform did not answer in time"}
	// Attempt timeouts are transient provider errors wrapping
	// context.DeadlineExceeded; they stay 502.
	case errors.As(err, &provErr) && provErr.Permanent():
		return apiError{http.StatusBadGateway, connectorsdk.ErrorCodeProviderRejected, "platform rejected the request"}
	case errors.As(err, &provErr):
		return apiError{http.StatusBadGateway, connectorsdk.ErrorCodeProviderUnavailable, "platform is unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusGatewayTimeout, connectorsdk.ErrorCodeProviderTimeout, "platform did not answer in time"}
	case errors.Is(err, cryptox.ErrDecryption):
		return apiError{http.StatusInternalServerError, connectorsdk.ErrorCodeCredentialUnreadable,
			"stored credentials cannot be decrypted"}
	}
	return apiError{http.StatusInternalServerError, connectorsdk.ErrorCodeServerError, "internal server error"}
}

// writeServiceError logs err and writes the mapped error response.
// Descriptions are fixed strings; provider bodies never reach the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e := classify(err)

	log := slogx.FromContext(r.Context())
	if e.status >= http.StatusInternalServerError {
		log.Error(msg, "error", err, "code", e.code)
	} else {
		log.Info(msg, "error", err, "code", e.code)
	}

	httpx.WriteError(w, e.status, e.code, e.description)
}
