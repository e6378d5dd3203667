package connectorsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned by the connector service.
const (
	ErrorCodeInvalidRequest          = "invalid_request"
	ErrorCodeInvalidToken            = "invalid_token"
	ErrorCodeInsufficientScope       = "insufficient_scope"
	ErrorCodeNotFound                = "not_found"
	ErrorCodeUnsupportedPlatform     = "unsupported_platform"
	ErrorCodeAccountInactive         = "account_inactive"
	ErrorCodeReauthorizationRequired = "reauthorization_required"
	ErrorCodeInvalidState            = "invalid_state"
	ErrorCodeAccessDenied            = "access_denied"
	ErrorCodeProviderUnavailable     = "provider_unavailable"
	ErrorCodeProviderRejected        = "provider_rejected"
	ErrorCodeProviderTimeout         = "provider_timeout"
	ErrorCodeCredentialUnreadable    = "credential_unreadable"
	ErrorCodeRateLimited             = "rate_limit_exceeded"
	ErrorCodeServerError             = "server_error"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("connector: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("connector: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsReauthorizationRequired reports whether the account owner has to
// connect the account again before a token can be issued.
func (e *APIError) IsReauthorizationRequired() bool {
	return e.Code == ErrorCodeReauthorizationRequired
}

// IsNotFound reports whether the account (or platform) does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRetryable reports whether repeating the call later may succeed.
func (e *APIError) IsRetryable() bool {
	switch e.Code {
	case ErrorCodeProviderUnavailable, ErrorCodeProviderTimeout, ErrorCodeRateLimited:
		return true
	}
	return e.StatusCode >= http.StatusInternalServerError && e.Code != ErrorCodeCredentialUnreadable
}

// parseErrorResponse turns an error body into an *APIError. Bodies that are
// not JSON still produce an error carrying the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	code := ErrorCodeServerError
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		code = ErrorCodeRateLimited
	case resp.StatusCode == http.StatusNotFound:
		code = ErrorCodeNotFound
	case resp.StatusCode < http.StatusInternalServerError:
		code = ErrorCodeInvalidRequest
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: http.StatusText(resp.StatusCode),
	}
}
