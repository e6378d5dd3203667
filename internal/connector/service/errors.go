package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not_found")
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrAccountInactive         = errors.New("account_inactive")
	ErrReauthorizationRequired = errors.New("reauthorization_required")
	ErrMissingRefreshToken     = errors.New("missing_refresh_token")
	ErrInvalidState            = errors.New("invalid_state")
)

// ReauthorizationError means the stored credentials can no longer be
// refreshed and the user has to go through the connect flow again. Err is
// ErrMissingRefreshToken or the permanent *provider.Error.
type ReauthorizationError struct {
	AccountID string
	Err       error
}

func (e *ReauthorizationError) Error() string {
	return fmt.Sprintf("account %s requires reauthorization: %v", e.AccountID, e.Err)
}

func (e *ReauthorizationError) Unwrap() error { return e.Err }

func (e *ReauthorizationError) Is(target error) bool {
	return target == ErrReauthorizationRequired
}
