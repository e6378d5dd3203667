package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
)

var (
	// ErrTimeout is wrapped when the caller's context ends mid-call. It is
	// never an *Error, so a higher layer does not mistake it for a
	// retryable outage.
	ErrTimeout = errors.New("provider: timeout")

	ErrUnsupportedPlatform = errors.New("provider: unsupported platform")
)

type Kind int

const (
	// KindTransient covers network failures, 5xx and 429 responses.
	KindTransient Kind = iota
	// KindPermanent covers 4xx responses and error bodies; retrying cannot help.
	KindPermanent
)

func (k Kind) String() string {
	if k == KindPermanent {
		return "permanent"
	}
	return "transient"
}

// Error is a failed provider call.
type Error struct {
	Kind        Kind
	Platform    domain.Platform
	Op          string
	StatusCode  int
	Code        string
	Description string
	Err         error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider %s %s: %s failure", e.Platform, e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		b.WriteString(": " + e.Code)
	}
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Transient() bool { return e.Kind == KindTransient }
func (e *Error) Permanent() bool { return e.Kind == KindPermanent }

// IsPermanent reports whether err carries a permanent provider failure.
func IsPermanent(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Permanent()
}

// IsTransient reports whether err carries a transient provider failure.
func IsTransient(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Transient()
}
