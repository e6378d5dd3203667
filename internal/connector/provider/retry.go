package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxRetries     = 2
	MaxRetriesCap         = 5
	DefaultRetryDelay     = 2 * time.Second
	DefaultAttemptTimeout = 10 * time.Second
)

// RetryPolicy bounds every outbound provider call. A call is attempted at
// most MaxRetries+1 times; the wait before retry n is BaseDelay * 2^(n-1).
type RetryPolicy struct {
	MaxRetries     int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration

	// OnRetry, when set, observes each scheduled retry.
	OnRetry func(attempt int, delay time.Duration)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     DefaultMaxRetries,
		BaseDelay:      DefaultRetryDelay,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	p.MaxRetries = min(max(p.MaxRetries, 0), MaxRetriesCap)
	p.BaseDelay = max(p.BaseDelay, 0)
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = DefaultAttemptTimeout
	}
	return p
}

// Budget is the longest Do can run when every attempt times out: all
// attempts at AttemptTimeout plus every backoff wait.
func (p RetryPolicy) Budget() time.Duration {
	p = p.normalized()
	attempts := time.Duration(p.MaxRetries + 1)
	waits := p.BaseDelay * time.Duration((1<<p.MaxRetries)-1)
	return attempts*p.AttemptTimeout + waits
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = p.BaseDelay << MaxRetriesCap
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)
}

// Do runs fn until it succeeds, fails permanently, exhausts the retry budget
// or ctx ends. Each attempt gets its own AttemptTimeout.
func (p RetryPolicy) Do(ctx context.Context, platform domain.Platform, op string, fn func(ctx context.Context) error) error {
	p = p.normalized()
	log := slogx.FromContext(ctx)

	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
		defer cancel()

		err := fn(attemptCtx)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil, IsPermanent(err):
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		log.Warn("provider call failed, retrying",
			"platform", platform,
			"op", op,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay)
		}
	}

	err := backoff.RetryNotify(operation, p.backOff(ctx), notify)
	if err == nil {
		return nil
	}
	return contextError(ctx, platform, op, err)
}

// contextError reports an ended ctx in place of err. Only a passed deadline
// is a timeout; an explicit cancel is returned as context.Canceled.
func contextError(ctx context.Context, platform domain.Platform, op string, err error) error {
	ctxErr := ctx.Err()
	switch {
	case ctxErr == nil:
		return err
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s %s: %w", ErrTimeout, platform, op, ctxErr)
	default:
		return fmt.Errorf("%s %s: %w", platform, op, ctxErr)
	}
}
