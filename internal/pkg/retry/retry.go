package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how a store read is retried.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// InitialInterval is the wait before the second attempt; later waits
	// grow exponentially.
	InitialInterval time.Duration
	// Timeout bounds every single attempt. Zero disables the per-attempt timeout.
	Timeout time.Duration
	// IsPermanent marks errors that must not be retried.
	IsPermanent func(error) bool
}

// DefaultPolicy is three attempts with 200ms initial backoff and a five second
// per-attempt timeout.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:        3,
		InitialInterval: 200 * time.Millisecond,
		Timeout:         5 * time.Second,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = 10 * p.InitialInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// Do runs fn until it succeeds, returns a permanent error, the attempt budget
// is exhausted or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, name string, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		attemptCtx, cancel := p.attemptContext(ctx)
		defer cancel()

		v, err := fn(attemptCtx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		if errors.Is(err, context.Canceled) || (p.IsPermanent != nil && p.IsPermanent(err)) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("Retry: read failed, backing off",
			"operation", name,
			"attempt", attempt,
			"max_attempts", p.Attempts,
			"wait", wait,
			"error", err)
	}

	return backoff.RetryNotifyWithData(op, p.backOff(ctx), notify)
}

func (p Policy) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}
