package core

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ResetWaiter helps callers recover from RateLimit errors. When the error
// carries a reset timestamp the wait is exact; when the server sent no
// rate-limit headers the waiter falls back to exponential backoff. The SDK
// pipeline itself never retries — this is opt-in, caller-side tooling.
//
// A ResetWaiter tracks backoff state across calls and is not safe for
// concurrent use; create one per retry loop.
type ResetWaiter struct {
	b backoff.BackOff
}

// NewResetWaiter creates a ResetWaiter with a 1s initial interval capped at
// one minute.
func NewResetWaiter() *ResetWaiter {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	eb.MaxInterval = time.Minute
	eb.Multiplier = 2.0
	eb.RandomizationFactor = 0.2
	eb.Reset()
	return &ResetWaiter{b: eb}
}

// Wait blocks until the rate limit described by err should have cleared, or
// ctx is done. It returns nil when the caller may retry, ctx.Err() on
// cancellation. Errors without reset metadata use the backoff schedule;
// a reset timestamp already in the past returns immediately.
func (w *ResetWaiter) Wait(ctx context.Context, err error) error {
	delay, exact := resetDelay(err)
	if exact {
		w.b.Reset()
	} else {
		delay = w.b.NextBackOff()
		if delay == backoff.Stop {
			delay = time.Minute
		}
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// resetDelay extracts the time until the rate-limit window resets. The
// second return is false when err carries no reset timestamp.
func resetDelay(err error) (time.Duration, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.RateLimit == nil || apiErr.RateLimit.Reset.IsZero() {
		return 0, false
	}
	return time.Until(apiErr.RateLimit.Reset), true
}
