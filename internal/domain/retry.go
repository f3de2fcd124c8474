package domain

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy controls the delay between failed attempts.
type RetryPolicy struct {
	// BaseDelay is the wait after the first failed attempt. It doubles after each failure.
	BaseDelay time.Duration

	// MaxDelay caps a single wait. Zero means uncapped.
	MaxDelay time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy waits 1s, 2s, 4s, ... between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{BaseDelay: time.Second}
}

// Delay returns the wait after failed attempt i (0-based).
func (p RetryPolicy) Delay(i int) time.Duration {
	d := p.BaseDelay << uint(i) //nolint:gosec // i is bounded by the retry limit.
	if d < 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		return p.MaxDelay
	}
	return d
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepWithContext(ctx, d)
}

// Retry calls attempt up to maxRetries+1 times. On success it returns the value and the
// index of the successful attempt. Non-retryable errors stop immediately. Every failure
// is reported as a *RetryError.
func Retry[T any](
	ctx context.Context,
	policy RetryPolicy,
	maxRetries int,
	attempt func(ctx context.Context) (T, error),
) (T, int, error) {
	var zero T
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		value, err := attempt(ctx)
		if err == nil {
			return value, i, nil
		}
		lastErr = err

		if !IsRetryable(err) || i == maxRetries {
			return zero, i, &RetryError{Attempts: i + 1, RetryCount: i, Err: err}
		}

		if sleepErr := policy.sleep(ctx, policy.Delay(i)); sleepErr != nil {
			return zero, i, &RetryError{
				Attempts:   i + 1,
				RetryCount: i,
				Err:        errors.Join(lastErr, sleepErr),
			}
		}
	}

	// Unreachable: the loop always returns on its final iteration.
	return zero, maxRetries, &RetryError{Attempts: maxRetries + 1, RetryCount: maxRetries, Err: lastErr}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
