// Package retry executes fallible operations with bounded exponential
// backoff. It knows nothing about what it runs: callers decide which of
// their failures are worth retrying before handing an operation here.
package retry

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoAttempts = errors.New("retry: attempts must be positive")
)

// Do runs op up to maxAttempts times, sleeping initialDelay * 2^n after
// attempt n fails. The wait is a timer, never a held lock, and is cut
// short by context cancellation. Do returns nil on the first success and
// the last observed error after exhaustion.
func Do(ctx context.Context, maxAttempts int, initialDelay time.Duration, op func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		return ErrNoAttempts
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := initialDelay << (attempt - 1)
			if err := wait(ctx, delay); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
