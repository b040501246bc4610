// Package retry runs an operation a bounded number of times with a
// linearly increasing delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy configures a retry loop.
type Policy struct {
	// Attempts is the maximum number of calls, including the first.
	Attempts int

	// Delay is multiplied by the attempt number to get the wait after a
	// failed attempt: Delay, 2*Delay, 3*Delay, ...
	Delay time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error)
}

// StoreWrites is the policy for local database writes.
func StoreWrites() Policy {
	return Policy{Attempts: 3, Delay: 300 * time.Millisecond}
}

// UserActions is the policy for user-triggered completion requests.
func UserActions() Policy {
	return Policy{Attempts: 3, Delay: 500 * time.Millisecond}
}

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Func is one attempt. attempt starts at 1.
type Func func(ctx context.Context, attempt int) error

// Do calls fn until it succeeds, returns a permanent error, the context
// is cancelled, or the policy's attempts are used up. The returned error
// wraps the last failure.
func Do(ctx context.Context, p Policy, fn Func) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}

		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			var perm *permanentError
			errors.As(err, &perm)
			return perm.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		wait := p.Delay * time.Duration(attempt)
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-timer.C:
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
