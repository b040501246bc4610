package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("database is locked")

func fastPolicy() Policy {
	return Policy{Attempts: 3, Delay: time.Millisecond}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	var seen []int
	var retried []int
	p := fastPolicy()
	p.OnRetry = func(attempt int, err error) { retried = append(retried, attempt) }

	err := Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 3 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) error {
		calls++
		return errFlaky
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	errBad := errors.New("title must not be empty")
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) error {
		calls++
		return Permanent(errBad)
	})
	assert.Equal(t, errBad, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 3, Delay: time.Hour}

	err := Do(ctx, p, func(ctx context.Context, attempt int) error {
		cancel()
		return errFlaky
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_LinearBackoff(t *testing.T) {
	p := Policy{Attempts: 3, Delay: 10 * time.Millisecond}
	start := time.Now()
	_ = Do(context.Background(), p, func(ctx context.Context, attempt int) error {
		return errFlaky
	})
	// 10ms after the first failure, 20ms after the second.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
