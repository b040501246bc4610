package testutil

import (
	"testing"
	"time"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/clock"
	"github.com/nhle/momentum/internal/retry"
)

// NewService wires a Service over a fresh in-memory store, driven by a
// fake clock set to now. Calendar days are taken in UTC and failed
// writes are retried without waiting.
func NewService(t *testing.T, now time.Time, opts ...app.Option) (*app.Service, *clock.FakeClock) {
	t.Helper()

	fc := clock.Fake(now)
	base := []app.Option{
		app.WithClock(fc),
		app.WithLogger(DiscardLogger()),
		app.WithLocation(time.UTC),
		app.WithWritePolicy(retry.Policy{Attempts: 3}),
	}
	svc := app.New(NewTestStore(t), append(base, opts...)...)
	return svc, fc
}

// Date builds a UTC time at hour:00 on the given day.
func Date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
