package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/momentum/internal/clock"
	"github.com/nhle/momentum/internal/metrics"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/tests/testutil"
)

type fakeSource struct {
	mu    sync.Mutex
	goals []model.Goal
	err   error
	calls int
}

func (f *fakeSource) InactiveGoals(_ context.Context, threshold int) ([]model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.goals, f.err
}

func (f *fakeSource) set(goals []model.Goal, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals, f.err = goals, err
}

func next(t *testing.T, r *Refresher) ResultMsg {
	t.Helper()
	select {
	case res := <-r.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh result")
		return ResultMsg{}
	}
}

func TestRefresher(t *testing.T) {
	src := &fakeSource{goals: []model.Goal{{ID: "g1"}}}
	fc := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	m := metrics.New()

	r := New(src, WithClock(fc), WithMetrics(m), WithLogger(testutil.DiscardLogger()))
	r.Start()
	defer r.Stop()

	t.Run("refreshes on start", func(t *testing.T) {
		res := next(t, r)
		require.NoError(t, res.Error)
		assert.Len(t, res.Inactive, 1)
		assert.Equal(t, 1.0, promtest.ToFloat64(m.InactiveGoals))
	})

	t.Run("refreshes every interval", func(t *testing.T) {
		src.set([]model.Goal{{ID: "g1"}, {ID: "g2"}}, nil)
		fc.Advance(Interval)
		res := next(t, r)
		assert.Len(t, res.Inactive, 2)
		assert.Equal(t, 2.0, promtest.ToFloat64(m.InactiveGoals))
		assert.Equal(t, StateIdle, r.Status().State)
	})

	t.Run("refresh now", func(t *testing.T) {
		src.set(nil, nil)
		r.RefreshNow()
		res := next(t, r)
		assert.Empty(t, res.Inactive)
		assert.Equal(t, 0.0, promtest.ToFloat64(m.InactiveGoals))
	})

	t.Run("errors are reported", func(t *testing.T) {
		boom := errors.New("boom")
		src.set(nil, boom)
		r.RefreshNow()
		res := next(t, r)
		require.ErrorIs(t, res.Error, boom)
		status := r.Status()
		assert.Equal(t, StateError, status.State)
		assert.ErrorIs(t, status.Error, boom)
	})
}

func TestStopIsIdempotent(t *testing.T) {
	r := New(&fakeSource{}, WithClock(clock.Fake(time.Now())), WithLogger(testutil.DiscardLogger()))
	r.Start()
	r.Stop()
	assert.NotPanics(t, r.Stop)

	msg := r.WaitForResult()()
	if msg != nil {
		_, ok := msg.(ResultMsg)
		assert.True(t, ok)
	}
}

func TestStartAfterStopIsNoop(t *testing.T) {
	src := &fakeSource{}
	r := New(src, WithClock(clock.Fake(time.Now())), WithLogger(testutil.DiscardLogger()))
	r.Start()
	next(t, r)
	r.Stop()

	assert.NotPanics(t, func() {
		r.Start()
		r.Stop()
	})
	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 1, src.calls)
}
