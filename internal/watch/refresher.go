// Package watch re-checks goal inactivity in the background.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/momentum/internal/clock"
	"github.com/nhle/momentum/internal/metrics"
	"github.com/nhle/momentum/internal/model"
)

// Interval is how often inactivity is recomputed.
const Interval = 24 * time.Hour

// checkTimeout bounds a single inactivity query.
const checkTimeout = 30 * time.Second

// State is the refresher's current activity.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateError
)

// Status describes the last refresh.
type Status struct {
	State       State
	LastRefresh time.Time
	Error       error
}

// ResultMsg is a tea.Msg carrying the outcome of one refresh.
type ResultMsg struct {
	Inactive []model.Goal
	At       time.Time
	Error    error
}

// Source computes the currently inactive goals. A threshold below 1
// means the source's configured threshold.
type Source interface {
	InactiveGoals(ctx context.Context, thresholdDays int) ([]model.Goal, error)
}

// Refresher recomputes inactive goals immediately on Start, then every
// Interval and whenever RefreshNow is called.
type Refresher struct {
	src     Source
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics

	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu      sync.Mutex
	status  Status
	running bool
	stopped bool
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option { return func(r *Refresher) { r.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(r *Refresher) { r.logger = l } }

// WithMetrics publishes the inactive goal count as a gauge.
func WithMetrics(m *metrics.Metrics) Option { return func(r *Refresher) { r.metrics = m } }

// New creates a Refresher over src.
func New(src Source, opts ...Option) *Refresher {
	r := &Refresher{
		src:       src,
		clock:     clock.Real(),
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Start launches the refresh loop. Calling it twice has no effect, and
// a stopped Refresher stays stopped.
func (r *Refresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.stopped {
		return
	}
	r.running = true
	go r.loop()
}

// Stop ends the loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.stopped = true
	close(r.stopCh)
	r.mu.Unlock()
	<-r.doneCh
}

// RefreshNow requests an immediate refresh. Requests made while one is
// already pending are merged.
func (r *Refresher) RefreshNow() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
}

// Results delivers one ResultMsg per refresh. Results are dropped when
// nobody reads them.
func (r *Refresher) Results() <-chan ResultMsg { return r.resultCh }

// Status returns the state of the last refresh.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// WaitForResult returns a tea.Cmd that blocks until the next refresh
// result. Call it again after each ResultMsg to keep listening.
func (r *Refresher) WaitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case res := <-r.resultCh:
			return res
		case <-r.doneCh:
			return nil
		}
	}
}

func (r *Refresher) loop() {
	defer close(r.doneCh)

	ticker := r.clock.NewTicker(Interval)
	defer ticker.Stop()

	r.refresh()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

// refresh runs one inactivity check and publishes its result.
func (r *Refresher) refresh() {
	r.setStatus(StateRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	goals, err := r.src.InactiveGoals(ctx, 0)
	now := r.clock.Now()
	if err != nil {
		r.logger.Warn("inactivity refresh failed", "error", err)
		r.setStatus(StateError, err)
		r.send(ResultMsg{At: now, Error: err})
		return
	}

	r.metrics.SetInactiveGoals(len(goals))
	r.logger.Debug("inactivity refreshed", "inactive", len(goals))
	r.setStatus(StateIdle, nil)
	r.send(ResultMsg{Inactive: goals, At: now})
}

func (r *Refresher) setStatus(state State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.State = state
	r.status.Error = err
	if state == StateIdle {
		r.status.LastRefresh = r.clock.Now()
	}
}

func (r *Refresher) send(msg ResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		r.logger.Debug("dropping inactivity result, channel full")
	}
}
