// Package app is the single controller over goals, tasks, history,
// themes, and profiles. Every surface (CLI, HTTP API, focus view) goes
// through a Service, which keeps goal/task cross-references consistent
// and applies the gamification and streak rules on completion.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nhle/momentum/internal/clock"
	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/metrics"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/retry"
	"github.com/nhle/momentum/internal/store"
)

var (
	// ErrValidation wraps input that failed validation. No store call
	// is made for such input.
	ErrValidation = errors.New("invalid input")

	// ErrSelfDependency is returned when a task is made to depend on itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")

	// ErrDependencyCycle is returned when a new dependency would close a cycle.
	ErrDependencyCycle = errors.New("dependency would create a cycle")

	// ErrDependenciesIncomplete is returned when completing a task whose
	// dependencies are not all completed.
	ErrDependenciesIncomplete = errors.New("task has incomplete dependencies")
)

// Service owns the application state. It is safe for concurrent use.
type Service struct {
	store   store.Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	writes  retry.Policy
	loc     *time.Location

	mu                  *sync.RWMutex
	inactivityThreshold *int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithMetrics records completions, XP, retries, and badges.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithWritePolicy sets the retry policy for store writes.
func WithWritePolicy(p retry.Policy) Option { return func(s *Service) { s.writes = p } }

// WithLocation sets the time zone calendar days are taken in.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

// WithInactivityThreshold sets the default inactivity threshold in days.
func WithInactivityThreshold(days int) Option {
	return func(s *Service) { *s.inactivityThreshold = days }
}

// New creates a Service over st.
func New(st store.Store, opts ...Option) *Service {
	threshold := model.DefaultInactivityThresholdDays
	s := &Service{
		store:               st,
		clock:               clock.Real(),
		writes:              retry.StoreWrites(),
		loc:                 time.Local,
		mu:                  &sync.RWMutex{},
		inactivityThreshold: &threshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Retrying returns a view of the Service whose writes use p instead of
// the configured policy. Settings stay shared with s.
func (s *Service) Retrying(p retry.Policy) *Service {
	c := *s
	c.writes = p
	return &c
}

// InactivityThreshold returns the configured threshold in days.
func (s *Service) InactivityThreshold() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.inactivityThreshold
}

// SetInactivityThreshold changes the threshold used when none is given.
func (s *Service) SetInactivityThreshold(days int) error {
	if days < 1 {
		return fmt.Errorf("%w: inactivity threshold must be at least 1 day", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.inactivityThreshold = days
	return nil
}

// Location returns the time zone calendar days are taken in.
func (s *Service) Location() *time.Location { return s.loc }

// now returns the current time in the service's location.
func (s *Service) now() time.Time { return s.clock.Now().In(s.loc) }

// Today returns the current calendar day.
func (s *Service) Today() model.Date { return model.DateOf(s.now()) }

// write runs fn in one transaction, retrying transient failures with the
// service's write policy. Domain errors are returned without retrying.
func (s *Service) write(ctx context.Context, op string, fn func(r store.Repo) error) error {
	policy := s.writes
	policy.OnRetry = func(attempt int, err error) {
		s.metrics.StoreRetry()
		s.logger.Warn("retrying store write", "op", op, "attempt", attempt, "error", err)
	}

	err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		err := s.store.InTx(ctx, fn)
		if err != nil && !retryable(err) && !retry.IsPermanent(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil && retryable(err) {
		s.logger.Error("store write failed", "op", op, "error", err)
	}
	return err
}

// retryable reports whether err may succeed on a fresh attempt.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrSelfDependency),
		errors.Is(err, ErrDependencyCycle),
		errors.Is(err, ErrDependenciesIncomplete),
		errors.Is(err, gamify.ErrNotMaxLevel),
		retry.IsPermanent(err):
		return false
	}
	return true
}

// validate checks v and wraps any failure in ErrValidation.
func validate(v interface{}) error {
	if err := model.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// record appends a history entry. History is advisory, so failures are
// logged and dropped.
func (s *Service) record(ctx context.Context, typ model.HistoryType, kind model.EntityType, id string, details map[string]interface{}) {
	entry := &model.HistoryEntry{
		Type:       typ,
		EntityID:   id,
		EntityType: kind,
		Timestamp:  s.clock.Now(),
		Details:    details,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		s.logger.Warn("appending history failed",
			"type", typ, "entity", kind, "id", id, "error", err)
	}
}

// ClearAll wipes every collection.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clearing data: %w", err)
	}
	s.logger.Info("all data cleared")
	return nil
}

// Recreate drops and rebuilds the database schema.
func (s *Service) Recreate(ctx context.Context) error {
	if err := s.store.Recreate(ctx); err != nil {
		return fmt.Errorf("recreating store: %w", err)
	}
	s.logger.Info("store recreated")
	return nil
}
