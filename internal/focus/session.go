// Package focus runs a countdown for a single focus session.
package focus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nhle/momentum/internal/clock"
)

// TickInterval is how often a running session counts down.
const TickInterval = time.Second

// ErrInvalidDuration is returned for a non-positive session length.
var ErrInvalidDuration = errors.New("focus duration must be positive")

// Session is a countdown, optionally tied to the task being worked on.
// It is safe for concurrent use.
type Session struct {
	Duration time.Duration
	TaskID   string

	mu        sync.Mutex
	remaining time.Duration
	stopped   bool
}

// NewSession returns a session with the full duration remaining.
func NewSession(d time.Duration, taskID string) (*Session, error) {
	if d <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Session{Duration: d, TaskID: taskID, remaining: d}, nil
}

// Remaining is the time left.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Elapsed is the time spent so far.
func (s *Session) Elapsed() time.Duration {
	return s.Duration - s.Remaining()
}

// Progress is the completed fraction, from 0 to 1.
func (s *Session) Progress() float64 {
	return float64(s.Elapsed()) / float64(s.Duration)
}

// Tick counts down one TickInterval and reports whether the session has
// just finished. A stopped or finished session does not change.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.remaining <= 0 {
		return false
	}
	s.remaining -= TickInterval
	if s.remaining < 0 {
		s.remaining = 0
	}
	return s.remaining == 0
}

// Stop ends the session early.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Done reports whether the countdown reached zero.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining == 0
}

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Run drives s from a ticker on c until it finishes, is stopped, or ctx
// is cancelled. onTick gets the remaining time after every tick; onDone
// is called once when the countdown reaches zero. Both may be nil.
func Run(ctx context.Context, c clock.Clock, s *Session, onTick func(time.Duration), onDone func()) error {
	ticker := c.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.Stopped() {
				return nil
			}
			finished := s.Tick()
			if onTick != nil {
				onTick(s.Remaining())
			}
			if finished {
				if onDone != nil {
					onDone()
				}
				return nil
			}
		}
	}
}
