// Package streak derives goal streaks, inactivity, and per-task
// completion history from dates and history entries.
package streak

import (
	"time"

	"github.com/nhle/momentum/internal/model"
)

// UpdateGoalStreak records a completion on today. It returns false when
// the goal was already completed today and nothing changed.
func UpdateGoalStreak(goal *model.Goal, today model.Date) bool {
	last := goal.LastCompletedDate
	switch {
	case !last.IsZero() && last == today:
		return false
	case !last.IsZero() && last == today.AddDays(-1):
		goal.StreakCounter++
	default:
		goal.StreakCounter = 1
	}
	goal.LastCompletedDate = today
	return true
}

// LastActivity is when the goal was last touched, falling back to its
// creation time.
func LastActivity(goal *model.Goal) time.Time {
	if goal.LastActiveDate != nil {
		return *goal.LastActiveDate
	}
	return goal.CreatedAt
}

// IsInactive reports whether an active goal has gone untouched for more
// than thresholdDays. Archived and paused goals are never inactive.
func IsInactive(goal *model.Goal, now time.Time, thresholdDays int) bool {
	if goal.IsArchived || goal.IsPaused {
		return false
	}
	threshold := time.Duration(thresholdDays) * 24 * time.Hour
	return now.Sub(LastActivity(goal)) > threshold
}

// InactiveGoals filters goals down to the inactive ones.
func InactiveGoals(goals []model.Goal, now time.Time, thresholdDays int) []model.Goal {
	var out []model.Goal
	for i := range goals {
		if IsInactive(&goals[i], now, thresholdDays) {
			out = append(out, goals[i])
		}
	}
	return out
}
