package gamify

import (
	"math"

	"github.com/nhle/momentum/internal/model"
)

// BaseXP returns the XP a task is worth before multipliers.
func BaseXP(p model.Priority) int {
	switch p {
	case model.PriorityLow:
		return 10
	case model.PriorityHigh:
		return 50
	default:
		return 25
	}
}

// StreakMultiplier rewards goals that are completed on consecutive days.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 3.0
	case streak >= 14:
		return 2.0
	case streak >= 7:
		return 1.5
	case streak >= 3:
		return 1.2
	default:
		return 1.0
	}
}

// UrgencyMultiplier rewards tasks finished on or shortly before their due
// date. Tasks with no due date, or already overdue, get no bonus.
func UrgencyMultiplier(due, today model.Date) float64 {
	if due.IsZero() {
		return 1.0
	}
	days := due.DaysSince(today)
	switch {
	case days == 0:
		return 1.5
	case days > 0 && days <= 7:
		return 1.2
	default:
		return 1.0
	}
}

// TaskXP is the XP awarded for completing a task of priority p, due on
// due, when the owning goal's streak is streak on day today.
func TaskXP(p model.Priority, streak int, due, today model.Date) int {
	xp := float64(BaseXP(p)) * StreakMultiplier(streak) * UrgencyMultiplier(due, today)
	return int(math.Round(xp))
}
