package gamify

import (
	"time"

	"github.com/nhle/momentum/internal/model"
)

// Badge is an achievement earned by a goal once its predicate holds.
type Badge struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	earned func(p progress) bool
}

type progress struct {
	goal          *model.Goal
	completed     int
	highCompleted int
	early         int
}

// Badges is the fixed catalogue, in display order.
var Badges = []Badge{
	{
		ID: "on-a-roll", Name: "On a Roll", Description: "Keep a 5-day streak",
		earned: func(p progress) bool { return p.goal.StreakCounter >= 5 },
	},
	{
		ID: "week-warrior", Name: "Week Warrior", Description: "Keep a 7-day streak",
		earned: func(p progress) bool { return p.goal.StreakCounter >= 7 },
	},
	{
		ID: "rising-star", Name: "Rising Star", Description: "Reach level 5",
		earned: func(p progress) bool { return p.goal.Level >= 5 },
	},
	{
		ID: "reborn", Name: "Reborn", Description: "Prestige a goal",
		earned: func(p progress) bool { return p.goal.PrestigeLevel >= 1 },
	},
	{
		ID: "finisher", Name: "Finisher", Description: "Complete 20 tasks",
		earned: func(p progress) bool { return p.completed >= 20 },
	},
	{
		ID: "heavy-lifter", Name: "Heavy Lifter", Description: "Complete 10 high-priority tasks",
		earned: func(p progress) bool { return p.highCompleted >= 10 },
	},
	{
		ID: "early-bird", Name: "Early Bird", Description: "Complete 5 tasks before they are due",
		earned: func(p progress) bool { return p.early >= 5 },
	},
}

// BadgeByID looks up a catalogue entry.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// EarnedBadges returns the IDs of every badge the goal qualifies for,
// given the tasks it owns. Completion days are taken in loc.
func EarnedBadges(goal *model.Goal, tasks []model.Task, loc *time.Location) []string {
	p := progress{goal: goal}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		p.completed++
		if t.Priority == model.PriorityHigh {
			p.highCompleted++
		}
		if t.CompletionTimestamp != nil && !t.DueDate.IsZero() &&
			model.DateOf(t.CompletionTimestamp.In(loc)).Before(t.DueDate) {
			p.early++
		}
	}

	var ids []string
	for _, b := range Badges {
		if b.earned(p) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// NewBadges returns the IDs in after that are not in before, keeping
// the order of after.
func NewBadges(before, after []string) []string {
	held := make(map[string]bool, len(before))
	for _, id := range before {
		held[id] = true
	}
	var fresh []string
	for _, id := range after {
		if !held[id] {
			fresh = append(fresh, id)
		}
	}
	return fresh
}
