package model

import "time"

// Goal groups tasks and carries the gamification state earned by
// completing them.
type Goal struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title" validate:"notblank,max=200"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Order is the goal's position on the dashboard.
	Order int `json:"order" db:"sort_order"`

	Color string `json:"color" db:"color"`

	StreakCounter     int  `json:"streak_counter" db:"streak_counter" validate:"gte=0"`
	LastCompletedDate Date `json:"last_completed_date" db:"last_completed_date"`

	// Level is always derived from XP via the level curve.
	Level         int      `json:"level" db:"level" validate:"gte=1"`
	XP            int      `json:"xp" db:"xp" validate:"gte=0"`
	PrestigeLevel int      `json:"prestige_level" db:"prestige_level" validate:"gte=0"`
	Badges        []string `json:"badges" db:"-"`

	// TaskIDs mirrors the set of tasks whose GoalID is this goal.
	TaskIDs []string `json:"task_ids" db:"-"`

	IsArchived     bool       `json:"is_archived" db:"archived"`
	IsPaused       bool       `json:"is_paused" db:"paused"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty" db:"last_active_at"`

	// Version is bumped on every successful write and checked on update.
	Version int `json:"version" db:"version"`
}

// HasTask reports whether id is listed in the goal's TaskIDs.
func (g *Goal) HasTask(id string) bool {
	for _, t := range g.TaskIDs {
		if t == id {
			return true
		}
	}
	return false
}

// AddTask appends id to TaskIDs unless it is already present.
func (g *Goal) AddTask(id string) {
	if !g.HasTask(id) {
		g.TaskIDs = append(g.TaskIDs, id)
	}
}

// RemoveTask drops id from TaskIDs.
func (g *Goal) RemoveTask(id string) {
	kept := g.TaskIDs[:0]
	for _, t := range g.TaskIDs {
		if t != id {
			kept = append(kept, t)
		}
	}
	g.TaskIDs = kept
}

// HasBadge reports whether the goal already holds the badge.
func (g *Goal) HasBadge(id string) bool {
	for _, b := range g.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// GoalStats are the derived completion numbers shown next to a goal.
type GoalStats struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// GoalWithStats pairs a goal with its derived stats.
type GoalWithStats struct {
	Goal
	Stats GoalStats `json:"stats"`
}
