package model

import "time"

// Priority ranks how important a task is. It drives base XP.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps user input to a Priority, accepting names and 1-3.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "low", "1":
		return PriorityLow, true
	case "medium", "med", "2":
		return PriorityMedium, true
	case "high", "3":
		return PriorityHigh, true
	}
	return "", false
}

// RepeatType selects the unit a repeating task advances by.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatCustom  RepeatType = "custom"
)

// RepeatPattern describes how a completed task is regenerated.
type RepeatPattern struct {
	Type     RepeatType `json:"type" yaml:"type" validate:"oneof=none daily weekly monthly custom"`
	Interval int        `json:"interval" yaml:"interval" validate:"gte=1,lte=365"`
	EndDate  Date       `json:"end_date" yaml:"end_date"`
}

// Repeats reports whether the pattern produces follow-up tasks.
func (p *RepeatPattern) Repeats() bool {
	return p != nil && p.Type != "" && p.Type != RepeatNone
}

// Task is a unit of work, optionally owned by a goal.
type Task struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title" validate:"notblank,max=500"`
	Description string `json:"description,omitempty" db:"description"`

	DueDate          Date      `json:"due_date" db:"due_date"`
	SuggestedDueDate Date      `json:"suggested_due_date" db:"suggested_due_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	GoalID *string  `json:"goal_id,omitempty" db:"goal_id"`
	Tags   []string `json:"tags" db:"-"`

	Completed           bool       `json:"completed" db:"completed"`
	CompletionTimestamp *time.Time `json:"completion_timestamp,omitempty" db:"completed_at"`

	Priority   Priority `json:"priority" db:"priority" validate:"omitempty,oneof=low medium high"`
	IsArchived bool     `json:"is_archived" db:"archived"`

	// IsQuiet marks a low-pressure task that is left out of stats and
	// the dependency graph.
	IsQuiet bool `json:"is_quiet" db:"quiet"`

	RepeatPattern *RepeatPattern `json:"repeat_pattern,omitempty" db:"-"`

	// SeriesID is shared by every instance generated from one repeating task.
	SeriesID *string `json:"series_id,omitempty" db:"series_id"`

	Dependencies []string `json:"dependencies" db:"-"`

	XP        *int    `json:"xp,omitempty" db:"xp"`
	TimeSpent *int    `json:"time_spent,omitempty" db:"time_spent"`
	ThemeID   *string `json:"theme_id,omitempty" db:"theme_id"`
}

// InGoal reports whether the task is owned by goalID.
func (t *Task) InGoal(goalID string) bool {
	return t.GoalID != nil && *t.GoalID == goalID
}

// DependsOn reports whether id is a direct dependency.
func (t *Task) DependsOn(id string) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// RemoveDependency drops id from the dependency list.
func (t *Task) RemoveDependency(id string) bool {
	kept := make([]string, 0, len(t.Dependencies))
	removed := false
	for _, d := range t.Dependencies {
		if d == id {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	t.Dependencies = kept
	return removed
}

// HasTag reports whether the task carries tag, case-sensitively.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Normalize applies the defaults every stored task must satisfy.
func (t *Task) Normalize() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.GoalID != nil && *t.GoalID == "" {
		t.GoalID = nil
	}
	if t.RepeatPattern != nil && !t.RepeatPattern.Repeats() {
		t.RepeatPattern = nil
	}
	if !t.Completed {
		t.CompletionTimestamp = nil
	}
}
