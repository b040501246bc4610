package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/momentum/internal/model"
)

var (
	// ErrNotFound is returned when a record with the given key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a goal changed since it was read.
	ErrVersionConflict = errors.New("version conflict")

	// ErrUnrecoverable is returned when the database cannot be opened
	// even after it was deleted and recreated.
	ErrUnrecoverable = errors.New("store unrecoverable")
)

// TaskFilter controls filtering, sorting, and pagination for task queries.
type TaskFilter struct {
	GoalID       *string     // goal UUID, "none" (NULL goal_id), or nil (all)
	SeriesID     *string     // tasks generated from the same repeating task
	Completed    *bool       // nil (all)
	Archived     *bool       // nil (all)
	DueOn        *model.Date // due exactly on this day
	DueBefore    *model.Date // due strictly before this day
	Title        *string     // exact title match
	IncludeQuiet bool        // quiet tasks are excluded unless set
	SortBy       string      // "created_at", "due_date", "priority", "title", "completed_at"
	SortDesc     bool
	Limit        int
	Offset       int
}

// HistoryFilter narrows a history query.
type HistoryFilter struct {
	EntityIDs []string
	Types     []model.HistoryType
	Limit     int
}

// Repo holds the per-collection operations. Every method is usable both
// directly on the store and inside a transaction started with InTx.
type Repo interface {
	// === Goals ===

	CreateGoal(ctx context.Context, goal *model.Goal) error
	// UpdateGoal replaces a goal if its Version still matches the stored
	// one, then increments goal.Version.
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	GetGoalByID(ctx context.Context, id string) (*model.Goal, error)
	GetGoals(ctx context.Context, includeArchived bool) ([]model.Goal, error)

	// === Tasks ===

	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	GetDependents(ctx context.Context, taskID string) ([]model.Task, error)

	// === History ===

	AppendHistory(ctx context.Context, entry *model.HistoryEntry) error
	GetHistory(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, error)
	GetHistoryRange(ctx context.Context, from, to time.Time) ([]model.HistoryEntry, error)

	// === Daily themes ===

	PutTheme(ctx context.Context, theme model.DailyTheme) error
	DeleteTheme(ctx context.Context, day string) error
	GetTheme(ctx context.Context, day string) (*model.DailyTheme, error)
	GetThemes(ctx context.Context) ([]model.DailyTheme, error)

	// === User profiles ===

	PutProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

// Store is the persistence interface for goals, tasks, history, daily
// themes, and user profiles.
type Store interface {
	Repo

	// InTx runs fn inside a single transaction. fn must only use the
	// Repo it is given.
	InTx(ctx context.Context, fn func(Repo) error) error

	// ClearAll removes every record from every collection.
	ClearAll(ctx context.Context) error

	// Recreate drops and recreates the schema, discarding all data.
	Recreate(ctx context.Context) error

	Close() error
}
