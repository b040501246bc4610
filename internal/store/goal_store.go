package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/model"
)

// goalRow is a goals row with its JSON list columns still encoded.
type goalRow struct {
	model.Goal
	BadgesJSON  string `db:"badges"`
	TaskIDsJSON string `db:"task_ids"`
}

func (r goalRow) decode() (model.Goal, error) {
	g := r.Goal
	var err error
	if g.Badges, err = decodeStrings(r.BadgesJSON); err != nil {
		return g, fmt.Errorf("decoding badges for goal %s: %w", g.ID, err)
	}
	if g.TaskIDs, err = decodeStrings(r.TaskIDsJSON); err != nil {
		return g, fmt.Errorf("decoding task ids for goal %s: %w", g.ID, err)
	}
	return g, nil
}

const goalColumns = `id, title, created_at, sort_order, color, streak_counter,
	last_completed_date, level, xp, prestige_level, badges, task_ids,
	archived, paused, last_active_at, version`

// CreateGoal inserts a new goal. Generates a UUID if ID is empty and
// places the goal after every existing one if Order is unset.
func (r *repo) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	goal.CreatedAt = goal.CreatedAt.UTC()
	if goal.Level < 1 {
		goal.Level = 1
	}
	if goal.Badges == nil {
		goal.Badges = []string{}
	}
	if goal.TaskIDs == nil {
		goal.TaskIDs = []string{}
	}
	goal.Version = 1

	// Default sort_order to max+1.
	if goal.Order == 0 {
		var maxOrder int
		err := r.q.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM goals")
		if err != nil {
			return fmt.Errorf("getting max sort_order: %w", err)
		}
		goal.Order = maxOrder + 1
	}

	badges, taskIDs, err := encodeGoalLists(goal)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Title, goal.CreatedAt, goal.Order, goal.Color, goal.StreakCounter,
		goal.LastCompletedDate, goal.Level, goal.XP, goal.PrestigeLevel, badges, taskIDs,
		boolToInt(goal.IsArchived), boolToInt(goal.IsPaused), utcPtr(goal.LastActiveDate),
		goal.Version,
	)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}
	return nil
}

// UpdateGoal replaces a goal only if its stored version still equals
// goal.Version. On success goal.Version is advanced to the new value.
func (r *repo) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	badges, taskIDs, err := encodeGoalLists(goal)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE goals SET
			title = ?, sort_order = ?, color = ?, streak_counter = ?,
			last_completed_date = ?, level = ?, xp = ?, prestige_level = ?,
			badges = ?, task_ids = ?, archived = ?, paused = ?,
			last_active_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		goal.Title, goal.Order, goal.Color, goal.StreakCounter,
		goal.LastCompletedDate, goal.Level, goal.XP, goal.PrestigeLevel,
		badges, taskIDs, boolToInt(goal.IsArchived), boolToInt(goal.IsPaused),
		utcPtr(goal.LastActiveDate),
		goal.ID, goal.Version,
	)
	if err != nil {
		return fmt.Errorf("updating goal %s: %w", goal.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for goal %s: %w", goal.ID, err)
	}
	if rows == 0 {
		var exists int
		err := r.q.GetContext(ctx, &exists, "SELECT COUNT(*) FROM goals WHERE id = ?", goal.ID)
		if err != nil {
			return fmt.Errorf("checking goal %s: %w", goal.ID, err)
		}
		if exists == 0 {
			return fmt.Errorf("goal %s: %w", goal.ID, ErrNotFound)
		}
		return fmt.Errorf("goal %s at version %d: %w", goal.ID, goal.Version, ErrVersionConflict)
	}

	goal.Version++
	return nil
}

// DeleteGoal removes a goal by ID. Tasks pointing at it are left to the caller.
func (r *repo) DeleteGoal(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}
	return checkAffected(result, "goal", id)
}

// GetGoalByID retrieves a single goal by ID.
func (r *repo) GetGoalByID(ctx context.Context, id string) (*model.Goal, error) {
	var row goalRow
	err := r.q.GetContext(ctx, &row, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "goal", id)
	}
	g, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGoals returns goals in dashboard order.
func (r *repo) GetGoals(ctx context.Context, includeArchived bool) ([]model.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY sort_order, created_at"

	var rows []goalRow
	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}

	goals := make([]model.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := row.decode()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func encodeGoalLists(goal *model.Goal) (string, string, error) {
	badges, err := encodeJSON(goal.Badges, "[]")
	if err != nil {
		return "", "", fmt.Errorf("encoding badges for goal %s: %w", goal.ID, err)
	}
	taskIDs, err := encodeJSON(goal.TaskIDs, "[]")
	if err != nil {
		return "", "", fmt.Errorf("encoding task ids for goal %s: %w", goal.ID, err)
	}
	return badges, taskIDs, nil
}

// utcPtr normalizes an optional timestamp to UTC so stored values sort as text.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
