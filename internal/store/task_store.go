package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/model"
)

// taskRow is a tasks row with its JSON columns still encoded.
type taskRow struct {
	model.Task
	TagsJSON         string         `db:"tags"`
	DependenciesJSON string         `db:"dependencies"`
	RepeatJSON       sql.NullString `db:"repeat_pattern"`
}

func (r taskRow) decode() (model.Task, error) {
	t := r.Task
	var err error
	if t.Tags, err = decodeStrings(r.TagsJSON); err != nil {
		return t, fmt.Errorf("decoding tags for task %s: %w", t.ID, err)
	}
	if t.Dependencies, err = decodeStrings(r.DependenciesJSON); err != nil {
		return t, fmt.Errorf("decoding dependencies for task %s: %w", t.ID, err)
	}
	if r.RepeatJSON.Valid && r.RepeatJSON.String != "" {
		var p model.RepeatPattern
		if err := json.Unmarshal([]byte(r.RepeatJSON.String), &p); err != nil {
			return t, fmt.Errorf("decoding repeat pattern for task %s: %w", t.ID, err)
		}
		t.RepeatPattern = &p
	}
	return t, nil
}

const taskColumns = `id, title, description, due_date, suggested_due_date, created_at,
	goal_id, tags, completed, completed_at, priority, archived, quiet,
	repeat_pattern, series_id, dependencies, xp, time_spent, theme_id`

// CreateTask inserts a new task. Generates a UUID if ID is empty.
func (r *repo) CreateTask(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.Normalize()

	cols, err := encodeTaskColumns(task)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.DueDate, task.SuggestedDueDate, task.CreatedAt,
		task.GoalID, cols.tags, boolToInt(task.Completed), utcPtr(task.CompletionTimestamp),
		task.Priority, boolToInt(task.IsArchived), boolToInt(task.IsQuiet),
		cols.repeat, task.SeriesID, cols.dependencies, task.XP, task.TimeSpent, task.ThemeID,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// UpdateTask replaces an existing task by ID.
func (r *repo) UpdateTask(ctx context.Context, task *model.Task) error {
	task.Normalize()

	cols, err := encodeTaskColumns(task)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, due_date = ?, suggested_due_date = ?,
			goal_id = ?, tags = ?, completed = ?, completed_at = ?,
			priority = ?, archived = ?, quiet = ?, repeat_pattern = ?,
			series_id = ?, dependencies = ?, xp = ?, time_spent = ?, theme_id = ?
		WHERE id = ?`,
		task.Title, task.Description, task.DueDate, task.SuggestedDueDate,
		task.GoalID, cols.tags, boolToInt(task.Completed), utcPtr(task.CompletionTimestamp),
		task.Priority, boolToInt(task.IsArchived), boolToInt(task.IsQuiet), cols.repeat,
		task.SeriesID, cols.dependencies, task.XP, task.TimeSpent, task.ThemeID,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	return checkAffected(result, "task", task.ID)
}

// DeleteTask removes a task by ID. References held by goals and other
// tasks are left to the caller.
func (r *repo) DeleteTask(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return checkAffected(result, "task", id)
}

// GetTaskByID retrieves a single task by ID.
func (r *repo) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var row taskRow
	err := r.q.GetContext(ctx, &row, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	t, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTasks retrieves tasks matching the filter.
func (r *repo) GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args := buildTaskQuery("SELECT "+taskColumns, filter)
	return r.selectTasks(ctx, query, args...)
}

// GetDependents returns the tasks that list taskID as a dependency.
func (r *repo) GetDependents(ctx context.Context, taskID string) ([]model.Task, error) {
	return r.selectTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE EXISTS (SELECT 1 FROM json_each(tasks.dependencies) WHERE json_each.value = ?)
		ORDER BY created_at`,
		taskID,
	)
}

func (r *repo) selectTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	var rows []taskRow
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.decode()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

type taskColumnValues struct {
	tags         string
	dependencies string
	repeat       *string
}

func encodeTaskColumns(task *model.Task) (taskColumnValues, error) {
	var out taskColumnValues
	var err error
	if out.tags, err = encodeJSON(task.Tags, "[]"); err != nil {
		return out, fmt.Errorf("encoding tags for task %s: %w", task.ID, err)
	}
	if out.dependencies, err = encodeJSON(task.Dependencies, "[]"); err != nil {
		return out, fmt.Errorf("encoding dependencies for task %s: %w", task.ID, err)
	}
	if task.RepeatPattern != nil {
		b, err := json.Marshal(task.RepeatPattern)
		if err != nil {
			return out, fmt.Errorf("encoding repeat pattern for task %s: %w", task.ID, err)
		}
		s := string(b)
		out.repeat = &s
	}
	return out, nil
}

// taskSortColumns maps TaskFilter.SortBy values to ORDER BY expressions.
var taskSortColumns = map[string]string{
	"created_at":   "created_at",
	"due_date":     "due_date IS NULL, due_date",
	"priority":     "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END",
	"title":        "title COLLATE NOCASE",
	"completed_at": "completed_at",
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
func buildTaskQuery(selectClause string, filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.GoalID != nil {
		if *filter.GoalID == "none" {
			conditions = append(conditions, "goal_id IS NULL")
		} else {
			conditions = append(conditions, "goal_id = ?")
			args = append(args, *filter.GoalID)
		}
	}
	if filter.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *filter.SeriesID)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Archived != nil {
		conditions = append(conditions, "archived = ?")
		args = append(args, boolToInt(*filter.Archived))
	}
	if filter.DueOn != nil {
		conditions = append(conditions, "due_date = ?")
		args = append(args, filter.DueOn.String())
	}
	if filter.DueBefore != nil {
		conditions = append(conditions, "due_date < ?")
		args = append(args, filter.DueBefore.String())
	}
	if filter.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *filter.Title)
	}
	if !filter.IncludeQuiet {
		conditions = append(conditions, "quiet = 0")
	}

	query := selectClause + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	order, ok := taskSortColumns[filter.SortBy]
	if !ok {
		order = taskSortColumns["created_at"]
	}
	if filter.SortDesc {
		// Apply DESC to the last expression only; the NULL ordering stays put.
		order += " DESC"
	}
	query += " ORDER BY " + order + ", id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return query, args
}
