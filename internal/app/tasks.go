package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/quickadd"
	"github.com/nhle/momentum/internal/store"
)

// prepareTask trims, defaults, and validates a task before any store call.
func prepareTask(t *model.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Normalize()
	t.Tags = dedupe(t.Tags)
	t.Dependencies = dedupe(t.Dependencies)
	return validate(t)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CreateTask stores a new task built from the given fields. ID, creation
// time, and completion state are assigned here; a set GoalID adds the
// task to that goal's task list in the same transaction.
func (s *Service) CreateTask(ctx context.Context, in model.Task) (*model.Task, error) {
	now := s.clock.Now()
	task := in
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.Completed = false
	task.CompletionTimestamp = nil
	task.XP = nil
	task.SeriesID = nil
	if err := prepareTask(&task); err != nil {
		return nil, err
	}

	err := s.write(ctx, "create task", func(r store.Repo) error {
		t := task
		if len(t.Dependencies) > 0 {
			if err := s.checkNewDependencies(ctx, r, t.ID, nil, t.Dependencies); err != nil {
				return err
			}
		}
		if t.GoalID != nil {
			if err := attachToGoal(ctx, r, *t.GoalID, t.ID, now); err != nil {
				return err
			}
		}
		return r.CreateTask(ctx, &t)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryAdd, model.EntityTask, task.ID, map[string]interface{}{"title": task.Title})
	s.logger.Info("task created", "id", task.ID, "title", task.Title)
	return &task, nil
}

// QuickAdd creates a task from a one-line entry such as
// "Run 5k #fitness !high @tomorrow".
func (s *Service) QuickAdd(ctx context.Context, text string, goalID *string) (*model.Task, error) {
	e := quickadd.Parse(text, s.Today())
	return s.CreateTask(ctx, model.Task{
		Title:    e.Title,
		Tags:     e.Tags,
		Priority: e.Priority,
		DueDate:  e.DueDate,
		GoalID:   goalID,
	})
}

// Task returns one task.
func (s *Service) Task(ctx context.Context, id string) (*model.Task, error) {
	return s.store.GetTaskByID(ctx, id)
}

// UpdateTask replaces a task's fields. Moving the task to another goal
// updates both goals' task lists, new dependencies are checked for cycles,
// and a change of Completed runs the same rules as CompleteTask.
func (s *Service) UpdateTask(ctx context.Context, in model.Task) (*model.Task, error) {
	want := in
	if err := prepareTask(&want); err != nil {
		return nil, err
	}

	var (
		out     model.Task
		toggled *CompletionResult
	)
	err := s.write(ctx, "update task", func(r store.Repo) error {
		now := s.clock.Now()
		prev, err := r.GetTaskByID(ctx, want.ID)
		if err != nil {
			return err
		}

		t := want
		t.CreatedAt = prev.CreatedAt
		t.SeriesID = prev.SeriesID
		t.XP = prev.XP
		t.Completed = prev.Completed
		t.CompletionTimestamp = prev.CompletionTimestamp

		if added := missing(t.Dependencies, prev.Dependencies); len(added) > 0 {
			if err := s.checkNewDependencies(ctx, r, t.ID, prev.Dependencies, added); err != nil {
				return err
			}
		}

		if !sameGoal(prev.GoalID, t.GoalID) {
			if prev.GoalID != nil {
				if err := detachFromGoal(ctx, r, *prev.GoalID, t.ID); err != nil {
					return err
				}
			}
			if t.GoalID != nil {
				if err := attachToGoal(ctx, r, *t.GoalID, t.ID, now); err != nil {
					return err
				}
			}
		}

		if err := r.UpdateTask(ctx, &t); err != nil {
			return err
		}

		toggled = nil
		if want.Completed != prev.Completed {
			res, err := s.toggleInTx(ctx, r, &t)
			if err != nil {
				return err
			}
			toggled = res
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryEdit, model.EntityTask, out.ID, map[string]interface{}{"title": out.Title})
	if toggled != nil {
		s.afterToggle(ctx, toggled)
	}
	return &out, nil
}

// ArchiveTask hides a task without touching its relationships.
func (s *Service) ArchiveTask(ctx context.Context, id string) (*model.Task, error) {
	var out model.Task
	err := s.write(ctx, "archive task", func(r store.Repo) error {
		t, err := r.GetTaskByID(ctx, id)
		if err != nil {
			return err
		}
		t.IsArchived = true
		if err := r.UpdateTask(ctx, t); err != nil {
			return err
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryArchive, model.EntityTask, id, map[string]interface{}{"title": out.Title})
	return &out, nil
}

// DeleteTask removes a task, drops it from its goal's task list, and
// removes it from the dependencies of every other task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	var title string
	err := s.write(ctx, "delete task", func(r store.Repo) error {
		t, err := r.GetTaskByID(ctx, id)
		if err != nil {
			return err
		}
		title = t.Title

		if t.GoalID != nil {
			if err := detachFromGoal(ctx, r, *t.GoalID, id); err != nil {
				return err
			}
		}

		dependents, err := r.GetDependents(ctx, id)
		if err != nil {
			return err
		}
		for i := range dependents {
			dependents[i].RemoveDependency(id)
			if err := r.UpdateTask(ctx, &dependents[i]); err != nil {
				return err
			}
		}

		return r.DeleteTask(ctx, id)
	})
	if err != nil {
		return err
	}

	s.record(ctx, model.HistoryDelete, model.EntityTask, id, map[string]interface{}{"title": title})
	s.logger.Info("task deleted", "id", id)
	return nil
}

// attachToGoal adds taskID to the goal's task list and marks it active.
func attachToGoal(ctx context.Context, r store.Repo, goalID, taskID string, now time.Time) error {
	g, err := r.GetGoalByID(ctx, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: goal %s does not exist", ErrValidation, goalID)
	}
	if err != nil {
		return err
	}
	g.AddTask(taskID)
	g.LastActiveDate = &now
	return r.UpdateGoal(ctx, g)
}

// detachFromGoal removes taskID from the goal's task list. A goal that
// no longer exists has nothing to detach from.
func detachFromGoal(ctx context.Context, r store.Repo, goalID, taskID string) error {
	g, err := r.GetGoalByID(ctx, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !g.HasTask(taskID) {
		return nil
	}
	g.RemoveTask(taskID)
	return r.UpdateGoal(ctx, g)
}

func sameGoal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// missing returns the entries of want that are not in have.
func missing(want, have []string) []string {
	held := make(map[string]bool, len(have))
	for _, id := range have {
		held[id] = true
	}
	var out []string
	for _, id := range want {
		if !held[id] {
			out = append(out, id)
		}
	}
	return out
}
