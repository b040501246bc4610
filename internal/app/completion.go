package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/recurrence"
	"github.com/nhle/momentum/internal/store"
	"github.com/nhle/momentum/internal/streak"
)

// CompletionResult describes the effects of toggling a task.
type CompletionResult struct {
	Task *model.Task `json:"task"`
	// Goal is the owning goal after the toggle, nil for tasks without one.
	Goal *model.Goal `json:"goal,omitempty"`
	// XPAwarded is zero when the task was marked not completed.
	XPAwarded int `json:"xp_awarded"`
	// NewBadges lists badge IDs the goal earned with this completion.
	NewBadges []string `json:"new_badges,omitempty"`
	// NextTask is the follow-up instance of a repeating task.
	NextTask *model.Task `json:"next_task,omitempty"`
}

// CompleteTask toggles a task's completion. Completing awards XP to the
// owning goal using its streak from before this completion, advances the
// goal streak, grants newly earned badges, and creates the next instance
// of a repeating task. Un-completing only clears the completion time;
// XP already awarded is kept.
func (s *Service) CompleteTask(ctx context.Context, id string) (*CompletionResult, error) {
	var res *CompletionResult
	err := s.write(ctx, "complete task", func(r store.Repo) error {
		t, err := r.GetTaskByID(ctx, id)
		if err != nil {
			return err
		}
		res, err = s.toggleInTx(ctx, r, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterToggle(ctx, res)
	return res, nil
}

// toggleInTx flips task.Completed and applies every dependent change
// through r.
func (s *Service) toggleInTx(ctx context.Context, r store.Repo, task *model.Task) (*CompletionResult, error) {
	now := s.clock.Now()
	today := model.DateOf(now.In(s.loc))
	res := &CompletionResult{Task: task}

	var goal *model.Goal
	if task.GoalID != nil {
		g, err := r.GetGoalByID(ctx, *task.GoalID)
		switch {
		case err == nil:
			goal = g
		case errors.Is(err, store.ErrNotFound):
			s.logger.Warn("task points at a missing goal", "task", task.ID, "goal", *task.GoalID)
		default:
			return nil, err
		}
	}

	if task.Completed {
		task.Completed = false
		task.CompletionTimestamp = nil
		task.XP = nil
		if err := r.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
		if goal != nil {
			goal.LastActiveDate = &now
			if err := r.UpdateGoal(ctx, goal); err != nil {
				return nil, err
			}
		}
		res.Goal = goal
		return res, nil
	}

	if err := checkDependenciesDone(ctx, r, task); err != nil {
		return nil, err
	}

	streakBefore := 0
	if goal != nil {
		streakBefore = goal.StreakCounter
	}
	xp := gamify.TaskXP(task.Priority, streakBefore, task.DueDate, today)
	task.Completed = true
	task.CompletionTimestamp = &now
	task.XP = &xp
	res.XPAwarded = xp

	next, ok := recurrence.NextInstance(task, today)
	if ok && task.SeriesID != nil {
		// Re-completing after a toggle back must not clone the same slot twice.
		existing, err := r.GetTasks(ctx, store.TaskFilter{
			SeriesID:     task.SeriesID,
			DueOn:        &next.DueDate,
			IncludeQuiet: true,
		})
		if err != nil {
			return nil, err
		}
		for _, e := range existing {
			if e.ID != task.ID {
				ok = false
				break
			}
		}
	}
	if ok {
		if task.SeriesID == nil {
			series := task.ID
			task.SeriesID = &series
			next.SeriesID = &series
		}
		next.ID = uuid.New().String()
		next.CreatedAt = now
		if err := r.CreateTask(ctx, next); err != nil {
			return nil, fmt.Errorf("creating next instance of task %s: %w", task.ID, err)
		}
		if goal != nil {
			goal.AddTask(next.ID)
		}
		res.NextTask = next
	}

	if err := r.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	if goal != nil {
		gamify.AwardXP(goal, xp)
		streak.UpdateGoalStreak(goal, today)
		goal.LastActiveDate = &now

		owned := s.goalTasks(ctx, r, goal.ID)
		res.NewBadges = gamify.NewBadges(goal.Badges, gamify.EarnedBadges(goal, owned, s.loc))
		goal.Badges = append(goal.Badges, res.NewBadges...)

		if err := r.UpdateGoal(ctx, goal); err != nil {
			return nil, err
		}
	}
	res.Goal = goal
	return res, nil
}

// checkDependenciesDone rejects completion while a dependency is open.
// Dependencies that no longer exist are ignored.
func checkDependenciesDone(ctx context.Context, r store.Repo, task *model.Task) error {
	for _, dep := range task.Dependencies {
		d, err := r.GetTaskByID(ctx, dep)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !d.Completed {
			return fmt.Errorf("%w: %q is not completed", ErrDependenciesIncomplete, d.Title)
		}
	}
	return nil
}

// goalTasks lists every task of a goal for badge evaluation. A failed
// read yields no tasks rather than failing the completion.
func (s *Service) goalTasks(ctx context.Context, r store.Repo, goalID string) []model.Task {
	tasks, err := r.GetTasks(ctx, store.TaskFilter{GoalID: &goalID, IncludeQuiet: true})
	if err != nil {
		s.logger.Warn("loading goal tasks for badges failed", "goal", goalID, "error", err)
		return nil
	}
	return tasks
}

// afterToggle records the history entry, metrics, and log line for a
// committed toggle.
func (s *Service) afterToggle(ctx context.Context, res *CompletionResult) {
	t := res.Task
	if !t.Completed {
		s.record(ctx, model.HistoryUncomplete, model.EntityTask, t.ID, map[string]interface{}{"title": t.Title})
		s.logger.Info("task marked not completed", "id", t.ID)
		return
	}

	details := map[string]interface{}{"title": t.Title, "xp": res.XPAwarded}
	if t.GoalID != nil {
		details["goal_id"] = *t.GoalID
	}
	if t.SeriesID != nil {
		details["series_id"] = *t.SeriesID
	}
	s.record(ctx, model.HistoryComplete, model.EntityTask, t.ID, details)
	if res.NextTask != nil {
		s.record(ctx, model.HistoryAdd, model.EntityTask, res.NextTask.ID, map[string]interface{}{
			"title": res.NextTask.Title, "series_id": *res.NextTask.SeriesID,
		})
	}

	s.metrics.TaskCompleted(string(t.Priority), res.XPAwarded)
	for _, b := range res.NewBadges {
		s.metrics.BadgeEarned(b)
	}
	s.logger.Info("task completed",
		"id", t.ID, "xp", res.XPAwarded, "new_badges", res.NewBadges)
}
