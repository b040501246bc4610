package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/retry"
	"github.com/nhle/momentum/internal/store"
)

// GoalPalette is the fixed set of colors assigned to new goals.
var GoalPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

// pickColor returns the first palette color no active goal uses, or a
// random palette color when all are taken.
func pickColor(goals []model.Goal) string {
	used := make(map[string]bool, len(goals))
	for _, g := range goals {
		if !g.IsArchived {
			used[strings.ToUpper(g.Color)] = true
		}
	}
	for _, c := range GoalPalette {
		if !used[c] {
			return c
		}
	}
	return GoalPalette[rand.IntN(len(GoalPalette))]
}

// CreateGoal stores a new goal titled title. An empty color picks one
// from GoalPalette.
func (s *Service) CreateGoal(ctx context.Context, title, color string) (*model.Goal, error) {
	now := s.clock.Now()
	goal := &model.Goal{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(title),
		CreatedAt:      now,
		Color:          color,
		Level:          1,
		Badges:         []string{},
		TaskIDs:        []string{},
		LastActiveDate: &now,
	}
	if err := validate(goal); err != nil {
		return nil, err
	}

	err := s.write(ctx, "create goal", func(r store.Repo) error {
		g := *goal
		if g.Color == "" {
			goals, err := r.GetGoals(ctx, false)
			if err != nil {
				return err
			}
			g.Color = pickColor(goals)
		}
		if err := r.CreateGoal(ctx, &g); err != nil {
			return err
		}
		*goal = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryAdd, model.EntityGoal, goal.ID, map[string]interface{}{"title": goal.Title})
	s.logger.Info("goal created", "id", goal.ID, "title", goal.Title)
	return goal, nil
}

// Goal returns one goal.
func (s *Service) Goal(ctx context.Context, id string) (*model.Goal, error) {
	return s.store.GetGoalByID(ctx, id)
}

// Goals returns goals in dashboard order.
func (s *Service) Goals(ctx context.Context, includeArchived bool) ([]model.Goal, error) {
	return s.store.GetGoals(ctx, includeArchived)
}

// UpdateGoal replaces the editable fields of a goal the caller read
// earlier. goal.Version must still match the stored version, otherwise
// store.ErrVersionConflict is returned and nothing is written. The task
// list and level are owned by the service and are not taken from goal.
func (s *Service) UpdateGoal(ctx context.Context, goal *model.Goal) (*model.Goal, error) {
	goal.Title = strings.TrimSpace(goal.Title)
	if err := validate(goal); err != nil {
		return nil, err
	}

	var updated model.Goal
	err := s.write(ctx, "update goal", func(r store.Repo) error {
		stored, err := r.GetGoalByID(ctx, goal.ID)
		if err != nil {
			return err
		}
		if stored.Version != goal.Version {
			return retry.Permanent(fmt.Errorf("goal %s: %w", goal.ID, store.ErrVersionConflict))
		}

		next := *goal
		next.TaskIDs = stored.TaskIDs
		next.CreatedAt = stored.CreatedAt
		next.Level = gamify.CalculateLevel(next.XP).Level
		if next.Badges == nil {
			next.Badges = stored.Badges
		}
		if err := r.UpdateGoal(ctx, &next); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				return retry.Permanent(err)
			}
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryEdit, model.EntityGoal, updated.ID, map[string]interface{}{"title": updated.Title})
	return &updated, nil
}

// mutateGoal applies fn to the latest stored copy of a goal and writes it.
// Version conflicts from concurrent writers are retried with a fresh read.
func (s *Service) mutateGoal(ctx context.Context, op, id string, fn func(g *model.Goal) error) (*model.Goal, error) {
	var out model.Goal
	err := s.write(ctx, op, func(r store.Repo) error {
		g, err := r.GetGoalByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		if err := r.UpdateGoal(ctx, g); err != nil {
			return err
		}
		out = *g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ArchiveGoal hides a goal without touching its tasks.
func (s *Service) ArchiveGoal(ctx context.Context, id string) (*model.Goal, error) {
	g, err := s.mutateGoal(ctx, "archive goal", id, func(g *model.Goal) error {
		g.IsArchived = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.HistoryArchive, model.EntityGoal, id, nil)
	return g, nil
}

// PauseGoal excludes a goal from inactivity checks.
func (s *Service) PauseGoal(ctx context.Context, id string) (*model.Goal, error) {
	g, err := s.mutateGoal(ctx, "pause goal", id, func(g *model.Goal) error {
		g.IsPaused = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.HistoryEdit, model.EntityGoal, id, map[string]interface{}{"paused": true})
	return g, nil
}

// ResumeGoal un-pauses a goal and marks it active now, so it does not
// show up as inactive immediately.
func (s *Service) ResumeGoal(ctx context.Context, id string) (*model.Goal, error) {
	now := s.clock.Now()
	g, err := s.mutateGoal(ctx, "resume goal", id, func(g *model.Goal) error {
		g.IsPaused = false
		g.LastActiveDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.HistoryEdit, model.EntityGoal, id, map[string]interface{}{"paused": false})
	return g, nil
}

// PrestigeGoal resets a max-level goal to level 1 and raises its
// prestige level. Below max level gamify.ErrNotMaxLevel is returned and
// the goal is unchanged.
func (s *Service) PrestigeGoal(ctx context.Context, id string) (*model.Goal, error) {
	var earned []string
	g, err := s.mutateGoal(ctx, "prestige goal", id, func(g *model.Goal) error {
		if err := gamify.Prestige(g); err != nil {
			return fmt.Errorf("prestige goal %s: %w", id, err)
		}
		earned = gamify.NewBadges(g.Badges, gamify.EarnedBadges(g, nil, s.loc))
		g.Badges = append(g.Badges, earned...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, b := range earned {
		s.metrics.BadgeEarned(b)
	}
	s.record(ctx, model.HistoryEdit, model.EntityGoal, id, map[string]interface{}{"prestige_level": g.PrestigeLevel})
	s.logger.Info("goal prestiged", "id", id, "prestige_level", g.PrestigeLevel)
	return g, nil
}

// ReorderGoal moves a goal to position (1-based) among all goals and
// renumbers the rest.
func (s *Service) ReorderGoal(ctx context.Context, id string, position int) error {
	return s.write(ctx, "reorder goal", func(r store.Repo) error {
		goals, err := r.GetGoals(ctx, true)
		if err != nil {
			return err
		}

		idx := -1
		for i := range goals {
			if goals[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
		}

		moved := goals[idx]
		rest := append(goals[:idx:idx], goals[idx+1:]...)
		position = min(max(position, 1), len(goals))
		ordered := make([]model.Goal, 0, len(goals))
		ordered = append(ordered, rest[:position-1]...)
		ordered = append(ordered, moved)
		ordered = append(ordered, rest[position-1:]...)

		for i := range ordered {
			if ordered[i].Order == i+1 {
				continue
			}
			ordered[i].Order = i + 1
			if err := r.UpdateGoal(ctx, &ordered[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteGoal removes a goal. Its tasks are kept and detached.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	var title string
	err := s.write(ctx, "delete goal", func(r store.Repo) error {
		g, err := r.GetGoalByID(ctx, id)
		if err != nil {
			return err
		}
		title = g.Title

		tasks, err := r.GetTasks(ctx, store.TaskFilter{GoalID: &id, IncludeQuiet: true})
		if err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].GoalID = nil
			if err := r.UpdateTask(ctx, &tasks[i]); err != nil {
				return err
			}
		}
		return r.DeleteGoal(ctx, id)
	})
	if err != nil {
		return err
	}

	s.record(ctx, model.HistoryDelete, model.EntityGoal, id, map[string]interface{}{"title": title})
	s.logger.Info("goal deleted", "id", id)
	return nil
}
