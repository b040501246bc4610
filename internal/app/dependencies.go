package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/momentum/internal/depgraph"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
)

// AddDependency makes taskID depend on dependsOn. Self-dependencies and
// edges that would close a cycle are rejected and nothing is written.
func (s *Service) AddDependency(ctx context.Context, taskID, dependsOn string) (*model.Task, error) {
	if taskID == dependsOn {
		return nil, ErrSelfDependency
	}

	var out model.Task
	err := s.write(ctx, "add dependency", func(r store.Repo) error {
		t, err := r.GetTaskByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !t.DependsOn(dependsOn) {
			if err := s.checkNewDependencies(ctx, r, taskID, t.Dependencies, []string{dependsOn}); err != nil {
				return err
			}
			t.Dependencies = append(t.Dependencies, dependsOn)
			if err := r.UpdateTask(ctx, t); err != nil {
				return err
			}
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, model.HistoryEdit, model.EntityTask, taskID, map[string]interface{}{"depends_on": dependsOn})
	return &out, nil
}

// RemoveDependency drops an edge. Removing an absent edge is a no-op.
func (s *Service) RemoveDependency(ctx context.Context, taskID, dependsOn string) (*model.Task, error) {
	var (
		out     model.Task
		removed bool
	)
	err := s.write(ctx, "remove dependency", func(r store.Repo) error {
		t, err := r.GetTaskByID(ctx, taskID)
		if err != nil {
			return err
		}
		removed = t.RemoveDependency(dependsOn)
		if removed {
			if err := r.UpdateTask(ctx, t); err != nil {
				return err
			}
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed {
		s.record(ctx, model.HistoryEdit, model.EntityTask, taskID, map[string]interface{}{"removed_dependency": dependsOn})
	}
	return &out, nil
}

// checkNewDependencies validates adding the edges taskID -> added, given
// the task's current dependencies. Every target must exist.
func (s *Service) checkNewDependencies(ctx context.Context, r store.Repo, taskID string, current, added []string) error {
	all, err := r.GetTasks(ctx, store.TaskFilter{IncludeQuiet: true})
	if err != nil {
		return err
	}
	graph := depgraph.FromTasks(all)
	graph[taskID] = append([]string(nil), current...)

	for _, dep := range added {
		if dep == taskID {
			return ErrSelfDependency
		}
		if _, ok := graph[dep]; !ok {
			if _, err := r.GetTaskByID(ctx, dep); errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: dependency %s does not exist", ErrValidation, dep)
			}
		}
		if graph.WouldCycle(taskID, dep) {
			return fmt.Errorf("%w: %s already depends on %s", ErrDependencyCycle, dep, taskID)
		}
		graph[taskID] = append(graph[taskID], dep)
	}
	return nil
}
