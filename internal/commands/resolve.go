package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
)

// shortID is the id prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveGoal finds the goal whose id starts with ref.
func resolveGoal(ctx context.Context, svc *app.Service, ref string) (*model.Goal, error) {
	goals, err := svc.Goals(ctx, true)
	if err != nil {
		return nil, err
	}
	var match *model.Goal
	for i := range goals {
		if !strings.HasPrefix(goals[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("goal id %q is ambiguous", ref)
		}
		match = &goals[i]
	}
	if match == nil {
		return nil, fmt.Errorf("goal %s: %w", ref, store.ErrNotFound)
	}
	return match, nil
}

// resolveTask finds the task whose id starts with ref.
func resolveTask(ctx context.Context, svc *app.Service, ref string) (*model.Task, error) {
	tasks, err := svc.Tasks(ctx, app.TaskQuery{IncludeQuiet: true})
	if err != nil {
		return nil, err
	}
	var match *model.Task
	for i := range tasks {
		if !strings.HasPrefix(tasks[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("task id %q is ambiguous", ref)
		}
		match = &tasks[i]
	}
	if match == nil {
		return nil, fmt.Errorf("task %s: %w", ref, store.ErrNotFound)
	}
	return match, nil
}
