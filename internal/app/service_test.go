package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
	"github.com/nhle/momentum/tests/testutil"
)

func ptr[T any](v T) *T { return &v }

// assertCrossRefs checks that goal.TaskIDs and task.GoalID agree both ways.
func assertCrossRefs(t *testing.T, svc *app.Service) {
	t.Helper()
	ctx := context.Background()

	goals, err := svc.Goals(ctx, true)
	require.NoError(t, err)
	tasks, err := svc.Tasks(ctx, app.TaskQuery{IncludeQuiet: true})
	require.NoError(t, err)

	byID := make(map[string]model.Task, len(tasks))
	for _, tk := range tasks {
		byID[tk.ID] = tk
	}
	owners := make(map[string]model.Goal, len(goals))
	for _, g := range goals {
		owners[g.ID] = g
		for _, id := range g.TaskIDs {
			tk, ok := byID[id]
			require.True(t, ok, "goal %s lists unknown task %s", g.Title, id)
			assert.True(t, tk.InGoal(g.ID), "task %s does not point back at goal %s", tk.Title, g.Title)
		}
	}
	for _, tk := range tasks {
		if tk.GoalID == nil {
			continue
		}
		g, ok := owners[*tk.GoalID]
		require.True(t, ok, "task %s points at missing goal", tk.Title)
		assert.True(t, g.HasTask(tk.ID), "goal %s does not list task %s", g.Title, tk.Title)
	}
}

func TestCompleteTask_FirstCompletion(t *testing.T) {
	ctx := context.Background()
	now := testutil.Date(2024, time.January, 10, 9)
	svc, _ := testutil.NewService(t, now)

	goal, err := svc.CreateGoal(ctx, "Fitness", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{Title: "Run 5k", GoalID: &goal.ID, Priority: model.PriorityHigh})
	require.NoError(t, err)

	res, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	assert.True(t, res.Task.Completed)
	require.NotNil(t, res.Task.CompletionTimestamp)
	assert.Equal(t, 50, res.XPAwarded)
	require.NotNil(t, res.Task.XP)
	assert.Equal(t, 50, *res.Task.XP)

	stored, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StreakCounter)
	assert.Equal(t, model.NewDate(2024, time.January, 10), stored.LastCompletedDate)
	assert.Equal(t, 50, stored.XP)
	assert.Equal(t, 1, stored.Level)

	entries, err := svc.EntityHistory(ctx, task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.HistoryComplete, entries[0].Type)

	assertCrossRefs(t, svc)
}

func TestCompleteTask_XPUsesStreakBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	now := testutil.Date(2024, time.January, 10, 9)
	svc, clk := testutil.NewService(t, now)

	goal, err := svc.CreateGoal(ctx, "Writing", "")
	require.NoError(t, err)

	var awarded []int
	for day := 0; day < 4; day++ {
		tk, err := svc.CreateTask(ctx, model.Task{Title: "Write", GoalID: &goal.ID, Priority: model.PriorityMedium})
		require.NoError(t, err)
		res, err := svc.CompleteTask(ctx, tk.ID)
		require.NoError(t, err)
		awarded = append(awarded, res.XPAwarded)
		clk.Advance(24 * time.Hour)
	}

	// Streaks before each completion are 0, 1, 2, 3.
	assert.Equal(t, []int{25, 25, 25, 30}, awarded)
}

func TestCompleteTask_RepeatingTaskSpawnsNextInstance(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 1, 8))

	goal, err := svc.CreateGoal(ctx, "Work", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{
		Title:         "Daily standup",
		GoalID:        &goal.ID,
		Tags:          []string{"meeting"},
		Priority:      model.PriorityLow,
		DueDate:       model.NewDate(2024, time.January, 1),
		RepeatPattern: &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1},
	})
	require.NoError(t, err)

	res, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextTask)

	next, err := svc.Task(ctx, res.NextTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily standup", next.Title)
	assert.Equal(t, model.NewDate(2024, time.January, 2), next.DueDate)
	assert.False(t, next.Completed)
	assert.Equal(t, []string{"meeting"}, next.Tags)
	assert.Equal(t, model.PriorityLow, next.Priority)
	require.NotNil(t, next.GoalID)
	assert.Equal(t, goal.ID, *next.GoalID)
	require.NotNil(t, next.RepeatPattern)
	assert.Equal(t, model.RepeatDaily, next.RepeatPattern.Type)
	assert.Equal(t, 1, next.RepeatPattern.Interval)

	require.NotNil(t, next.SeriesID)
	assert.Equal(t, task.ID, *next.SeriesID)
	orig, err := svc.Task(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, orig.SeriesID)
	assert.Equal(t, task.ID, *orig.SeriesID)

	assertCrossRefs(t, svc)
}

func TestCompleteTask_RecompletingRepeatingTaskKeepsOneFollowUp(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 1, 8))

	task, err := svc.CreateTask(ctx, model.Task{
		Title:         "Water plants",
		DueDate:       model.NewDate(2024, time.January, 1),
		RepeatPattern: &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1},
	})
	require.NoError(t, err)

	first, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, first.NextTask)

	_, err = svc.CompleteTask(ctx, task.ID) // toggle back
	require.NoError(t, err)
	again, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, again.Task.Completed)
	assert.Nil(t, again.NextTask)

	tasks, err := svc.Tasks(ctx, app.TaskQuery{IncludeQuiet: true})
	require.NoError(t, err)
	var followUps []string
	for _, tk := range tasks {
		if tk.DueDate == model.NewDate(2024, time.January, 2) {
			followUps = append(followUps, tk.ID)
		}
	}
	assert.Equal(t, []string{first.NextTask.ID}, followUps)
}

func TestCompleteTask_ToggleBack(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Home", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{Title: "Fix sink", GoalID: &goal.ID})
	require.NoError(t, err)

	_, err = svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	res, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	assert.False(t, res.Task.Completed)
	assert.Nil(t, res.Task.CompletionTimestamp)
	assert.Zero(t, res.XPAwarded)

	reloaded, err := svc.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Completed)
	assert.Nil(t, reloaded.XP)

	stored, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.XP, "un-completing keeps awarded XP")

	entries, err := svc.EntityHistory(ctx, task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.HistoryUncomplete, entries[0].Type)
}

func TestCompleteTask_RequiresDependencies(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	b, err := svc.CreateTask(ctx, model.Task{Title: "Buy paint"})
	require.NoError(t, err)
	a, err := svc.CreateTask(ctx, model.Task{Title: "Paint wall", Dependencies: []string{b.ID}})
	require.NoError(t, err)

	_, err = svc.CompleteTask(ctx, a.ID)
	require.ErrorIs(t, err, app.ErrDependenciesIncomplete)
	stored, err := svc.Task(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)

	_, err = svc.CompleteTask(ctx, b.ID)
	require.NoError(t, err)
	res, err := svc.CompleteTask(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)
	assert.Nil(t, res.Goal)
}

func TestAddDependency(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	b, err := svc.CreateTask(ctx, model.Task{Title: "B"})
	require.NoError(t, err)
	c, err := svc.CreateTask(ctx, model.Task{Title: "C", Dependencies: []string{b.ID}})
	require.NoError(t, err)
	a, err := svc.CreateTask(ctx, model.Task{Title: "A", Dependencies: []string{c.ID}})
	require.NoError(t, err)

	t.Run("transitive cycle is rejected", func(t *testing.T) {
		_, err := svc.AddDependency(ctx, b.ID, a.ID)
		require.ErrorIs(t, err, app.ErrDependencyCycle)

		stored, err := svc.Task(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Dependencies)
	})

	t.Run("self dependency is rejected", func(t *testing.T) {
		_, err := svc.AddDependency(ctx, a.ID, a.ID)
		require.ErrorIs(t, err, app.ErrSelfDependency)
	})

	t.Run("unknown task is rejected", func(t *testing.T) {
		_, err := svc.AddDependency(ctx, a.ID, "missing")
		require.ErrorIs(t, err, app.ErrValidation)
	})

	t.Run("valid edge is added once", func(t *testing.T) {
		got, err := svc.AddDependency(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{c.ID, b.ID}, got.Dependencies)

		got, err = svc.AddDependency(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.Len(t, got.Dependencies, 2)
	})

	t.Run("remove", func(t *testing.T) {
		got, err := svc.RemoveDependency(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{c.ID}, got.Dependencies)
	})

	t.Run("cycle through update is rejected", func(t *testing.T) {
		stored, err := svc.Task(ctx, b.ID)
		require.NoError(t, err)
		stored.Dependencies = []string{a.ID}
		_, err = svc.UpdateTask(ctx, *stored)
		require.ErrorIs(t, err, app.ErrDependencyCycle)
	})
}

func TestCreateTask_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	tests := []struct {
		name string
		task model.Task
	}{
		{"blank title", model.Task{Title: "   "}},
		{"bad priority", model.Task{Title: "x", Priority: "urgent"}},
		{"zero interval", model.Task{Title: "x", RepeatPattern: &model.RepeatPattern{Type: model.RepeatDaily}}},
		{"missing goal", model.Task{Title: "x", GoalID: ptr("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, tt.task)
			require.ErrorIs(t, err, app.ErrValidation)
		})
	}

	tasks, err := svc.Tasks(ctx, app.TaskQuery{IncludeQuiet: true})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTask_MovesBetweenGoals(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	g1, err := svc.CreateGoal(ctx, "One", "")
	require.NoError(t, err)
	g2, err := svc.CreateGoal(ctx, "Two", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{Title: "Move me", GoalID: &g1.ID})
	require.NoError(t, err)
	assertCrossRefs(t, svc)

	task.GoalID = &g2.ID
	task.Title = "Moved"
	updated, err := svc.UpdateTask(ctx, *task)
	require.NoError(t, err)
	assert.Equal(t, "Moved", updated.Title)

	one, err := svc.Goal(ctx, g1.ID)
	require.NoError(t, err)
	assert.Empty(t, one.TaskIDs)
	two, err := svc.Goal(ctx, g2.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{task.ID}, two.TaskIDs)
	assertCrossRefs(t, svc)

	updated.GoalID = nil
	_, err = svc.UpdateTask(ctx, *updated)
	require.NoError(t, err)
	assertCrossRefs(t, svc)
}

func TestUpdateTask_CompletedFlagRunsCompletion(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Garden", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{Title: "Water", GoalID: &goal.ID})
	require.NoError(t, err)

	task.Completed = true
	updated, err := svc.UpdateTask(ctx, *task)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletionTimestamp)

	stored, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.XP)
	assert.Equal(t, 1, stored.StreakCounter)
}

func TestDeleteTask_CleansReferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Trip", "")
	require.NoError(t, err)
	b, err := svc.CreateTask(ctx, model.Task{Title: "Book flight", GoalID: &goal.ID})
	require.NoError(t, err)
	a, err := svc.CreateTask(ctx, model.Task{Title: "Pack", GoalID: &goal.ID, Dependencies: []string{b.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, b.ID))

	_, err = svc.Task(ctx, b.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	stored, err := svc.Task(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Dependencies)
	g, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, g.TaskIDs)
	assertCrossRefs(t, svc)

	require.ErrorIs(t, svc.DeleteTask(ctx, b.ID), store.ErrNotFound)
}

func TestDeleteGoal_DetachesTasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Old", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, model.Task{Title: "Keep me", GoalID: &goal.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGoal(ctx, goal.ID))

	stored, err := svc.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GoalID)
	assertCrossRefs(t, svc)
}

func TestUpdateGoal_VersionConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Read", "#123456")
	require.NoError(t, err)
	stale := *goal

	goal.Title = "Read more"
	updated, err := svc.UpdateGoal(ctx, goal)
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Title)
	assert.Equal(t, goal.Version+1, updated.Version)

	stale.Title = "Read less"
	_, err = svc.UpdateGoal(ctx, &stale)
	require.ErrorIs(t, err, store.ErrVersionConflict)

	stored, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read more", stored.Title)
}

func TestPrestigeGoal(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Guitar", "")
	require.NoError(t, err)

	goal.XP = gamify.XPForLevel(gamify.MaxLevel) - 1
	goal, err = svc.UpdateGoal(ctx, goal)
	require.NoError(t, err)
	require.Equal(t, gamify.MaxLevel-1, goal.Level)

	_, err = svc.PrestigeGoal(ctx, goal.ID)
	require.ErrorIs(t, err, gamify.ErrNotMaxLevel)

	goal.XP++
	goal, err = svc.UpdateGoal(ctx, goal)
	require.NoError(t, err)
	require.Equal(t, gamify.MaxLevel, goal.Level)

	got, err := svc.PrestigeGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	assert.Zero(t, got.XP)
	assert.Equal(t, 1, got.PrestigeLevel)
	assert.Contains(t, got.Badges, "reborn")
}

func TestCreateGoal_PicksUnusedColor(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	first, err := svc.CreateGoal(ctx, "A", "")
	require.NoError(t, err)
	second, err := svc.CreateGoal(ctx, "B", "")
	require.NoError(t, err)

	assert.Equal(t, app.GoalPalette[0], first.Color)
	assert.Equal(t, app.GoalPalette[1], second.Color)

	_, err = svc.CreateGoal(ctx, "  ", "")
	require.ErrorIs(t, err, app.ErrValidation)
}

func TestReorderGoal(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		g, err := svc.CreateGoal(ctx, title, "")
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}

	require.NoError(t, svc.ReorderGoal(ctx, ids[2], 1))

	goals, err := svc.Goals(ctx, true)
	require.NoError(t, err)
	var titles []string
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"C", "A", "B"}, titles)
}

func TestInactiveGoals(t *testing.T) {
	ctx := context.Background()
	start := testutil.Date(2024, time.January, 1, 9)
	svc, clk := testutil.NewService(t, start)

	stale, err := svc.CreateGoal(ctx, "Stale", "")
	require.NoError(t, err)
	clk.Advance(6 * 24 * time.Hour)
	fresh, err := svc.CreateGoal(ctx, "Fresh", "")
	require.NoError(t, err)
	paused, err := svc.CreateGoal(ctx, "Paused", "")
	require.NoError(t, err)
	_, err = svc.PauseGoal(ctx, paused.ID)
	require.NoError(t, err)

	clk.Advance(5 * 24 * time.Hour)

	got, err := svc.InactiveGoals(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)

	_, err = svc.ResumeGoal(ctx, stale.ID)
	require.NoError(t, err)
	got, err = svc.InactiveGoals(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	_ = fresh
}

func TestGoalsWithStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.March, 4, 12))

	goal, err := svc.CreateGoal(ctx, "Stats", "")
	require.NoError(t, err)
	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.CreateTask(ctx, model.Task{Title: title, GoalID: &goal.ID})
		require.NoError(t, err)
	}
	_, err = svc.CreateTask(ctx, model.Task{Title: "quiet", GoalID: &goal.ID, IsQuiet: true})
	require.NoError(t, err)

	tasks, err := svc.Tasks(ctx, app.TaskQuery{GoalID: &goal.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	_, err = svc.CompleteTask(ctx, tasks[0].ID)
	require.NoError(t, err)

	stats, err := svc.GoalsWithStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, model.GoalStats{Completed: 1, Total: 3, Percentage: 33}, stats[0].Stats)
}

func TestThemes(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 8, 9))

	seeded, err := svc.SeedDefaultThemes(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	seeded, err = svc.SeedDefaultThemes(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	monday, err := svc.ThemeForDay(ctx, model.NewDate(2024, time.January, 8))
	require.NoError(t, err)
	require.NotNil(t, monday)
	assert.Equal(t, "monday", monday.Day)

	saturday, err := svc.ThemeForDay(ctx, model.NewDate(2024, time.January, 6))
	require.NoError(t, err)
	require.NotNil(t, saturday)
	assert.Equal(t, model.WeekendThemeKey, saturday.Day)

	require.NoError(t, svc.DeleteTheme(ctx, "friday"))
	friday, err := svc.ThemeForDay(ctx, model.NewDate(2024, time.January, 5))
	require.NoError(t, err)
	assert.Nil(t, friday)

	_, err = svc.PutTheme(ctx, model.DailyTheme{Day: "someday", Name: "x"})
	require.ErrorIs(t, err, app.ErrValidation)

	tagged, err := svc.CreateTask(ctx, model.Task{Title: "Weekly review", Tags: []string{"review"}})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, model.Task{Title: "Unrelated", Tags: []string{"other"}})
	require.NoError(t, err)

	theme, tasks, err := svc.ThemeTasks(ctx, model.NewDate(2024, time.January, 8))
	require.NoError(t, err)
	require.NotNil(t, theme)
	require.Len(t, tasks, 1)
	assert.Equal(t, tagged.ID, tasks[0].ID)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	svc, clk := testutil.NewService(t, testutil.Date(2024, time.February, 1, 10))

	task, err := svc.CreateTask(ctx, model.Task{Title: "Log"})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	clk.Advance(48 * time.Hour)
	_, err = svc.CreateTask(ctx, model.Task{Title: "Later"})
	require.NoError(t, err)

	days, err := svc.Journal(ctx, model.NewDate(2024, time.February, 1), model.NewDate(2024, time.February, 3))
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, 1, days[0].Counts[model.HistoryAdd])
	assert.Equal(t, 1, days[0].Counts[model.HistoryComplete])
	assert.Empty(t, days[1].Entries)
	assert.Equal(t, 1, days[2].Counts[model.HistoryAdd])

	_, err = svc.Journal(ctx, model.NewDate(2024, time.February, 3), model.NewDate(2024, time.February, 1))
	require.ErrorIs(t, err, app.ErrValidation)
}

func TestTaskStreak_JoinsSeries(t *testing.T) {
	ctx := context.Background()
	svc, clk := testutil.NewService(t, testutil.Date(2024, time.April, 1, 7))

	task, err := svc.CreateTask(ctx, model.Task{
		Title:         "Stretch",
		DueDate:       model.NewDate(2024, time.April, 1),
		RepeatPattern: &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1},
	})
	require.NoError(t, err)

	res, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	clk.Advance(24 * time.Hour)
	res, err = svc.CompleteTask(ctx, res.NextTask.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextTask)

	history, err := svc.TaskStreak(ctx, res.NextTask.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, history.CurrentStreak)
	assert.Equal(t, 2, history.LongestStreak)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 8, 9))

	_, err := svc.SeedDefaultThemes(ctx)
	require.NoError(t, err)
	goal, err := svc.CreateGoal(ctx, "Snap", "")
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, model.Task{Title: "Open", GoalID: &goal.ID})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, time.January, 8), snap.Today)
	assert.Len(t, snap.Goals, 1)
	assert.Len(t, snap.Open, 1)
	require.NotNil(t, snap.Theme)
	assert.Equal(t, "monday", snap.Theme.Day)
	assert.Empty(t, snap.Inactive)
}

func TestQuickAdd(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 8, 9))

	task, err := svc.QuickAdd(ctx, "Run 5k #fitness !high @tomorrow", nil)
	require.NoError(t, err)
	assert.Equal(t, "Run 5k", task.Title)
	assert.Equal(t, []string{"fitness"}, task.Tags)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, model.NewDate(2024, time.January, 9), task.DueDate)
}

func TestPutProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewService(t, testutil.Date(2024, time.January, 8, 9))

	_, err := svc.PutProfile(ctx, model.UserProfile{})
	require.ErrorIs(t, err, app.ErrValidation)

	p, err := svc.PutProfile(ctx, model.UserProfile{UserID: "u1", DisplayName: "Sam", Hobbies: []string{"chess", "chess"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"chess"}, p.Hobbies)

	got, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.DisplayName)
}
