package app

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
	"github.com/nhle/momentum/internal/streak"
)

// TaskQuery selects tasks for listing.
type TaskQuery struct {
	GoalID       *string // goal id, "none" for tasks without a goal
	DueToday     bool
	Completed    *bool
	Archived     *bool
	IncludeQuiet bool
	SortBy       string
}

// Tasks lists tasks matching q.
func (s *Service) Tasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	f := store.TaskFilter{
		GoalID:       q.GoalID,
		Completed:    q.Completed,
		Archived:     q.Archived,
		IncludeQuiet: q.IncludeQuiet,
		SortBy:       q.SortBy,
	}
	if q.DueToday {
		today := s.Today()
		f.DueOn = &today
	}
	return s.store.GetTasks(ctx, f)
}

// GoalsWithStats returns the non-archived goals with completion numbers
// over their non-archived, non-quiet tasks.
func (s *Service) GoalsWithStats(ctx context.Context) ([]model.GoalWithStats, error) {
	goals, err := s.store.GetGoals(ctx, false)
	if err != nil {
		return nil, err
	}
	notArchived := false
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{Archived: &notArchived})
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*model.GoalStats, len(goals))
	for _, t := range tasks {
		if t.GoalID == nil {
			continue
		}
		st, ok := stats[*t.GoalID]
		if !ok {
			st = &model.GoalStats{}
			stats[*t.GoalID] = st
		}
		st.Total++
		if t.Completed {
			st.Completed++
		}
	}

	out := make([]model.GoalWithStats, 0, len(goals))
	for _, g := range goals {
		gs := model.GoalWithStats{Goal: g}
		if st, ok := stats[g.ID]; ok {
			gs.Stats = *st
			gs.Stats.Percentage = int(math.Round(float64(st.Completed) * 100 / float64(st.Total)))
		}
		out = append(out, gs)
	}
	return out, nil
}

// InactiveGoals returns goals untouched for more than thresholdDays.
// A threshold below 1 uses the configured one.
func (s *Service) InactiveGoals(ctx context.Context, thresholdDays int) ([]model.Goal, error) {
	if thresholdDays < 1 {
		thresholdDays = s.InactivityThreshold()
	}
	goals, err := s.store.GetGoals(ctx, false)
	if err != nil {
		return nil, err
	}
	return streak.InactiveGoals(goals, s.clock.Now(), thresholdDays), nil
}

// History returns the latest limit entries, newest first. A limit of 0
// returns everything.
func (s *Service) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	return s.store.GetHistory(ctx, store.HistoryFilter{Limit: limit})
}

// EntityHistory returns every entry about one goal or task, newest first.
func (s *Service) EntityHistory(ctx context.Context, id string) ([]model.HistoryEntry, error) {
	return s.store.GetHistory(ctx, store.HistoryFilter{EntityIDs: []string{id}})
}

// JournalDay is the activity of one calendar day.
type JournalDay struct {
	Date    model.Date                `json:"date"`
	Counts  map[model.HistoryType]int `json:"counts"`
	Entries []model.HistoryEntry      `json:"entries"`
}

// Journal groups history by calendar day for every day from from to to,
// inclusive, oldest first. Days without activity are included empty.
func (s *Service) Journal(ctx context.Context, from, to model.Date) ([]JournalDay, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: journal range ends before it starts", ErrValidation)
	}
	entries, err := s.store.GetHistoryRange(ctx, from.In(s.loc), to.AddDays(1).In(s.loc))
	if err != nil {
		return nil, err
	}

	days := make([]JournalDay, 0, to.DaysSince(from)+1)
	index := make(map[model.Date]int)
	for d := from; !d.After(to); d = d.AddDays(1) {
		index[d] = len(days)
		days = append(days, JournalDay{
			Date:    d,
			Counts:  map[model.HistoryType]int{},
			Entries: []model.HistoryEntry{},
		})
	}
	for _, e := range entries {
		i, ok := index[model.DateOf(e.Timestamp.In(s.loc))]
		if !ok {
			continue
		}
		days[i].Counts[e.Type]++
		days[i].Entries = append(days[i].Entries, e)
	}
	return days, nil
}

// TaskStreak builds the completion history of a task joined with every
// other instance of its repeat series.
func (s *Service) TaskStreak(ctx context.Context, taskID string) (streak.TaskHistory, error) {
	t, err := s.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return streak.TaskHistory{}, err
	}

	ids := []string{t.ID}
	if t.SeriesID != nil {
		series, err := s.store.GetTasks(ctx, store.TaskFilter{SeriesID: t.SeriesID, IncludeQuiet: true})
		if err != nil {
			return streak.TaskHistory{}, err
		}
		for _, st := range series {
			if st.ID != t.ID {
				ids = append(ids, st.ID)
			}
		}
	}

	entries, err := s.store.GetHistory(ctx, store.HistoryFilter{
		EntityIDs: ids,
		Types:     []model.HistoryType{model.HistoryComplete},
	})
	if err != nil {
		return streak.TaskHistory{}, err
	}
	return streak.BuildTaskHistory(entries, s.Today(), s.loc), nil
}

// Snapshot is everything the dashboard shows at once.
type Snapshot struct {
	Today    model.Date            `json:"today"`
	Goals    []model.GoalWithStats `json:"goals"`
	Open     []model.Task          `json:"open_tasks"`
	Theme    *model.DailyTheme     `json:"theme,omitempty"`
	Inactive []model.Goal          `json:"inactive_goals"`
}

// Snapshot loads the dashboard data concurrently.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Today: s.Today()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		goals, err := s.GoalsWithStats(ctx)
		snap.Goals = goals
		return err
	})
	g.Go(func() error {
		open, notArchived := false, false
		tasks, err := s.store.GetTasks(ctx, store.TaskFilter{
			Completed: &open,
			Archived:  &notArchived,
			SortBy:    "due_date",
		})
		snap.Open = tasks
		return err
	})
	g.Go(func() error {
		theme, err := s.ThemeForDay(ctx, snap.Today)
		snap.Theme = theme
		return err
	})
	g.Go(func() error {
		inactive, err := s.InactiveGoals(ctx, 0)
		snap.Inactive = inactive
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// Export is a full dump of the user's data.
type Export struct {
	Goals   []model.Goal         `json:"goals" yaml:"goals"`
	Tasks   []model.Task         `json:"tasks" yaml:"tasks"`
	Themes  []model.DailyTheme   `json:"themes" yaml:"themes"`
	History []model.HistoryEntry `json:"history" yaml:"history"`
}

// Export reads every collection except profiles.
func (s *Service) Export(ctx context.Context) (*Export, error) {
	var (
		out Export
		err error
	)
	if out.Goals, err = s.store.GetGoals(ctx, true); err != nil {
		return nil, err
	}
	if out.Tasks, err = s.store.GetTasks(ctx, store.TaskFilter{IncludeQuiet: true}); err != nil {
		return nil, err
	}
	if out.Themes, err = s.store.GetThemes(ctx); err != nil {
		return nil, err
	}
	if out.History, err = s.store.GetHistory(ctx, store.HistoryFilter{}); err != nil {
		return nil, err
	}
	return &out, nil
}
