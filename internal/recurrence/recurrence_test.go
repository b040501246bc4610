package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/momentum/internal/model"
)

func TestNextDue(t *testing.T) {
	today := model.MustParseDate("2024-01-15")
	d := model.MustParseDate

	tests := []struct {
		name    string
		pattern *model.RepeatPattern
		due     model.Date
		want    string
		wantOK  bool
	}{
		{"daily", &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1}, d("2024-01-01"), "2024-01-02", true},
		{"every third day", &model.RepeatPattern{Type: model.RepeatDaily, Interval: 3}, d("2024-01-01"), "2024-01-04", true},
		{"weekly from today", &model.RepeatPattern{Type: model.RepeatWeekly, Interval: 2}, model.Date{}, "2024-01-29", true},
		{"monthly", &model.RepeatPattern{Type: model.RepeatMonthly, Interval: 1}, d("2024-01-31"), "2024-03-02", true},
		{"custom is days", &model.RepeatPattern{Type: model.RepeatCustom, Interval: 10}, d("2024-01-01"), "2024-01-11", true},
		{"zero interval treated as one", &model.RepeatPattern{Type: model.RepeatDaily}, d("2024-01-01"), "2024-01-02", true},
		{"on end date", &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1, EndDate: d("2024-01-02")}, d("2024-01-01"), "2024-01-02", true},
		{"past end date", &model.RepeatPattern{Type: model.RepeatDaily, Interval: 1, EndDate: d("2024-01-01")}, d("2024-01-01"), "", false},
		{"none", &model.RepeatPattern{Type: model.RepeatNone, Interval: 1}, d("2024-01-01"), "", false},
		{"nil", nil, d("2024-01-01"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextDue(tt.pattern, tt.due, today)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextInstance(t *testing.T) {
	goalID := "g1"
	series := "s1"
	task := &model.Task{
		ID:           "t1",
		Title:        "Daily standup",
		DueDate:      model.MustParseDate("2024-01-01"),
		GoalID:       &goalID,
		Tags:         []string{"work"},
		Priority:     model.PriorityHigh,
		Completed:    true,
		SeriesID:     &series,
		Dependencies: []string{"t0"},
		RepeatPattern: &model.RepeatPattern{
			Type:     model.RepeatDaily,
			Interval: 1,
		},
	}

	next, ok := NextInstance(task, model.MustParseDate("2024-01-01"))
	require.True(t, ok)
	assert.Empty(t, next.ID)
	assert.Equal(t, "Daily standup", next.Title)
	assert.Equal(t, "2024-01-02", next.DueDate.String())
	assert.Equal(t, "g1", *next.GoalID)
	assert.Equal(t, []string{"work"}, next.Tags)
	assert.Equal(t, model.PriorityHigh, next.Priority)
	assert.False(t, next.Completed)
	assert.Equal(t, *task.RepeatPattern, *next.RepeatPattern)
	assert.NotSame(t, task.RepeatPattern, next.RepeatPattern)
	assert.Equal(t, "s1", *next.SeriesID)
	assert.Empty(t, next.Dependencies)
}
