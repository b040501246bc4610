package gamify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/momentum/internal/model"
)

func TestTaskXP(t *testing.T) {
	today := model.MustParseDate("2024-01-10")

	tests := []struct {
		name     string
		priority model.Priority
		streak   int
		due      model.Date
		want     int
	}{
		{"high, no streak, no due date", model.PriorityHigh, 0, model.Date{}, 50},
		{"low, no streak, no due date", model.PriorityLow, 0, model.Date{}, 10},
		{"medium default", "", 0, model.Date{}, 25},
		{"due today", model.PriorityMedium, 0, today, 38},
		{"due in a week", model.PriorityMedium, 0, today.AddDays(7), 30},
		{"due in eight days", model.PriorityMedium, 0, today.AddDays(8), 25},
		{"overdue", model.PriorityMedium, 0, today.AddDays(-1), 25},
		{"streak 3", model.PriorityLow, 3, model.Date{}, 12},
		{"streak 7 due today", model.PriorityHigh, 7, today, 113},
		{"streak 14", model.PriorityHigh, 14, model.Date{}, 100},
		{"streak 30 due soon", model.PriorityHigh, 30, today.AddDays(2), 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskXP(tt.priority, tt.streak, tt.due, today))
		})
	}
}

func TestLevelRoundTrip(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		info := CalculateLevel(XPForLevel(level))
		assert.Equal(t, level, info.Level, "level %d", level)
		assert.Equal(t, 0, info.Progress, "level %d", level)
	}
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, LevelInfo{Level: 1, Progress: 0, Needed: 100}, CalculateLevel(0))
	assert.Equal(t, LevelInfo{Level: 1, Progress: 99, Needed: 100}, CalculateLevel(99))
	assert.Equal(t, LevelInfo{Level: 2, Progress: 0, Needed: 114}, CalculateLevel(100))
	assert.Equal(t, LevelInfo{Level: 3, Progress: 0, Needed: 131}, CalculateLevel(214))
	assert.Equal(t, 1, CalculateLevel(-5).Level)

	top := CalculateLevel(XPForLevel(MaxLevel) + 10_000)
	assert.Equal(t, MaxLevel, top.Level)
	assert.Equal(t, 10_000, top.Progress)
	assert.Zero(t, top.Needed)
}

func TestPrestigeOnlyAtMaxLevel(t *testing.T) {
	for level := 1; level < MaxLevel; level++ {
		g := &model.Goal{Level: level, XP: XPForLevel(level)}
		before := *g
		require.ErrorIs(t, Prestige(g), ErrNotMaxLevel)
		assert.Equal(t, before, *g)
	}

	g := &model.Goal{XP: 0, Level: 1}
	AwardXP(g, XPForLevel(MaxLevel))
	require.Equal(t, MaxLevel, g.Level)
	require.NoError(t, Prestige(g))
	assert.Equal(t, 0, g.XP)
	assert.Equal(t, 1, g.Level)
	assert.Equal(t, 1, g.PrestigeLevel)
}

func TestEarnedBadges(t *testing.T) {
	loc := time.UTC
	due := model.MustParseDate("2024-01-10")
	early := time.Date(2024, 1, 8, 12, 0, 0, 0, loc)
	onTime := time.Date(2024, 1, 10, 12, 0, 0, 0, loc)

	var tasks []model.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, model.Task{
			Completed: true, Priority: model.PriorityHigh, DueDate: due, CompletionTimestamp: &early,
		})
	}
	tasks = append(tasks,
		model.Task{Completed: true, Priority: model.PriorityHigh, DueDate: due, CompletionTimestamp: &onTime},
		model.Task{Completed: false, Priority: model.PriorityHigh},
	)

	g := &model.Goal{StreakCounter: 5, Level: 1}
	assert.Equal(t, []string{"on-a-roll", "early-bird"}, EarnedBadges(g, tasks, loc))

	g = &model.Goal{StreakCounter: 7, Level: 5, PrestigeLevel: 1}
	assert.Equal(t, []string{"on-a-roll", "week-warrior", "rising-star", "reborn"}, EarnedBadges(g, nil, loc))

	for i := 0; i < 20; i++ {
		tasks = append(tasks, model.Task{Completed: true, Priority: model.PriorityHigh})
	}
	g = &model.Goal{Level: 1}
	assert.Equal(t, []string{"finisher", "heavy-lifter", "early-bird"}, EarnedBadges(g, tasks, loc))
}

func TestNewBadges(t *testing.T) {
	assert.Equal(t, []string{"reborn"}, NewBadges([]string{"on-a-roll"}, []string{"on-a-roll", "reborn"}))
	assert.Nil(t, NewBadges([]string{"a", "b"}, []string{"b"}))

	b, ok := BadgeByID("early-bird")
	require.True(t, ok)
	assert.Equal(t, "Early Bird", b.Name)
}
