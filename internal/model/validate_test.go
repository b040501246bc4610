package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Task(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{name: "valid", task: Task{Title: "Run 5k", Priority: PriorityHigh}},
		{name: "blank title", task: Task{Title: "   "}, wantErr: "title"},
		{name: "bad priority", task: Task{Title: "x", Priority: "urgent"}, wantErr: "priority"},
		{
			name:    "zero interval",
			task:    Task{Title: "x", RepeatPattern: &RepeatPattern{Type: RepeatDaily}},
			wantErr: "interval",
		},
		{
			name:    "unknown repeat type",
			task:    Task{Title: "x", RepeatPattern: &RepeatPattern{Type: "hourly", Interval: 1}},
			wantErr: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.task)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.wantErr)
		})
	}
}

func TestTask_Normalize(t *testing.T) {
	empty := ""
	now := time.Now()
	task := Task{
		Title:               "x",
		GoalID:              &empty,
		RepeatPattern:       &RepeatPattern{Type: RepeatNone, Interval: 1},
		CompletionTimestamp: &now,
	}
	task.Normalize()

	assert.Equal(t, PriorityMedium, task.Priority)
	assert.NotNil(t, task.Tags)
	assert.NotNil(t, task.Dependencies)
	assert.Nil(t, task.GoalID)
	assert.Nil(t, task.RepeatPattern)
	assert.Nil(t, task.CompletionTimestamp)
}

func TestValidDayKey(t *testing.T) {
	assert.True(t, ValidDayKey("monday"))
	assert.True(t, ValidDayKey("weekend"))
	assert.False(t, ValidDayKey("Monday"))
	assert.False(t, ValidDayKey("someday"))
}
