package streak

import (
	"time"

	"github.com/nhle/momentum/internal/model"
)

const (
	// HistoryDays is how many days of completions a task history covers.
	HistoryDays = 84
	// MissedWindowDays is the trailing window missed days are counted in.
	MissedWindowDays = 28
)

// Day is one bucket of a task's completion history.
type Day struct {
	Date      model.Date `json:"date"`
	Completed bool       `json:"completed"`
}

// TaskHistory summarizes when a task (or its recurrence series) was done.
type TaskHistory struct {
	// Days runs oldest first and ends on today.
	Days          []Day `json:"days"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	MissedDays    int   `json:"missed_days"`
}

// BuildTaskHistory buckets the "complete" entries into the HistoryDays
// days ending on today, with calendar days taken in loc. Other entry
// types are ignored.
//
// The current streak counts back from today, or from yesterday when
// today has no completion yet. Today is never counted as missed.
func BuildTaskHistory(entries []model.HistoryEntry, today model.Date, loc *time.Location) TaskHistory {
	done := make(map[model.Date]bool)
	for _, e := range entries {
		if e.Type != model.HistoryComplete {
			continue
		}
		done[model.DateOf(e.Timestamp.In(loc))] = true
	}

	start := today.AddDays(-(HistoryDays - 1))
	h := TaskHistory{Days: make([]Day, HistoryDays)}
	run := 0
	for i := 0; i < HistoryDays; i++ {
		d := start.AddDays(i)
		h.Days[i] = Day{Date: d, Completed: done[d]}
		if done[d] {
			run++
			h.LongestStreak = max(h.LongestStreak, run)
		} else {
			run = 0
		}
	}

	cursor := today
	if !done[cursor] {
		cursor = cursor.AddDays(-1)
	}
	for !cursor.Before(start) && done[cursor] {
		h.CurrentStreak++
		cursor = cursor.AddDays(-1)
	}

	for i := 1; i < MissedWindowDays; i++ {
		if !done[today.AddDays(-i)] {
			h.MissedDays++
		}
	}

	return h
}
