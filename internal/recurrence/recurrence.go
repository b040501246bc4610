// Package recurrence computes the follow-up instance of a repeating task.
package recurrence

import "github.com/nhle/momentum/internal/model"

// NextDue advances from the task's due date (or today when it has none)
// by one step of the pattern. It returns false when the pattern does not
// repeat or the next date falls after the pattern's end date.
func NextDue(p *model.RepeatPattern, due, today model.Date) (model.Date, bool) {
	if !p.Repeats() {
		return model.Date{}, false
	}

	base := due
	if base.IsZero() {
		base = today
	}
	n := p.Interval
	if n < 1 {
		n = 1
	}

	var next model.Date
	switch p.Type {
	case model.RepeatDaily, model.RepeatCustom:
		next = base.AddDays(n)
	case model.RepeatWeekly:
		next = base.AddDays(7 * n)
	case model.RepeatMonthly:
		next = base.AddMonths(n)
	default:
		return model.Date{}, false
	}

	if !p.EndDate.IsZero() && next.After(p.EndDate) {
		return model.Date{}, false
	}
	return next, true
}

// NextInstance returns the uncompleted copy of a just-completed repeating
// task, due on the next date of its pattern. The copy has no ID and no
// creation time; both are assigned when it is stored.
func NextInstance(t *model.Task, today model.Date) (*model.Task, bool) {
	next, ok := NextDue(t.RepeatPattern, t.DueDate, today)
	if !ok {
		return nil, false
	}

	pattern := *t.RepeatPattern
	clone := &model.Task{
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       next,
		GoalID:        t.GoalID,
		Tags:          append([]string{}, t.Tags...),
		Priority:      t.Priority,
		IsQuiet:       t.IsQuiet,
		RepeatPattern: &pattern,
		SeriesID:      t.SeriesID,
		Dependencies:  []string{},
		ThemeID:       t.ThemeID,
	}
	return clone, true
}
