package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/gamify"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/theme"
)

func printGoal(w io.Writer, g model.GoalWithStats) {
	info := gamify.CalculateLevel(g.XP)
	level := fmt.Sprintf("Lv %d", info.Level)
	if info.Needed > 0 {
		level += fmt.Sprintf(" (%d/%d XP)", info.Progress, info.Needed)
	}
	if g.PrestigeLevel > 0 {
		level += fmt.Sprintf(" P%d", g.PrestigeLevel)
	}

	flags := ""
	switch {
	case g.IsArchived:
		flags = theme.HelpStyle.Render(" archived")
	case g.IsPaused:
		flags = theme.HelpStyle.Render(" paused")
	}

	fmt.Fprintf(w, "%s  %s  %s  %s  %d/%d done (%d%%)%s\n",
		shortID(g.ID),
		theme.GoalStyle(g.Color).Render(g.Title),
		level,
		theme.StreakStyle(g.StreakCounter).Render(fmt.Sprintf("streak %d", g.StreakCounter)),
		g.Stats.Completed, g.Stats.Total, g.Stats.Percentage,
		flags,
	)
	if len(g.Badges) > 0 {
		fmt.Fprintf(w, "          %s\n", badgeList(g.Badges))
	}
}

func badgeList(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := id
		if b, ok := gamify.BadgeByID(id); ok {
			name = b.Name
		}
		names = append(names, theme.BadgeStyle.Render(name))
	}
	return strings.Join(names, " ")
}

func printTask(w io.Writer, t model.Task) {
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = theme.DoneStyle.Render(title)
	}

	var extra []string
	if !t.DueDate.IsZero() {
		extra = append(extra, "due "+t.DueDate.String())
	}
	if t.RepeatPattern.Repeats() {
		extra = append(extra, "repeats "+string(t.RepeatPattern.Type))
	}
	for _, tag := range t.Tags {
		extra = append(extra, "#"+tag)
	}
	if len(t.Dependencies) > 0 {
		extra = append(extra, fmt.Sprintf("%d deps", len(t.Dependencies)))
	}

	line := fmt.Sprintf("%s %s %s %s", shortID(t.ID), check,
		theme.PriorityStyle(t.Priority).Render(string(t.Priority)), title)
	if len(extra) > 0 {
		line += "  " + theme.HelpStyle.Render(strings.Join(extra, " "))
	}
	fmt.Fprintln(w, line)
}

func printCompletion(w io.Writer, res *app.CompletionResult) {
	if !res.Task.Completed {
		fmt.Fprintf(w, "Marked not done: %s\n", res.Task.Title)
		return
	}
	fmt.Fprintf(w, "Done: %s  +%d XP\n", res.Task.Title, res.XPAwarded)
	if res.Goal != nil {
		fmt.Fprintf(w, "%s is level %d with a %d-day streak\n",
			res.Goal.Title, res.Goal.Level, res.Goal.StreakCounter)
	}
	if len(res.NewBadges) > 0 {
		fmt.Fprintf(w, "New badges: %s\n", badgeList(res.NewBadges))
	}
	if res.NextTask != nil {
		fmt.Fprintf(w, "Next: %s due %s\n", shortID(res.NextTask.ID), res.NextTask.DueDate)
	}
}

func printHistory(w io.Writer, entries []model.HistoryEntry) {
	for _, e := range entries {
		title, _ := e.Details["title"].(string)
		fmt.Fprintf(w, "%s  %-10s %-4s %s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Type, e.EntityType, shortID(e.EntityID), title)
	}
}
