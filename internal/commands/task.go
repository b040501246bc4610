package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/model"
)

// taskFields are the flags shared by "task add" and "task edit".
type taskFields struct {
	goal        string
	description string
	priority    string
	due         string
	tags        []string
	repeat      string
	interval    int
	until       string
	quiet       bool
}

func (f *taskFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.goal, "goal", "g", "", "goal id (prefix), or \"none\"")
	fl.StringVarP(&f.description, "description", "d", "", "description")
	fl.StringVarP(&f.priority, "priority", "p", "", "low, medium, high (or 1-3)")
	fl.StringVar(&f.due, "due", "", "due date YYYY-MM-DD, today, or tomorrow")
	fl.StringSliceVarP(&f.tags, "tag", "t", nil, "tag (repeatable)")
	fl.StringVar(&f.repeat, "repeat", "", "daily, weekly, monthly, custom, or none")
	fl.IntVar(&f.interval, "every", 1, "repeat interval")
	fl.StringVar(&f.until, "until", "", "last date a repeat may fall on")
	fl.BoolVar(&f.quiet, "quiet", false, "leave the task out of stats and dependency checks")
}

func parseDay(s string, today model.Date) (model.Date, error) {
	switch strings.ToLower(s) {
	case "":
		return model.Date{}, nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	return model.ParseDate(s)
}

// apply copies the flags the user set onto t.
func (f *taskFields) apply(cmd *cobra.Command, e *env, t *model.Task) error {
	svc, err := e.service()
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	today := svc.Today()

	if changed("goal") {
		if f.goal == "" || f.goal == "none" {
			t.GoalID = nil
		} else {
			g, err := resolveGoal(cmd.Context(), svc, f.goal)
			if err != nil {
				return err
			}
			t.GoalID = &g.ID
		}
	}
	if changed("description") {
		t.Description = f.description
	}
	if changed("priority") {
		p, ok := model.ParsePriority(strings.ToLower(f.priority))
		if !ok {
			return fmt.Errorf("unknown priority %q", f.priority)
		}
		t.Priority = p
	}
	if changed("due") {
		d, err := parseDay(f.due, today)
		if err != nil {
			return fmt.Errorf("invalid due date: %w", err)
		}
		t.DueDate = d
	}
	if changed("tag") {
		t.Tags = f.tags
	}
	if changed("quiet") {
		t.IsQuiet = f.quiet
	}
	if changed("repeat") || changed("every") || changed("until") {
		p := model.RepeatPattern{Type: model.RepeatType(f.repeat), Interval: f.interval}
		if t.RepeatPattern != nil && !changed("repeat") {
			p.Type = t.RepeatPattern.Type
		}
		if p.Type == "" || p.Type == model.RepeatNone {
			t.RepeatPattern = nil
		} else {
			end, err := parseDay(f.until, today)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}
			p.EndDate = end
			t.RepeatPattern = &p
		}
	}
	return nil
}

func newTaskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var addFields taskFields
	var quick bool
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. With --quick the title may carry inline markers:
"#tag" adds a tag, "!high" (or !1-!3) sets the priority, and "@today",
"@tomorrow" or "@YYYY-MM-DD" sets the due date.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")

			var t *model.Task
			if quick {
				var goalID *string
				if addFields.goal != "" {
					g, err := resolveGoal(cmd.Context(), svc, addFields.goal)
					if err != nil {
						return err
					}
					goalID = &g.ID
				}
				t, err = svc.QuickAdd(cmd.Context(), text, goalID)
			} else {
				in := model.Task{Title: text}
				if err := addFields.apply(cmd, e, &in); err != nil {
					return err
				}
				t, err = svc.CreateTask(cmd.Context(), in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s %s\n", shortID(t.ID), t.Title)
			return nil
		},
	}
	addFields.register(add)
	add.Flags().BoolVarP(&quick, "quick", "q", false, "parse #tags, !priority and @due from the title")

	var (
		listGoal  string
		today     bool
		open      bool
		archived  bool
		withQuiet bool
		sortBy    string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			q := app.TaskQuery{DueToday: today, IncludeQuiet: withQuiet, SortBy: sortBy}
			if listGoal != "" {
				id := listGoal
				if listGoal != "none" {
					g, err := resolveGoal(cmd.Context(), svc, listGoal)
					if err != nil {
						return err
					}
					id = g.ID
				}
				q.GoalID = &id
			}
			if open {
				f := false
				q.Completed = &f
			}
			if !archived {
				f := false
				q.Archived = &f
			}

			tasks, err := svc.Tasks(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			for _, t := range tasks {
				printTask(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
	lf := list.Flags()
	lf.StringVarP(&listGoal, "goal", "g", "", "only tasks of this goal, or \"none\"")
	lf.BoolVar(&today, "today", false, "only tasks due today")
	lf.BoolVar(&open, "open", false, "hide completed tasks")
	lf.BoolVar(&archived, "archived", false, "include archived tasks")
	lf.BoolVar(&withQuiet, "quiet", false, "include quiet tasks")
	lf.StringVar(&sortBy, "sort", "", "created_at, due_date, priority, title, completed_at")

	done := &cobra.Command{
		Use:     "done <task-id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task's completion",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			t, err := resolveTask(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			res, err := svc.CompleteTask(cmd.Context(), t.ID)
			if err != nil {
				return err
			}
			printCompletion(cmd.OutOrStdout(), res)
			return nil
		},
	}

	var editFields taskFields
	var newTitle string
	edit := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			t, err := resolveTask(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				t.Title = newTitle
			}
			if err := editFields.apply(cmd, e, t); err != nil {
				return err
			}
			t, err = svc.UpdateTask(cmd.Context(), *t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s %s\n", shortID(t.ID), t.Title)
			return nil
		},
	}
	editFields.register(edit)
	edit.Flags().StringVar(&newTitle, "title", "", "new title")

	archive := &cobra.Command{
		Use:   "archive <task-id>",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			t, err := resolveTask(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if _, err := svc.ArchiveTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived task %s\n", t.Title)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and remove it from other tasks' dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			t, err := resolveTask(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.Title)
			return nil
		},
	}

	cmd.AddCommand(add, list, done, edit, archive, del, newDepCmd(e), newStreakCmd(e))
	return cmd
}

func newDepCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	change := func(use, short string, add bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <task-id> <depends-on-id>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := e.service()
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				t, err := resolveTask(ctx, svc, args[0])
				if err != nil {
					return err
				}
				dep, err := resolveTask(ctx, svc, args[1])
				if err != nil {
					return err
				}
				if add {
					_, err = svc.AddDependency(ctx, t.ID, dep.ID)
				} else {
					_, err = svc.RemoveDependency(ctx, t.ID, dep.ID)
				}
				if err != nil {
					return err
				}
				verb := "no longer depends on"
				if add {
					verb = "now depends on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", t.Title, verb, dep.Title)
				return nil
			},
		}
	}

	cmd.AddCommand(
		change("add", "Make a task depend on another", true),
		change("rm", "Remove a dependency", false),
	)
	return cmd
}

func newStreakCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "streak <task-id>",
		Short: "Show a task's completion history across its repeats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			t, err := resolveTask(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			h, err := svc.TaskStreak(cmd.Context(), t.ID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", t.Title)
			var grid strings.Builder
			for i, d := range h.Days {
				if i > 0 && i%28 == 0 {
					grid.WriteByte('\n')
				}
				if d.Completed {
					grid.WriteString("#")
				} else {
					grid.WriteString(".")
				}
			}
			fmt.Fprintln(w, grid.String())
			fmt.Fprintf(w, "current streak %d, longest %d, missed %d of the last 28 days\n",
				h.CurrentStreak, h.LongestStreak, h.MissedDays)
			return nil
		},
	}
}
