package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/theme"
)

func newHistoryCmd(e *env) *cobra.Command {
	var limit int
	var entity string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var entries []model.HistoryEntry
			if entity != "" {
				id := entity
				if t, err := resolveTask(ctx, svc, entity); err == nil {
					id = t.ID
				} else if g, err := resolveGoal(ctx, svc, entity); err == nil {
					id = g.ID
				}
				entries, err = svc.EntityHistory(ctx, id)
			} else {
				entries, err = svc.History(ctx, limit)
			}
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries, 0 for all")
	cmd.Flags().StringVar(&entity, "for", "", "only entries about this task or goal id")
	return cmd
}

func newJournalCmd(e *env) *cobra.Command {
	var from, to string
	var days int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show activity grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			today := svc.Today()
			end, err := parseDay(to, today)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			if end.IsZero() {
				end = today
			}
			start, err := parseDay(from, today)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			if start.IsZero() {
				start = end.AddDays(1 - days)
			}

			journal, err := svc.Journal(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, d := range journal {
				fmt.Fprintf(w, "%s %s  %s\n", d.Date, d.Date.Weekday().String()[:3], countSummary(d.Counts))
				for _, entry := range d.Entries {
					title, _ := entry.Details["title"].(string)
					fmt.Fprintf(w, "    %s %s %s\n",
						entry.Timestamp.In(svc.Location()).Format("15:04"), entry.Type, title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD), default today")
	cmd.Flags().IntVar(&days, "days", 7, "days to show when --from is not set")
	return cmd
}

func countSummary(counts map[model.HistoryType]int) string {
	if len(counts) == 0 {
		return theme.HelpStyle.Render("no activity")
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[model.HistoryType(k)]))
	}
	return strings.Join(parts, ", ")
}

func newInactiveCmd(e *env) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "inactive",
		Short: "List goals with no recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			goals, err := svc.InactiveGoals(cmd.Context(), days)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(w, "All goals are active.")
				return nil
			}
			now := svc.Today()
			for _, g := range goals {
				idle := "never active"
				if g.LastActiveDate != nil {
					idle = fmt.Sprintf("idle %d days", now.DaysSince(model.DateOf(g.LastActiveDate.In(svc.Location()))))
				}
				fmt.Fprintf(w, "%s  %s  %s\n", shortID(g.ID), theme.WarningStyle.Render(g.Title), idle)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "threshold in days, default from settings")
	return cmd
}
