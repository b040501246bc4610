package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/model"
)

func newGoalCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			g, err := svc.CreateGoal(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s %s\n", shortID(g.ID), g.Title)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "hex color, picked from the palette when empty")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			goals, err := svc.GoalsWithStats(ctx)
			if err != nil {
				return err
			}
			if all {
				archived, err := svc.Goals(ctx, true)
				if err != nil {
					return err
				}
				for _, g := range archived {
					if g.IsArchived {
						goals = append(goals, model.GoalWithStats{Goal: g})
					}
				}
			}
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No goals yet.")
				return nil
			}
			for _, g := range goals {
				printGoal(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
	list.Flags().BoolVarP(&all, "all", "a", false, "include archived goals")

	var title string
	edit := &cobra.Command{
		Use:   "edit <goal-id>",
		Short: "Rename or recolor a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			g, err := resolveGoal(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				g.Title = title
			}
			if cmd.Flags().Changed("color") {
				g.Color = color
			}
			g, err = svc.UpdateGoal(cmd.Context(), g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s %s\n", shortID(g.ID), g.Title)
			return nil
		},
	}
	edit.Flags().StringVar(&title, "title", "", "new title")
	edit.Flags().StringVar(&color, "color", "", "new hex color")

	position := &cobra.Command{
		Use:   "move <goal-id> <position>",
		Short: "Move a goal to a position on the dashboard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("position must be a positive integer")
			}
			svc, err := e.service()
			if err != nil {
				return err
			}
			g, err := resolveGoal(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			return svc.ReorderGoal(cmd.Context(), g.ID, pos)
		},
	}

	cmd.AddCommand(add, list, edit, position,
		goalAction(e, "archive", "Archive a goal", "Archived"),
		goalAction(e, "pause", "Exclude a goal from inactivity checks", "Paused"),
		goalAction(e, "resume", "Resume a paused goal", "Resumed"),
		goalAction(e, "prestige", "Reset a max-level goal and raise its prestige", "Prestiged"),
		goalAction(e, "delete", "Delete a goal, keeping its tasks", "Deleted"),
	)
	return cmd
}

// goalAction builds a "goal <verb> <goal-id>" command.
func goalAction(e *env, verb, short, done string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <goal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := resolveGoal(ctx, svc, args[0])
			if err != nil {
				return err
			}
			switch verb {
			case "archive":
				_, err = svc.ArchiveGoal(ctx, g.ID)
			case "pause":
				_, err = svc.PauseGoal(ctx, g.ID)
			case "resume":
				_, err = svc.ResumeGoal(ctx, g.ID)
			case "prestige":
				_, err = svc.PrestigeGoal(ctx, g.ID)
			case "delete":
				err = svc.DeleteGoal(ctx, g.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s goal %s\n", done, g.Title)
			return nil
		},
	}
}
