package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
	"github.com/nhle/momentum/internal/theme"
)

func newThemeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Daily themes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the theme of each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			themes, err := svc.Themes(cmd.Context())
			if err != nil {
				return err
			}
			for _, th := range themes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s  %s\n",
					th.Day, theme.GoalStyle(th.Color).Render(th.Name), theme.HelpStyle.Render(th.Description))
			}
			return nil
		},
	}

	var th model.DailyTheme
	set := &cobra.Command{
		Use:   "set <day>",
		Short: "Set the theme for a weekday or \"weekend\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			th.Day = args[0]
			saved, err := svc.PutTheme(cmd.Context(), th)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", saved.Day, saved.Name)
			return nil
		},
	}
	sf := set.Flags()
	sf.StringVar(&th.Name, "name", "", "theme name")
	sf.StringVar(&th.Description, "description", "", "description")
	sf.StringVar(&th.Color, "color", "", "hex color")
	sf.StringVar(&th.Quote, "quote", "", "quote of the day")
	sf.StringSliceVarP(&th.Tags, "tag", "t", nil, "tags of matching tasks (repeatable)")

	today := &cobra.Command{
		Use:   "today",
		Short: "Show today's theme and the open tasks that fit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			current, tasks, err := svc.ThemeTasks(cmd.Context(), svc.Today())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if current == nil {
				fmt.Fprintln(w, "No theme for today.")
				return nil
			}
			fmt.Fprintln(w, theme.HeaderStyle.Render(current.Name))
			if current.Quote != "" {
				fmt.Fprintln(w, theme.HelpStyle.Render(current.Quote))
			}
			for _, t := range tasks {
				printTask(w, t)
			}
			return nil
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in themes if none exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			seeded, err := svc.SeedDefaultThemes(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Default themes added.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Themes already exist.")
			}
			return nil
		},
	}

	cmd.AddCommand(list, set, today, seed)
	return cmd
}

func newProfileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Local user profiles",
	}

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			p, err := svc.Profile(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no profile for %s", args[0])
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, theme.HeaderStyle.Render(p.DisplayName))
			for _, line := range [][2]string{{"bio", p.Bio}, {"location", p.Location}} {
				if line[1] != "" {
					fmt.Fprintf(w, "%-9s %s\n", line[0], line[1])
				}
			}
			for _, h := range p.Hobbies {
				fmt.Fprintf(w, "hobby     %s\n", h)
			}
			return nil
		},
	}

	var p model.UserProfile
	set := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			current, err := svc.Profile(ctx, args[0])
			switch {
			case errors.Is(err, store.ErrNotFound):
				current = &model.UserProfile{UserID: args[0]}
			case err != nil:
				return err
			}
			changed := cmd.Flags().Changed
			if changed("name") {
				current.DisplayName = p.DisplayName
			}
			if changed("bio") {
				current.Bio = p.Bio
			}
			if changed("location") {
				current.Location = p.Location
			}
			if changed("hobby") {
				current.Hobbies = p.Hobbies
			}
			if _, err := svc.PutProfile(ctx, *current); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", args[0])
			return nil
		},
	}
	pf := set.Flags()
	pf.StringVar(&p.DisplayName, "name", "", "display name")
	pf.StringVar(&p.Bio, "bio", "", "short bio")
	pf.StringVar(&p.Location, "location", "", "location")
	pf.StringSliceVar(&p.Hobbies, "hobby", nil, "hobby (repeatable)")

	cmd.AddCommand(show, set)
	return cmd
}
