package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newResetCmd(e *env) *cobra.Command {
	var yes, recreate bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all goals, tasks, themes, profiles, and history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title("Delete all data?").
					Description(e.cfg.Database.Path).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			svc, err := e.service()
			if err != nil {
				return err
			}
			if recreate {
				err = svc.Recreate(cmd.Context())
			} else {
				err = svc.ClearAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop and rebuild the schema instead of emptying tables")
	return cmd
}
