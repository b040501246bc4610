package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/theme"
)

func newSettingsCmd(e *env) *cobra.Command {
	var (
		days     int
		darkMode bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := cmd.Flags().Changed
			if changed("inactivity-days") || changed("dark-mode") {
				if changed("inactivity-days") {
					svc, err := e.service()
					if err != nil {
						return err
					}
					if err := svc.SetInactivityThreshold(days); err != nil {
						return err
					}
					e.cfg.Settings.InactivityThresholdDays = days
				}
				if changed("dark-mode") {
					e.cfg.Settings.DarkMode = darkMode
					theme.SetDarkMode(darkMode)
				}
				if err := e.saveSettings(e.cfg.Settings.InactivityThresholdDays); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "inactivity threshold  %d days\n", e.cfg.Settings.InactivityThresholdDays)
			fmt.Fprintf(w, "dark mode             %t\n", e.cfg.Settings.DarkMode)
			fmt.Fprintf(w, "database              %s\n", e.cfg.Database.Path)
			fmt.Fprintf(w, "config                %s\n", e.configPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "inactivity-days", 0, "days before an untouched goal is flagged")
	cmd.Flags().BoolVar(&darkMode, "dark-mode", false, "dark mode preference")
	return cmd
}
