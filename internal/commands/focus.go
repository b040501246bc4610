package commands

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/clock"
	"github.com/nhle/momentum/internal/focus"
	"github.com/nhle/momentum/internal/model"
	uifocus "github.com/nhle/momentum/internal/ui/focus"
	"github.com/nhle/momentum/internal/watch"
)

func newFocusCmd(e *env) *cobra.Command {
	var (
		minutes int
		plain   bool
	)
	cmd := &cobra.Command{
		Use:   "focus [task-id]",
		Short: "Run a focus countdown, completing the task when it ends",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if minutes < 1 {
				minutes = e.cfg.Focus.DefaultMinutes
			}

			var task *model.Task
			taskID := ""
			if len(args) == 1 {
				if task, err = resolveTask(ctx, svc, args[0]); err != nil {
					return err
				}
				taskID = task.ID
			}
			session, err := focus.NewSession(time.Duration(minutes)*time.Minute, taskID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if plain {
				err := focus.Run(ctx, clock.Real(), session, func(left time.Duration) {
					if left%time.Minute == 0 {
						fmt.Fprintf(w, "%d min left\n", int(left.Minutes()))
					}
				}, nil)
				if err != nil {
					return err
				}
				if task == nil {
					fmt.Fprintf(w, "Focused for %s.\n", session.Elapsed())
					return nil
				}
				res, err := svc.CompleteTask(ctx, task.ID)
				if err != nil {
					return err
				}
				printCompletion(w, res)
				return nil
			}

			refresher := watch.New(svc, watch.WithLogger(e.logger), watch.WithMetrics(e.metrics))
			refresher.Start()
			defer refresher.Stop()

			m := uifocus.New(session, task, svc).WithRefresher(refresher)
			p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(w))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("running focus view: %w", err)
			}
			if fm, ok := final.(uifocus.Model); ok {
				if _, err := fm.Result(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "session length, default from settings")
	cmd.Flags().BoolVar(&plain, "plain", false, "print progress lines instead of the full-screen view")
	return cmd
}
