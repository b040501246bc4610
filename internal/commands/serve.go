package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/momentum/internal/api"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/watch"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := []api.Option{
				api.WithLogger(e.logger),
				api.WithSettingsSaver(e.saveSettings),
			}
			if e.cfg.Server.Metrics {
				opts = append(opts, api.WithMetrics(e.metrics))
			}
			server := api.New(svc, opts...)

			refresher := watch.New(svc, watch.WithLogger(e.logger), watch.WithMetrics(e.metrics))
			refresher.Start()
			defer refresher.Stop()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case msg := <-refresher.Results():
						if msg.Error == nil && len(msg.Inactive) > 0 {
							e.logger.Info("goals inactive", "count", len(msg.Inactive))
						}
					}
				}
			}()

			err = model.WatchConfig(e.configPath, func(cfg *model.AppConfig) {
				if err := svc.SetInactivityThreshold(cfg.Settings.InactivityThresholdDays); err != nil {
					e.logger.Warn("ignoring reloaded threshold", "error", err)
					return
				}
				e.logger.Info("config reloaded", "inactivity_threshold_days", cfg.Settings.InactivityThresholdDays)
				refresher.RefreshNow()
			}, func(err error) {
				e.logger.Warn("config reload failed", "error", err)
			})
			if err != nil {
				e.logger.Debug("not watching config", "error", err)
			}

			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			e.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, default from config")
	return cmd
}
