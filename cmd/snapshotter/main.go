// Command snapshotter records one snapshot per tracked channel and exits.
// It is meant for external schedulers that do not call POST /api/cron.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/analytubeapp-coder/analytube/internal/app"
	"github.com/analytubeapp-coder/analytube/internal/config"
	"github.com/analytubeapp-coder/analytube/internal/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		timeout time.Duration
		pacing  time.Duration
		channel string
	)

	cmd := &cobra.Command{
		Use:           "snapshotter",
		Short:         "Record daily channel snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("pacing") {
				cfg.BatchPacing = pacing
			}
			middleware.InitLogger(cfg.LogLevel, "analytube-snapshotter")
			log := middleware.Logger

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("startup failed")
				return err
			}
			defer a.Close()

			var result any
			if channel != "" {
				resp, cerr := a.Snapshots.Capture(ctx, channel)
				if resp != nil {
					result = resp
				}
				err = cerr
			} else {
				res, rerr := a.Batch.Run(ctx)
				if res != nil {
					result = res
				}
				err = rerr
			}
			if result != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				_ = enc.Encode(result)
			}
			if err != nil {
				log.Error().Err(err).Msg("snapshot run failed")
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Hour, "abort the run after this long (0 disables)")
	cmd.Flags().DurationVar(&pacing, "pacing", time.Second, "delay between channels (overrides BATCH_PACING)")
	cmd.Flags().StringVar(&channel, "channel", "", "snapshot a single channel ID instead of every tracked channel")
	return cmd
}
