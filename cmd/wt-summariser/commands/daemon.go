package commands

import (
	"context"
	"log/slog"
	"sync"
	"wt-summariser/internal/components/chrono"
	"wt-summariser/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var runAtStart bool

var daemonCmd = &cobra.Command{
	Use:   "daemon [--now]",
	Short: "Processes the study article on the configured schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{withGenerator: true, withStore: true})
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		telemetry.InstrumentPerfStats(ctx, a.tel)

		// a run that is still going when the schedule fires again is skipped
		var running sync.Mutex
		job := func() {
			if !running.TryLock() {
				return
			}
			defer running.Unlock()
			err := a.runOnce(ctx)
			if err != nil {
				slog.Error("scheduled run failed", "err", err)
			}
		}

		scheduler := chrono.NewStandardCron(a.clock, a.tel)
		defer scheduler.Stop()
		err = scheduler.Cron(a.cfg.Schedule.Cron, job)
		if err != nil {
			return err
		}
		slog.Info("scheduled", "cron", a.cfg.Schedule.Cron, "location", a.clock.Location().String())

		if runAtStart {
			go job()
		}

		<-ctx.Done()
		slog.Info("shutting down")
		return nil
	},
}

func init() {
	daemonCmd.Flags().BoolVar(&runAtStart, "now", false, "Also run once immediately.")
	rootCmd.AddCommand(daemonCmd)
}
