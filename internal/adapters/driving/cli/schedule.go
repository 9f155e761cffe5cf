package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ephemere-io/pickles/internal/logger"
)

var scheduleFlags runFlags

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run analyses on the configured cron schedule",
	Long: `Run the pipeline whenever schedule.cron fires, evaluated in
schedule.timezone. Prompt templates are reloaded when edited on disk.

The command runs in the foreground until interrupted.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleFlags.source, "source", "s", "", "data source (notion, gdocs)")
	scheduleCmd.Flags().IntVarP(&scheduleFlags.days, "days", "d", 0, "lookback in days (7 or more)")
	scheduleCmd.Flags().StringVarP(&scheduleFlags.kind, "type", "t", "", "analysis type (domi, aga)")
	scheduleCmd.Flags().StringVarP(&scheduleFlags.language, "language", "l", "", "output language")
	scheduleCmd.Flags().StringVar(&scheduleFlags.userName, "user", "", "name used to address the writer")
	scheduleCmd.Flags().StringVar(&scheduleFlags.delivery, "delivery", "", "comma separated delivery methods")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if schedulerFactory == nil {
		return errors.New("scheduler not configured")
	}

	req := scheduleFlags.apply(defaultRequest())
	scheduler, err := schedulerFactory(req)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if promptWatcher != nil {
		go func() {
			if err := promptWatcher(ctx); err != nil {
				logger.Warn("prompt watcher stopped: %v", err)
			}
		}()
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	return scheduler.Start(ctx)
}
