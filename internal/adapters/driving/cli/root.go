// Package cli provides the cobra command tree for the pickles binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ephemere-io/pickles/internal/core/ports/driving"
	"github.com/ephemere-io/pickles/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var verbose bool

// Services wired in by main. A nil service makes its commands fail with a
// "not configured" error.
var (
	pipeline        driving.Pipeline
	reconciler      driving.DocumentReconciler
	historyService  driving.HistoryService
	runService      driving.RunService
	settingsService driving.SettingsService

	// schedulerFactory builds a scheduler for a run template.
	schedulerFactory func(req driving.RunRequest) (driving.Scheduler, error)

	// promptWatcher reloads prompt templates on change until ctx is done.
	promptWatcher func(ctx context.Context) error

	// modelPinger checks that the configured model provider answers.
	modelPinger func(ctx context.Context) error
)

// Services groups the dependencies the commands use.
type Services struct {
	Pipeline         driving.Pipeline
	Reconciler       driving.DocumentReconciler
	History          driving.HistoryService
	Runs             driving.RunService
	Settings         driving.SettingsService
	SchedulerFactory func(req driving.RunRequest) (driving.Scheduler, error)
	PromptWatcher    func(ctx context.Context) error
	PingModel        func(ctx context.Context) error
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	pipeline = s.Pipeline
	reconciler = s.Reconciler
	historyService = s.History
	runService = s.Runs
	settingsService = s.Settings
	schedulerFactory = s.SchedulerFactory
	promptWatcher = s.PromptWatcher
	modelPinger = s.PingModel
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "pickles",
	Short: "Journal analytics for Notion and Google Docs",
	Long: `Pickles reads your journal from Notion or a Google Doc, asks a language
model to reflect on the recent entries and delivers the report to your
terminal, a file or your inbox.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
