package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ephemere-io/pickles/internal/adapters/driving/tui"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

var (
	analyzeFlags runFlags
	analyzePager bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze recent journal entries",
	Long: `Fetch the recent journal entries from the configured source, analyze them
with the configured model and deliver the report.

Flags override the stored settings for this run only.

Examples:
  pickles analyze
  pickles analyze --type aga --days 30 --language Japanese
  pickles analyze --delivery console,file_html
  pickles analyze --pager`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFlags.source, "source", "s", "", "data source (notion, gdocs)")
	analyzeCmd.Flags().IntVarP(&analyzeFlags.days, "days", "d", 0, "lookback in days (7 or more)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.kind, "type", "t", "", "analysis type (domi, aga)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.language, "language", "l", "", "output language")
	analyzeCmd.Flags().StringVar(&analyzeFlags.userName, "user", "", "name used to address the writer")
	analyzeCmd.Flags().StringVar(&analyzeFlags.delivery, "delivery", "", "comma separated delivery methods")
	analyzeCmd.Flags().BoolVar(&analyzePager, "pager", false, "show the report in an interactive pager")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	req := analyzeFlags.apply(defaultRequest())

	if analyzePager && term.IsTerminal(int(os.Stdout.Fd())) {
		// The pager shows the report itself.
		req.Delivery = withoutMethod(req.Delivery, domain.DeliveryConsole)
		return runPager(cmd, req)
	}

	outcome, err := pipeline.Run(cmd.Context(), req)
	if err != nil {
		if outcome != nil {
			cmd.PrintErrf("Run %s failed\n", outcome.Run.ID)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	printOutcomeSummary(cmd, outcome)
	return nil
}

func runPager(cmd *cobra.Command, req driving.RunRequest) error {
	app, err := tui.NewApp(&tui.Ports{Pipeline: pipeline, Request: req})
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	if app.Err() != nil {
		return fmt.Errorf("analysis failed: %w", app.Err())
	}
	if outcome := app.Outcome(); outcome != nil {
		printOutcomeSummary(cmd, outcome)
	}
	return nil
}

// printOutcomeSummary prints the run id and any delivery that did not
// land on the console.
func printOutcomeSummary(cmd *cobra.Command, outcome *driving.RunOutcome) {
	if outcome.Result.Skipped {
		cmd.Println("No journal entries in the requested window; nothing was analyzed.")
	}
	for _, d := range outcome.Deliveries {
		if d.Method == domain.DeliveryConsole && d.Status == domain.DeliverySent {
			continue
		}
		switch d.Status {
		case domain.DeliverySent:
			target := d.Location
			if target == "" {
				target = d.Recipient
			}
			cmd.Printf("Delivered via %s: %s\n", d.Method, target)
		default:
			cmd.Printf("Delivery via %s failed: %s\n", d.Method, d.ErrorMessage)
		}
	}
	cmd.Printf("Run %s %s\n", outcome.Run.ID, outcome.Run.Status)
}

func withoutMethod(methods []string, drop string) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		if m != drop {
			out = append(out, m)
		}
	}
	return out
}
