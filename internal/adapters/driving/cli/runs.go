package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ephemere-io/pickles/internal/adapters/driving/tui"
)

var (
	runsLimit int
	runsPager bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run with its report and deliveries",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs")
	runsShowCmd.Flags().BoolVar(&runsPager, "pager", false, "show the report in an interactive pager")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	runs, err := runService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for _, r := range runs {
		cmd.Printf("%s  %s  %-9s  %-5s  %3dd  %-6s  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Status, r.Type, r.Days, r.Source, r.TriggerType)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	outcome, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if runsPager && term.IsTerminal(int(os.Stdout.Fd())) {
		app, err := tui.NewReportApp(outcome)
		if err != nil {
			return err
		}
		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("pager: %w", err)
		}
		return nil
	}

	run := outcome.Run
	cmd.Printf("Run:      %s\n", run.ID)
	cmd.Printf("Status:   %s\n", run.Status)
	cmd.Printf("Type:     %s\n", run.Type)
	cmd.Printf("Source:   %s (%d days)\n", run.Source, run.Days)
	cmd.Printf("Trigger:  %s\n", run.TriggerType)
	cmd.Printf("Created:  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.CompletedAt != nil {
		cmd.Printf("Finished: %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("Entries:  %d recent, %d context\n", run.RecentCount, run.ContextCount)
	if run.ErrorMessage != "" {
		cmd.Printf("Error:    %s\n", run.ErrorMessage)
	}

	if run.Statistics != "" {
		cmd.Println()
		cmd.Println("[Statistics]")
		cmd.Println(run.Statistics)
	}
	if run.Insights != "" {
		cmd.Println()
		cmd.Println("[Insights]")
		cmd.Println(run.Insights)
	}

	if len(outcome.Deliveries) > 0 {
		cmd.Println()
		cmd.Println("[Deliveries]")
		for _, d := range outcome.Deliveries {
			target := d.Location
			if target == "" {
				target = d.Recipient
			}
			cmd.Printf("  %-11s %-7s %s\n", d.Method, d.Status, target)
			if d.ErrorMessage != "" {
				cmd.Printf("    %s\n", d.ErrorMessage)
			}
		}
	}
	return nil
}
