package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

var historyType string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage analysis history",
	Long: `Past analyses are fed back to the model as conversation context.
Use these commands to inspect or reset that memory.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	RunE:  runHistoryList,
}

var historySummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count stored analyses per type",
	RunE:  runHistorySummary,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored analyses",
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().StringVarP(&historyType, "type", "t", "", "only show this analysis type")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySummaryCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	entries, err := historyService.List(cmd.Context(), domain.AnalysisType(historyType))
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No analysis history.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("%s  %-5s  %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Type, e.DataSummary)
		if e.Insights != "" {
			cmd.Printf("  %s\n", truncate(e.Insights, 120))
		}
	}
	return nil
}

func runHistorySummary(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	sum, err := historyService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to summarize history: %w", err)
	}

	if sum.Total == 0 {
		cmd.Println("No analysis history.")
		return nil
	}

	cmd.Printf("Stored analyses: %d (%s to %s)\n", sum.Total, sum.Oldest, sum.Newest)
	types := make([]string, 0, len(sum.ByType))
	for t := range sum.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		cmd.Printf("  %-5s %d\n", t, sum.ByType[domain.AnalysisType(t)])
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Analysis history cleared.")
	return nil
}
