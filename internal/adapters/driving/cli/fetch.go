package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	fetchSource string
	fetchDays   int
	fetchJSON   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch journal entries without analyzing them",
	Long: `Fetch the documents dated within the lookback window and print them,
oldest first. Useful for checking what an analysis would see.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchSource, "source", "s", "", "data source (notion, gdocs)")
	fetchCmd.Flags().IntVarP(&fetchDays, "days", "d", 0, "lookback in days")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print documents as JSON")
	rootCmd.AddCommand(fetchCmd)
}

type fetchedDocument struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if reconciler == nil {
		return errors.New("reconciler not configured")
	}

	req := runFlags{source: fetchSource, days: fetchDays}.apply(defaultRequest())

	docs, err := reconciler.Fetch(cmd.Context(), req.Source, req.Days)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if fetchJSON {
		out := make([]fetchedDocument, len(docs))
		for i, d := range docs {
			out[i] = fetchedDocument{Date: d.Date, Title: d.Title, Text: d.Text}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in the last %d days from %s.\n", req.Days, req.Source)
		return nil
	}

	cmd.Printf("%d documents from %s (last %d days)\n\n", len(docs), req.Source, req.Days)
	for _, d := range docs {
		cmd.Printf("[%s] %s\n", d.Date, d.Title)
		if d.Text != "" {
			cmd.Printf("  %s\n", truncate(d.Text, 200))
		}
		cmd.Println()
	}
	return nil
}

// truncate shortens s to at most n runes, adding an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
