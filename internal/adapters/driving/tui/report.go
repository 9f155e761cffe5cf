package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/styles"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

// renderReport lays the outcome out for a viewport of the given width.
func renderReport(s *styles.Styles, outcome *driving.RunOutcome, width int) string {
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width - 2)
	res := outcome.Result

	var b strings.Builder
	b.WriteString(s.Section.Render("📈 Statistics"))
	b.WriteString("\n")
	stats := res.Statistics
	if strings.TrimSpace(stats) == "" {
		stats = "No statistics"
	}
	b.WriteString(s.Stats.Render(stats))
	b.WriteString("\n\n")

	b.WriteString(s.Section.Render("🧠 Insights"))
	b.WriteString("\n")
	insights := res.Insights
	if strings.TrimSpace(insights) == "" {
		insights = "No analysis result"
	}
	b.WriteString(wrap.Render(s.Normal.Render(insights)))
	b.WriteString("\n\n")

	if len(outcome.Deliveries) > 0 {
		b.WriteString(s.Section.Render("📬 Deliveries"))
		b.WriteString("\n")
		for _, d := range outcome.Deliveries {
			b.WriteString(s.Muted.Render(deliveryLine(d)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	count := fmt.Sprintf("Documents analyzed: %d", res.RecentCount)
	if res.ContextCount > 0 {
		count += fmt.Sprintf(" (context: %d)", res.ContextCount)
	}
	b.WriteString(s.Muted.Render(count))
	return b.String()
}

func deliveryLine(d domain.Delivery) string {
	target := d.Location
	if target == "" {
		target = d.Recipient
	}
	line := fmt.Sprintf("%-11s %-7s %s", d.Method, d.Status, target)
	if d.ErrorMessage != "" {
		line += " (" + d.ErrorMessage + ")"
	}
	return strings.TrimRight(line, " ")
}

func headerText(outcome *driving.RunOutcome) string {
	if outcome == nil {
		return "📊 Pickles"
	}
	run := outcome.Run
	title := fmt.Sprintf("📊 Pickles · %s · %d days", run.Type, run.Days)
	if run.Source != "" {
		title += " · " + run.Source
	}
	return title
}
