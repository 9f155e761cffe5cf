package delivery

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Console implements the interface.
var _ driven.Deliverer = (*Console)(nil)

// LocationStdout is the location recorded for console deliveries.
const LocationStdout = "stdout"

var (
	accent = lipgloss.Color("#4CAF50")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 2)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	statsStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(accent).PaddingLeft(1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).MarginTop(1)
)

// Console prints reports to a writer, styled when it is a terminal.
type Console struct {
	out    io.Writer
	styled bool
}

// NewConsole creates a console deliverer on stdout.
func NewConsole() *Console {
	return &Console{
		out:    os.Stdout,
		styled: term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // fd fits in int
	}
}

// NewConsoleWriter creates a console deliverer on w.
func NewConsoleWriter(w io.Writer, styled bool) *Console {
	return &Console{out: w, styled: styled}
}

// Method returns the delivery method name.
func (c *Console) Method() string {
	return domain.DeliveryConsole
}

// Deliver writes the report.
func (c *Console) Deliver(_ context.Context, report domain.Report) (string, error) {
	text := RenderText(report)
	if c.styled {
		text = renderStyled(report)
	}
	if _, err := fmt.Fprintln(c.out, text); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return LocationStdout, nil
}

func renderStyled(r domain.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("📊 %s - %s", Subject, r.GeneratedAt.Format("2006-01-02"))))
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("📈 Statistics"))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(orDefault(r.Result.Statistics, noStatistics)))
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("🧠 Insights"))
	b.WriteString("\n")
	b.WriteString(orDefault(r.Result.Insights, noInsights))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"Documents analyzed: %s · Generated: %s",
		documentCount(r.Result), r.GeneratedAt.Format("2006-01-02 15:04"),
	)))
	return b.String()
}
