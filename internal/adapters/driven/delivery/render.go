package delivery

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

// Subject is the email subject and document title of every report.
const Subject = "Pickles Weekly Report"

const (
	ruleWidth    = 50
	subRuleWidth = 20
	noStatistics = "No statistics"
	noInsights   = "No analysis result"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderText renders the plain-text report.
func RenderText(r domain.Report) string {
	rule := strings.Repeat("=", ruleWidth)
	sub := strings.Repeat("-", subRuleWidth)
	date := r.GeneratedAt.Format("2006-01-02")

	lines := []string{
		rule,
		fmt.Sprintf("📊 %s - %s", Subject, date),
		rule,
		"",
		"📈 Statistics",
		sub,
		orDefault(r.Result.Statistics, noStatistics),
		"",
		"🧠 Insights",
		sub,
		orDefault(r.Result.Insights, noInsights),
		"",
		rule,
		"Documents analyzed: " + documentCount(r.Result),
		"Generated: " + r.GeneratedAt.Format("2006-01-02 15:04"),
		rule,
	}
	return strings.Join(lines, "\n")
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
.header { background-color: #4CAF50; color: white; padding: 10px; text-align: center; }
.section { margin: 20px 0; }
.stats { background-color: #f9f9f9; padding: 15px; border-left: 4px solid #4CAF50; }
.insights { padding: 15px; }
.footer { text-align: center; color: #666; margin-top: 30px; }
</style>
</head>
<body>
<div class="header">
<h1>📊 {{.Title}}</h1>
<p>{{.Date}}</p>
</div>
<div class="section">
<h2>📈 Statistics</h2>
<div class="stats"><pre>{{.Statistics}}</pre></div>
</div>
<div class="section">
<h2>🧠 Insights</h2>
<div class="insights">{{.Insights}}</div>
</div>
<div class="footer">
<p>Documents analyzed: {{.Count}}</p>
<p>Generated: {{.Generated}}</p>
</div>
</body>
</html>
`))

// RenderHTML renders the HTML report. Insights are treated as Markdown;
// raw HTML in them is escaped.
func RenderHTML(r domain.Report) (string, error) {
	var insights bytes.Buffer
	if err := markdown.Convert([]byte(orDefault(r.Result.Insights, noInsights)), &insights); err != nil {
		return "", fmt.Errorf("render insights: %w", err)
	}

	var out bytes.Buffer
	err := htmlReport.Execute(&out, struct {
		Title      string
		Date       string
		Statistics string
		Insights   template.HTML
		Count      string
		Generated  string
	}{
		Title:      Subject,
		Date:       r.GeneratedAt.Format("2006-01-02"),
		Statistics: orDefault(r.Result.Statistics, noStatistics),
		Insights:   template.HTML(insights.String()), //nolint:gosec // goldmark output with unsafe HTML disabled
		Count:      documentCount(r.Result),
		Generated:  r.GeneratedAt.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out.String(), nil
}

func documentCount(res domain.AnalysisResult) string {
	if res.ContextCount > 0 {
		return fmt.Sprintf("%d (context: %d)", res.RecentCount, res.ContextCount)
	}
	return fmt.Sprintf("%d", res.RecentCount)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
