package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

func resetAnalyzeFlags() {
	analyzeFlags = runFlags{}
	analyzePager = false
}

func TestAnalyzeCmd_UsesSettingsDefaults(t *testing.T) {
	ts := setupTestServices(t)
	defer resetAnalyzeFlags()

	out, err := execute(t, "analyze")

	require.NoError(t, err)
	require.Len(t, ts.pipeline.requests, 1)
	req := ts.pipeline.requests[0]
	assert.Equal(t, "notion", req.Source)
	assert.Equal(t, domain.RecentWindowDays, req.Days)
	assert.Equal(t, domain.AnalysisDomi, req.Type)
	assert.Contains(t, out, "Run run-1 completed")
}

func TestAnalyzeCmd_FlagsOverride(t *testing.T) {
	ts := setupTestServices(t)
	defer resetAnalyzeFlags()

	_, err := execute(t, "analyze", "--type", "aga", "--days", "30", "--language", "Japanese",
		"--user", "Mika", "--delivery", "file_html,email_text", "--source", "gdocs")

	require.NoError(t, err)
	req := ts.pipeline.requests[0]
	assert.Equal(t, "gdocs", req.Source)
	assert.Equal(t, 30, req.Days)
	assert.Equal(t, domain.AnalysisAga, req.Type)
	assert.Equal(t, "Japanese", req.Language)
	assert.Equal(t, "Mika", req.UserName)
	assert.Equal(t, []string{"file_html", "email_text"}, req.Delivery)
}

func TestAnalyzeCmd_ReportsDeliveries(t *testing.T) {
	setupTestServices(t)
	defer resetAnalyzeFlags()

	out, err := execute(t, "analyze")

	require.NoError(t, err)
	assert.Contains(t, out, "Delivered via file_html: /tmp/r.html")
	assert.Contains(t, out, "Delivery via email_text failed: not configured")
	assert.NotContains(t, out, "Delivered via console")
}

func TestAnalyzeCmd_Skipped(t *testing.T) {
	ts := setupTestServices(t)
	defer resetAnalyzeFlags()
	ts.pipeline.outcome.Result.Skipped = true

	out, err := execute(t, "analyze")

	require.NoError(t, err)
	assert.Contains(t, out, "nothing was analyzed")
}

func TestAnalyzeCmd_Failure(t *testing.T) {
	ts := setupTestServices(t)
	defer resetAnalyzeFlags()
	ts.pipeline.outcome.Run.Status = domain.RunFailed
	ts.pipeline.err = errBoom

	out, err := execute(t, "analyze")

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, out, "Run run-1 failed")
}

func TestWithoutMethod(t *testing.T) {
	got := withoutMethod([]string{"console", "file_text", "console"}, "console")
	assert.Equal(t, []string{"file_text"}, got)
}
