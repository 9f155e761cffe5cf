package delivery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 7, 30, 15, 0, time.Local)
}

func TestFile_Text(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	f := NewTextFile(dir)
	f.now = fixedClock

	path, err := f.Deliver(context.Background(), testReport())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pickles_report_20250310_073015.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, RenderText(testReport()), string(data))
	assert.Equal(t, domain.DeliveryFileText, f.Method())
}

func TestFile_HTML(t *testing.T) {
	dir := t.TempDir()
	f := NewHTMLFile(dir)
	f.now = fixedClock

	path, err := f.Deliver(context.Background(), testReport())

	require.NoError(t, err)
	assert.Equal(t, "pickles_report_20250310_073015.html", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Equal(t, domain.DeliveryFileHTML, f.Method())
}

func TestFile_UnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewTextFile(filepath.Join(blocker, "reports")).Deliver(context.Background(), testReport())

	assert.ErrorContains(t, err, "create output directory")
}
