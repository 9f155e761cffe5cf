package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ephemere-io/pickles/internal/adapters/driving/tui/styles"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
)

func TestRenderReport_Defaults(t *testing.T) {
	out := renderReport(styles.DefaultStyles(), &driving.RunOutcome{}, 80)

	assert.Contains(t, out, "No statistics")
	assert.Contains(t, out, "No analysis result")
	assert.NotContains(t, out, "Deliveries")
}

func TestRenderReport_ContextCount(t *testing.T) {
	outcome := &driving.RunOutcome{Result: domain.AnalysisResult{RecentCount: 2, ContextCount: 9}}

	out := renderReport(styles.DefaultStyles(), outcome, 80)

	assert.Contains(t, out, "Documents analyzed: 2 (context: 9)")
}

func TestDeliveryLine(t *testing.T) {
	tests := []struct {
		name string
		d    domain.Delivery
		want string
	}{
		{
			name: "file location",
			d:    domain.Delivery{Method: "file_text", Status: domain.DeliverySent, Location: "/tmp/r.txt"},
			want: "file_text   sent    /tmp/r.txt",
		},
		{
			name: "email failure",
			d: domain.Delivery{
				Method:       "email_html",
				Status:       domain.DeliveryFailed,
				Recipient:    "yuki@example.com",
				ErrorMessage: "relay denied",
			},
			want: "email_html  failed  yuki@example.com (relay denied)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deliveryLine(tt.d))
		})
	}
}

func TestHeaderText(t *testing.T) {
	assert.Equal(t, "📊 Pickles", headerText(nil))
	assert.Equal(t, "📊 Pickles · aga · 30 days · gdocs", headerText(&driving.RunOutcome{
		Run: domain.AnalysisRun{Type: domain.AnalysisAga, Days: 30, Source: "gdocs"},
	}))
}
