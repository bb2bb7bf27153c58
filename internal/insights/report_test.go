package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstore-bi/superstore-bi/internal/format"
)

func TestAnalyze(t *testing.T) {
	in := Input{
		Snapshot: GlobalSnapshot{Revenue: 2_000_000, Profit: 150_000, AverageMargin: 7.5, Orders: 5000, Customers: 800, Quantity: 20_000, AverageBasket: 180},
		Series: []TimeSeriesPoint{
			{Period: "2023-01", Revenue: 100, Profit: 5},
			{Period: "2023-02", Revenue: 110, Profit: 6},
			{Period: "2023-03", Revenue: 120, Profit: 7},
		},
		Clients: sampleClients(),
	}
	report := Analyze(ExecutiveProfile(), in)

	assert.Equal(t, ProfileExecutive, report.Profile)
	require.NotNil(t, report.RevenueTrend)
	require.NotNil(t, report.ProfitTrend)
	assert.InDelta(t, 130, report.RevenueTrend.Next, 1e-9)
	assert.InDelta(t, 8, report.ProfitTrend.Next, 1e-9)
	assert.False(t, report.TrendOmitted)

	assert.Equal(t, KindAlert, report.Insights[0].Kind)
	assert.Equal(t, MsgMarginAlert, report.Alerts[0].Message)
	assert.Equal(t, []RecommendedAction{ActionReviewPricing, ActionCrossSelling}, report.Actions)
}

func TestAnalyzeOmitsShortTrend(t *testing.T) {
	report := Analyze(StandardProfile(), Input{Series: []TimeSeriesPoint{{Revenue: 1}, {Revenue: 2}}})
	assert.True(t, report.TrendOmitted)
	assert.Nil(t, report.RevenueTrend)
	assert.NotNil(t, report.Insights)
	assert.NotNil(t, report.Alerts)
}

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()
	assert.Equal(t, []string{ProfileExecutive, ProfileStandard}, profiles.Names())

	for _, name := range profiles.Names() {
		p, err := profiles.Get(name)
		require.NoError(t, err)
		require.NoError(t, p.Validate())
	}
	assert.Equal(t, format.StyleCompact, StandardProfile().Formatter().Style())
	assert.Equal(t, format.StyleFull, ExecutiveProfile().Formatter().Style())

	_, err := profiles.Get("ceo")
	assert.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	p := ExecutiveProfile()
	p.Insights.LowMargin = 30
	assert.Error(t, p.Validate())

	p = StandardProfile()
	p.Ranking.ProductSort = "quantity"
	assert.Error(t, p.Validate())

	p = StandardProfile()
	p.Style = "scientific"
	assert.Error(t, p.Validate())
}
