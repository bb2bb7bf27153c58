package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInsights(t *testing.T) {
	rules := ExecutiveProfile().Insights

	cases := []struct {
		name     string
		snapshot GlobalSnapshot
		want     []Insight
	}{
		{
			name:     "all strengths",
			snapshot: GlobalSnapshot{AverageMargin: 25, AverageBasket: 600, Revenue: 2_000_000, Customers: 800},
			want: []Insight{
				{Kind: KindStrength, Message: MsgExcellentProfitability},
				{Kind: KindStrength, Message: MsgHighBasket},
				{Kind: KindStrength, Message: MsgProfitableCustomers},
			},
		},
		{
			name:     "weak margin and basket",
			snapshot: GlobalSnapshot{AverageMargin: 8, AverageBasket: 150, Revenue: 10_000, Customers: 100},
			want: []Insight{
				{Kind: KindAlert, Message: MsgLowMargin},
				{Kind: KindImprovement, Message: MsgLowBasket},
			},
		},
		{
			name:     "neutral band",
			snapshot: GlobalSnapshot{AverageMargin: 20, AverageBasket: 500, Revenue: 1000, Customers: 1},
			want:     []Insight{},
		},
		{
			name:     "no customers",
			snapshot: GlobalSnapshot{AverageMargin: 15, AverageBasket: 300, Revenue: 5000},
			want:     []Insight{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateInsights(tc.snapshot, rules)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGenerateInsightsIsIdempotent(t *testing.T) {
	snapshot := GlobalSnapshot{AverageMargin: 9, AverageBasket: 700, Revenue: 5e6, Customers: 10}
	rules := StandardProfile().Insights
	assert.Equal(t, GenerateInsights(snapshot, rules), GenerateInsights(snapshot, rules))
}

func TestAlerts(t *testing.T) {
	rules := ExecutiveProfile().Insights

	got := Alerts(GlobalSnapshot{AverageMargin: 5, Revenue: 3000, Customers: 2}, rules)
	require.Len(t, got, 2)
	assert.Equal(t, MsgMarginAlert, got[0].Message)
	assert.Equal(t, KindAlert, got[0].Kind)
	assert.Equal(t, MsgExcellentCustomer, got[1].Message)

	assert.Empty(t, Alerts(GlobalSnapshot{AverageMargin: 12, Revenue: 100, Customers: 1}, rules))
}

func TestSummarizeFallbacks(t *testing.T) {
	rules := ExecutiveProfile().Summary
	// margin and retention on their pivots, concentration and basket inside
	// the neutral bands: nothing fires either way.
	snapshot := GlobalSnapshot{AverageMargin: 15, AverageBasket: 350}
	got := Summarize(snapshot, 50, 35, rules)

	assert.Equal(t, []Insight{{Kind: KindSuccess, Message: MsgSolidBase}}, got.Strengths)
	assert.Equal(t, []Insight{{Kind: KindSuccess, Message: MsgMaintainExcellence}}, got.Improvements)
}

func TestSummarizeAllRules(t *testing.T) {
	rules := ExecutiveProfile().Summary

	strong := Summarize(GlobalSnapshot{AverageMargin: 18, AverageBasket: 450}, 70, 10, rules)
	assert.Equal(t, []Insight{
		{Kind: KindStrength, Message: MsgStrongProfitability},
		{Kind: KindStrength, Message: MsgGoodRetention},
		{Kind: KindStrength, Message: MsgDiversifiedBase},
		{Kind: KindStrength, Message: MsgHighBasketSummary},
	}, strong.Strengths)
	assert.Equal(t, []Insight{{Kind: KindSuccess, Message: MsgMaintainExcellence}}, strong.Improvements)

	weak := Summarize(GlobalSnapshot{AverageMargin: 12, AverageBasket: 200}, 20, 60, rules)
	assert.Equal(t, []Insight{
		{Kind: KindImprovement, Message: MsgImproveProfitability},
		{Kind: KindImprovement, Message: MsgImproveRetention},
		{Kind: KindImprovement, Message: MsgDiversifyCustomers},
		{Kind: KindImprovement, Message: MsgDevelopUpselling},
	}, weak.Improvements)
}

func TestSummarizeCapsItems(t *testing.T) {
	rules := ExecutiveProfile().Summary
	rules.MaxItems = 2

	got := Summarize(GlobalSnapshot{AverageMargin: 18, AverageBasket: 450}, 70, 10, rules)
	require.Len(t, got.Strengths, 2)
	assert.Equal(t, MsgGoodRetention, got.Strengths[1].Message)
}

func TestMarginThresholdsStayDistinct(t *testing.T) {
	// 17% margin is a summary strength without being a headline strength.
	snapshot := GlobalSnapshot{AverageMargin: 17, AverageBasket: 350}
	p := ExecutiveProfile()

	assert.Empty(t, GenerateInsights(snapshot, p.Insights))
	summary := Summarize(snapshot, 55, 35, p.Summary)
	assert.Equal(t, MsgStrongProfitability, summary.Strengths[0].Message)
}
