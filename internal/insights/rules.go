package insights

// Messages emitted by the rule engine.
const (
	MsgExcellentProfitability = "Excellent profitability: margin above 20%"
	MsgLowMargin              = "Low margin (<10%), optimization needed"
	MsgHighBasket             = "High average basket: high-value customers"
	MsgLowBasket              = "Low average basket: upsell opportunity"
	MsgProfitableCustomers    = "Highly profitable customers: high revenue per customer"

	MsgStrongProfitability = "Excellent profitability"
	MsgGoodRetention       = "Good customer retention"
	MsgDiversifiedBase     = "Diversified customer base"
	MsgHighBasketSummary   = "High average basket"
	MsgSolidBase           = "Solid base to optimize"

	MsgImproveProfitability = "Improve profitability"
	MsgImproveRetention     = "Improve retention"
	MsgDiversifyCustomers   = "Diversify the customer base"
	MsgDevelopUpselling     = "Develop upselling"
	MsgMaintainExcellence   = "Maintain excellence"

	MsgMarginAlert       = "MARGIN ALERT: critical profitability, action required"
	MsgExcellentCustomer = "EXCELLENT PERFORMANCE: very high-value customers"
)

// GenerateInsights evaluates the headline rules in a fixed order. Several
// rules may fire; margin and basket rules each fire at most once.
func GenerateInsights(snapshot GlobalSnapshot, rules InsightRules) []Insight {
	out := make([]Insight, 0, 3)

	switch {
	case snapshot.AverageMargin > rules.HighMargin:
		out = append(out, Insight{Kind: KindStrength, Message: MsgExcellentProfitability})
	case snapshot.AverageMargin < rules.LowMargin:
		out = append(out, Insight{Kind: KindAlert, Message: MsgLowMargin})
	}

	switch {
	case snapshot.AverageBasket > rules.HighBasket:
		out = append(out, Insight{Kind: KindStrength, Message: MsgHighBasket})
	case snapshot.AverageBasket < rules.LowBasket:
		out = append(out, Insight{Kind: KindImprovement, Message: MsgLowBasket})
	}

	if RevenuePerCustomer(snapshot) > rules.HighRevenuePerCustomer {
		out = append(out, Insight{Kind: KindStrength, Message: MsgProfitableCustomers})
	}
	return out
}

// Alerts returns the banner alerts of the executive dashboard.
func Alerts(snapshot GlobalSnapshot, rules InsightRules) []Insight {
	var out []Insight
	if snapshot.AverageMargin < rules.LowMargin {
		out = append(out, Insight{Kind: KindAlert, Message: MsgMarginAlert})
	}
	if RevenuePerCustomer(snapshot) > rules.HighRevenuePerCustomer {
		out = append(out, Insight{Kind: KindSuccess, Message: MsgExcellentCustomer})
	}
	return out
}

// Summary lists strengths and improvement areas.
type Summary struct {
	Strengths    []Insight `json:"strengths"`
	Improvements []Insight `json:"improvements"`
}

// Summarize builds the strengths and improvements lists. Each list holds at
// most rules.MaxItems entries and falls back to a single neutral entry when
// no rule fires.
func Summarize(snapshot GlobalSnapshot, retention, concentration float64, rules SummaryRules) Summary {
	var strengths, improvements []Insight

	if snapshot.AverageMargin > rules.Margin {
		strengths = append(strengths, Insight{Kind: KindStrength, Message: MsgStrongProfitability})
	}
	if retention > rules.Retention {
		strengths = append(strengths, Insight{Kind: KindStrength, Message: MsgGoodRetention})
	}
	if concentration < rules.DiversifiedBelow {
		strengths = append(strengths, Insight{Kind: KindStrength, Message: MsgDiversifiedBase})
	}
	if snapshot.AverageBasket > rules.HighBasket {
		strengths = append(strengths, Insight{Kind: KindStrength, Message: MsgHighBasketSummary})
	}
	if len(strengths) == 0 {
		strengths = append(strengths, Insight{Kind: KindSuccess, Message: MsgSolidBase})
	}

	if snapshot.AverageMargin < rules.Margin {
		improvements = append(improvements, Insight{Kind: KindImprovement, Message: MsgImproveProfitability})
	}
	if retention < rules.Retention {
		improvements = append(improvements, Insight{Kind: KindImprovement, Message: MsgImproveRetention})
	}
	if concentration > rules.ConcentratedAbove {
		improvements = append(improvements, Insight{Kind: KindImprovement, Message: MsgDiversifyCustomers})
	}
	if snapshot.AverageBasket < rules.LowBasket {
		improvements = append(improvements, Insight{Kind: KindImprovement, Message: MsgDevelopUpselling})
	}
	if len(improvements) == 0 {
		improvements = append(improvements, Insight{Kind: KindSuccess, Message: MsgMaintainExcellence})
	}

	return Summary{
		Strengths:    capInsights(strengths, rules.MaxItems),
		Improvements: capInsights(improvements, rules.MaxItems),
	}
}

func capInsights(items []Insight, limit int) []Insight {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
