package insights

// Actions emitted by GenerateActions.
var (
	ActionReviewPricing = RecommendedAction{
		Priority:  PriorityUrgent,
		Action:    "Review pricing and costs",
		Impact:    "Profitability",
		Timeframe: "Immediate",
	}
	ActionLoyaltyProgram = RecommendedAction{
		Priority:  PriorityImportant,
		Action:    "Loyalty program",
		Impact:    "Customer retention",
		Timeframe: "30 days",
	}
	ActionDiversification = RecommendedAction{
		Priority:  PriorityImportant,
		Action:    "Commercial diversification",
		Impact:    "Risk reduction",
		Timeframe: "90 days",
	}
	ActionCrossSelling = RecommendedAction{
		Priority:  PriorityOpportunity,
		Action:    "Cross-selling strategy",
		Impact:    "Revenue per transaction",
		Timeframe: "60 days",
	}
	ActionMaintain = RecommendedAction{
		Priority: PrioritySuccess,
		Action:   "Optimal performance: maintain current strategy",
	}
)

// GenerateActions evaluates each guard independently, in priority order.
// When none fires the result is the single ActionMaintain entry.
func GenerateActions(snapshot GlobalSnapshot, retention, concentration float64, rules ActionRules) []RecommendedAction {
	var out []RecommendedAction
	if snapshot.AverageMargin < rules.UrgentMargin {
		out = append(out, ActionReviewPricing)
	}
	if retention < rules.LowRetention {
		out = append(out, ActionLoyaltyProgram)
	}
	if concentration > rules.HighConcentration {
		out = append(out, ActionDiversification)
	}
	if snapshot.AverageBasket < rules.LowBasket {
		out = append(out, ActionCrossSelling)
	}
	if len(out) == 0 {
		return []RecommendedAction{ActionMaintain}
	}
	return out
}
