package insights

// Trend labels reported by ComputeEvolution.
const (
	TrendStrongIncrease = "strong_increase"
	TrendIncrease       = "increase"
	TrendDecrease       = "decrease"
	TrendStrongDecrease = "strong_decrease"
	TrendStable         = "stable"
)

// Colour tags paired with the trend labels. They carry no logic.
const (
	ColorStrongIncrease = "#27ae60"
	ColorIncrease       = "#2ecc71"
	ColorDecrease       = "#f39c12"
	ColorStrongDecrease = "#e74c3c"
	ColorStable         = "gray"
)

const strongMovePct = 5

// Evolution is the change between two values of the same metric.
type Evolution struct {
	PercentChange float64 `json:"percent_change"`
	Trend         string  `json:"trend"`
	Color         string  `json:"color"`
}

// ComputeEvolution classifies the move from previous to current. A zero
// previous value yields a stable evolution instead of dividing by zero.
func ComputeEvolution(current, previous float64) Evolution {
	if previous == 0 {
		return Evolution{Trend: TrendStable, Color: ColorStable}
	}
	pct := (current - previous) / previous * 100
	switch {
	case pct > strongMovePct:
		return Evolution{PercentChange: pct, Trend: TrendStrongIncrease, Color: ColorStrongIncrease}
	case pct > 0:
		return Evolution{PercentChange: pct, Trend: TrendIncrease, Color: ColorIncrease}
	case pct > -strongMovePct:
		return Evolution{PercentChange: pct, Trend: TrendDecrease, Color: ColorDecrease}
	default:
		return Evolution{PercentChange: pct, Trend: TrendStrongDecrease, Color: ColorStrongDecrease}
	}
}
