package insights

import (
	"math"
	"sort"
)

// vipDivisor is the fixed size of the VIP group used for the VIP average,
// even when fewer top clients are returned.
const vipDivisor = 5

// Tier grades a metric for display.
type Tier string

const (
	TierGood    Tier = "good"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

// Color returns the display colour of the tier.
func (t Tier) Color() string {
	switch t {
	case TierGood:
		return ColorStrongIncrease
	case TierWarning:
		return ColorDecrease
	default:
		return ColorStrongDecrease
	}
}

// Opportunity is the basket based commercial opportunity.
type Opportunity string

const (
	OpportunityUpsell   Opportunity = "upsell"
	OpportunityPremium  Opportunity = "premium"
	OpportunityStandard Opportunity = "standard"
)

// Metrics are the ratios derived from the API payloads.
type Metrics struct {
	RevenuePerCustomer float64     `json:"revenue_per_customer"`
	ProfitPerOrder     float64     `json:"profit_per_order"`
	OrderRate          float64     `json:"order_rate"`
	ItemsPerOrder      float64     `json:"items_per_order"`
	RetentionRate      float64     `json:"retention_rate"`
	Concentration      float64     `json:"concentration"`
	LifetimeValue      float64     `json:"lifetime_value"`
	VIPRatio           float64     `json:"vip_ratio"`
	AverageOrders      float64     `json:"average_orders"`
	Opportunity        Opportunity `json:"opportunity"`
	MarginTier         Tier        `json:"margin_tier"`
	RetentionTier      Tier        `json:"retention_tier"`
}

// Derive computes every derived ratio. Ratios with a zero divisor are 0.
func Derive(snapshot GlobalSnapshot, clients ClientsReport, topN int, tiers TierRules) Metrics {
	rec := clients.Recurrence.Normalized()
	top := TopClients(clients.TopClients, topN)
	perCustomer := RevenuePerCustomer(snapshot)

	var topRevenue float64
	for _, c := range top {
		topRevenue += c.Revenue
	}

	m := Metrics{
		RevenuePerCustomer: perCustomer,
		ProfitPerOrder:     safeDiv(snapshot.Profit, float64(snapshot.Orders)),
		OrderRate:          safeDiv(float64(snapshot.Orders), float64(snapshot.Customers)) * 100,
		ItemsPerOrder:      safeDiv(float64(snapshot.Quantity), float64(snapshot.Orders)),
		RetentionRate:      RetentionRate(rec),
		Concentration:      safeDiv(topRevenue, snapshot.Revenue) * 100,
		LifetimeValue:      perCustomer * rec.AverageOrders,
		VIPRatio:           safeDiv(topRevenue/vipDivisor, perCustomer),
		AverageOrders:      rec.AverageOrders,
	}
	m.Opportunity = BasketOpportunity(snapshot.AverageBasket, tiers)
	m.MarginTier = grade(snapshot.AverageMargin, tiers.MarginGood, tiers.MarginWarning)
	m.RetentionTier = grade(m.RetentionRate, tiers.RetentionGood, tiers.RetentionWarning)
	return m
}

// RevenuePerCustomer is total revenue over customers, 0 without customers.
func RevenuePerCustomer(snapshot GlobalSnapshot) float64 {
	return safeDiv(snapshot.Revenue, float64(snapshot.Customers))
}

// RetentionRate is the share of recurring customers in percent.
func RetentionRate(rec RecurrenceStats) float64 {
	rec = rec.Normalized()
	return safeDiv(float64(rec.RecurringCustomers), float64(rec.TotalCustomers)) * 100
}

// Concentration is the share of revenue held by the given clients in percent.
func Concentration(clients []ClientRecord, totalRevenue float64) float64 {
	var sum float64
	for _, c := range clients {
		sum += c.Revenue
	}
	return safeDiv(sum, totalRevenue) * 100
}

// BasketOpportunity classifies the average basket.
func BasketOpportunity(basket float64, tiers TierRules) Opportunity {
	switch {
	case basket < tiers.UpsellBasketBelow:
		return OpportunityUpsell
	case basket > tiers.PremiumBasketOver:
		return OpportunityPremium
	default:
		return OpportunityStandard
	}
}

// CategoryMarginTier grades a category margin.
func CategoryMarginTier(marginPct float64, tiers TierRules) Tier {
	return grade(marginPct, tiers.CategoryGood, tiers.CategoryWarning)
}

func grade(value, good, warning float64) Tier {
	switch {
	case value > good:
		return TierGood
	case value > warning:
		return TierWarning
	default:
		return TierDanger
	}
}

// SeriesStats summarises a revenue series.
type SeriesStats struct {
	MeanRevenue float64         `json:"mean_revenue"`
	MeanProfit  float64         `json:"mean_profit"`
	Growth      float64         `json:"growth"`
	LastChange  *Evolution      `json:"last_change,omitempty"`
	Best        TimeSeriesPoint `json:"best"`
}

// SummarizeSeries computes means, first to last growth, the change over the
// last period and the best period. The first maximum wins on ties.
func SummarizeSeries(points []TimeSeriesPoint) SeriesStats {
	var stats SeriesStats
	if len(points) == 0 {
		return stats
	}
	var sumRevenue, sumProfit float64
	best := points[0]
	for _, p := range points {
		sumRevenue += p.Revenue
		sumProfit += p.Profit
		if p.Revenue > best.Revenue {
			best = p
		}
	}
	n := float64(len(points))
	stats.MeanRevenue = sumRevenue / n
	stats.MeanProfit = sumProfit / n
	stats.Best = best

	if len(points) > 1 {
		first, last := points[0].Revenue, points[len(points)-1].Revenue
		stats.Growth = safeDiv(last-first, first) * 100
		change := ComputeEvolution(last, points[len(points)-2].Revenue)
		stats.LastChange = &change
	}
	return stats
}

// LeaderRegion returns the region with the highest revenue and its share of
// total revenue in percent.
func LeaderRegion(regions []RegionBreakdown) (RegionBreakdown, float64, bool) {
	if len(regions) == 0 {
		return RegionBreakdown{}, 0, false
	}
	var total float64
	leader := regions[0]
	for _, r := range regions {
		total += r.Revenue
		if r.Revenue > leader.Revenue {
			leader = r
		}
	}
	return leader, safeDiv(leader.Revenue, total) * 100, true
}

// TopSegment returns the segment with the highest revenue.
func TopSegment(segments []SegmentBreakdown) (SegmentBreakdown, bool) {
	if len(segments) == 0 {
		return SegmentBreakdown{}, false
	}
	top := segments[0]
	for _, s := range segments[1:] {
		if s.Revenue > top.Revenue {
			top = s
		}
	}
	return top, true
}

// RadarPoint holds one region scaled to percentages of the best region.
type RadarPoint struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	Customers float64 `json:"customers"`
}

// NormalizeRegions scales revenue, profit and customers to the maximum of
// each axis.
func NormalizeRegions(regions []RegionBreakdown) []RadarPoint {
	var maxRevenue, maxProfit, maxCustomers float64
	for _, r := range regions {
		maxRevenue = math.Max(maxRevenue, r.Revenue)
		maxProfit = math.Max(maxProfit, r.Profit)
		maxCustomers = math.Max(maxCustomers, float64(r.Customers))
	}
	out := make([]RadarPoint, 0, len(regions))
	for _, r := range regions {
		out = append(out, RadarPoint{
			Region:    r.Region,
			Revenue:   safeDiv(r.Revenue, maxRevenue) * 100,
			Profit:    safeDiv(r.Profit, maxProfit) * 100,
			Customers: safeDiv(float64(r.Customers), maxCustomers) * 100,
		})
	}
	return out
}

// SortByRevenue returns a copy of items ordered by revenue descending.
// Equal revenues keep their input order.
func SortByRevenue[T any](items []T, revenue func(T) float64) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return revenue(out[i]) > revenue(out[j])
	})
	return out
}

// TopClients ranks clients by revenue and keeps the first n.
func TopClients(clients []ClientRecord, n int) []ClientRecord {
	ranked := SortByRevenue(clients, func(c ClientRecord) float64 { return c.Revenue })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
