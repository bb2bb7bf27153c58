// Package insights derives ratios, trends, qualitative insights and
// recommended actions from KPI API payloads. Everything here is pure.
package insights

// DatasetInfo describes the dataset served by the KPI API root endpoint.
type DatasetInfo struct {
	Dataset string        `json:"dataset"`
	Rows    int64         `json:"nb_lignes"`
	Period  DatasetPeriod `json:"periode"`
}

// DatasetPeriod is the inclusive date span of the dataset (YYYY-MM-DD).
type DatasetPeriod struct {
	Start string `json:"debut"`
	End   string `json:"fin"`
}

// DateRange bounds the selectable dates.
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterOptions lists the values the dashboards may filter on.
type FilterOptions struct {
	Dates      DateRange `json:"plage_dates"`
	Regions    []string  `json:"regions"`
	Segments   []string  `json:"segments"`
	Categories []string  `json:"categories"`
}

// GlobalSnapshot holds the headline KPIs for one filter selection.
type GlobalSnapshot struct {
	Revenue       float64 `json:"ca_total"`
	Profit        float64 `json:"profit_total"`
	AverageMargin float64 `json:"marge_moyenne"`
	Orders        int64   `json:"nb_commandes"`
	Customers     int64   `json:"nb_clients"`
	Quantity      int64   `json:"quantite_vendue"`
	AverageBasket float64 `json:"panier_moyen"`
}

// TimeSeriesPoint is one period of the revenue series. Series are kept in
// the chronological order returned by the API.
type TimeSeriesPoint struct {
	Period  string  `json:"periode"`
	Revenue float64 `json:"ca"`
	Profit  float64 `json:"profit"`
}

// CategoryBreakdown aggregates one product category.
type CategoryBreakdown struct {
	Category  string  `json:"categorie"`
	Revenue   float64 `json:"ca"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marge_pct"`
	Customers int64   `json:"nb_clients"`
}

// RegionBreakdown aggregates one sales region.
type RegionBreakdown struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"ca"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marge_pct"`
	Customers int64   `json:"nb_clients"`
}

// SegmentBreakdown aggregates one customer segment.
type SegmentBreakdown struct {
	Segment   string  `json:"segment"`
	Revenue   float64 `json:"ca"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marge_pct"`
	Customers int64   `json:"nb_clients"`
}

// ClientRecord is one entry of the top clients ranking.
type ClientRecord struct {
	Name    string  `json:"nom"`
	Revenue float64 `json:"ca_total"`
}

// RecurrenceStats describes repeat purchasing.
type RecurrenceStats struct {
	TotalCustomers     int64   `json:"total_clients"`
	RecurringCustomers int64   `json:"clients_recurrents"`
	AverageOrders      float64 `json:"nb_commandes_moyen"`
}

// Normalized clamps recurring customers into [0, total].
func (r RecurrenceStats) Normalized() RecurrenceStats {
	if r.TotalCustomers < 0 {
		r.TotalCustomers = 0
	}
	if r.RecurringCustomers < 0 {
		r.RecurringCustomers = 0
	}
	if r.RecurringCustomers > r.TotalCustomers {
		r.RecurringCustomers = r.TotalCustomers
	}
	return r
}

// ClientsReport bundles the payload of the clients endpoint.
type ClientsReport struct {
	TopClients []ClientRecord     `json:"top_clients"`
	Recurrence RecurrenceStats    `json:"recurrence"`
	Segments   []SegmentBreakdown `json:"segments"`
}

// ProductRecord is one entry of the top products ranking.
type ProductRecord struct {
	Product  string  `json:"produit"`
	Revenue  float64 `json:"ca"`
	Profit   float64 `json:"profit"`
	Quantity int64   `json:"quantite"`
}

// Kind classifies a generated insight.
type Kind string

const (
	KindStrength    Kind = "strength"
	KindImprovement Kind = "improvement"
	KindAlert       Kind = "alert"
	KindSuccess     Kind = "success"
	KindAction      Kind = "action"
)

// Insight is a classified, human readable observation.
type Insight struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Priority orders recommended actions.
type Priority string

const (
	PriorityUrgent      Priority = "urgent"
	PriorityImportant   Priority = "important"
	PriorityOpportunity Priority = "opportunity"
	PrioritySuccess     Priority = "success"
)

// RecommendedAction is a prioritised follow-up derived from the KPIs.
type RecommendedAction struct {
	Priority  Priority `json:"priority"`
	Action    string   `json:"action"`
	Impact    string   `json:"impact"`
	Timeframe string   `json:"timeframe"`
}

// Insight converts the action into its insight form.
func (a RecommendedAction) Insight() Insight {
	if a.Priority == PrioritySuccess {
		return Insight{Kind: KindSuccess, Message: a.Action}
	}
	return Insight{Kind: KindAction, Message: a.Action}
}
