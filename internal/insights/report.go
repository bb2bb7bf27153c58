package insights

// Input gathers the payloads one analysis runs on.
type Input struct {
	Snapshot GlobalSnapshot
	Series   []TimeSeriesPoint
	Clients  ClientsReport
}

// Report is the complete derived view of one filter selection.
type Report struct {
	Profile      string              `json:"profile"`
	Metrics      Metrics             `json:"metrics"`
	Series       SeriesStats         `json:"series"`
	RevenueTrend *Trend              `json:"revenue_trend,omitempty"`
	ProfitTrend  *Trend              `json:"profit_trend,omitempty"`
	Insights     []Insight           `json:"insights"`
	Alerts       []Insight           `json:"alerts"`
	Summary      Summary             `json:"summary"`
	Actions      []RecommendedAction `json:"actions"`
	TrendOmitted bool                `json:"trend_omitted"`
}

// Analyze runs every derivation with the thresholds of profile p. Trends are
// omitted when the series is shorter than MinTrendPoints.
func Analyze(p Profile, in Input) Report {
	metrics := Derive(in.Snapshot, in.Clients, p.Ranking.TopClients, p.Tiers)
	report := Report{
		Profile:  p.Name,
		Metrics:  metrics,
		Series:   SummarizeSeries(in.Series),
		Insights: GenerateInsights(in.Snapshot, p.Insights),
		Alerts:   Alerts(in.Snapshot, p.Insights),
		Summary:  Summarize(in.Snapshot, metrics.RetentionRate, metrics.Concentration, p.Summary),
		Actions:  GenerateActions(in.Snapshot, metrics.RetentionRate, metrics.Concentration, p.Actions),
	}
	if report.Insights == nil {
		report.Insights = []Insight{}
	}
	if report.Alerts == nil {
		report.Alerts = []Insight{}
	}

	revenue, err := ProjectRevenue(in.Series)
	if err != nil {
		report.TrendOmitted = true
		return report
	}
	profit, err := ProjectProfit(in.Series)
	if err != nil {
		report.TrendOmitted = true
		return report
	}
	report.RevenueTrend = &revenue
	report.ProfitTrend = &profit
	return report
}
