package ui

import (
	"html/template"
	"net/url"

	"github.com/superstore-bi/superstore-bi/internal/analytics/svg"
)

// Dashboard kinds.
const (
	KindCommercial = "commercial"
	KindExecutive  = "executive"
)

// Card is one headline KPI tile.
type Card struct {
	Label string
	Value string
	Note  string
	Color string
}

// InsightItem is an insight line tagged with its kind (strength, alert...).
type InsightItem struct {
	Kind    string
	Message string
}

// ActionItem is a formatted recommended action.
type ActionItem struct {
	Priority  string
	Action    string
	Impact    string
	Timeframe string
}

// BreakdownRow is a category, region or segment table row.
type BreakdownRow struct {
	Name      string
	Revenue   string
	Profit    string
	Margin    string
	Customers string
	Color     string
}

// RankRow is a top client or top product row.
type RankRow struct {
	Name     string
	Revenue  string
	Profit   string
	Quantity string
}

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FilterView carries the current selection and the values offered.
type FilterView struct {
	Preset     string
	Focus      string
	From       string
	To         string
	Region     string
	Segment    string
	Category   string
	MinDate    string
	MaxDate    string
	Presets    []Option
	Regions    []Option
	Segments   []Option
	Categories []Option
	Degraded   bool
}

// Query encodes the selection so export links reproduce the current view.
func (f FilterView) Query() template.URL {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("preset", f.Preset)
	set("focus", f.Focus)
	set("from", f.From)
	set("to", f.To)
	set("region", f.Region)
	set("segment", f.Segment)
	set("category", f.Category)
	return template.URL(q.Encode())
}

// Charts holds the rendered SVG fragments.
type Charts struct {
	Trend      template.HTML
	Regions    template.HTML
	Categories template.HTML
	Segments   template.HTML
	Clients    template.HTML
	Products   template.HTML
}

// ErrorPanel replaces the dashboard body when the KPI API fails.
type ErrorPanel struct {
	Kind    string
	Title   string
	Message string
	Status  int
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Kind         string
	Profile      string
	Dataset      string
	Rows         string
	Filters      FilterView
	Cards        []Card
	Operational  []Card
	Synthetic    []Card
	Loyalty      []Card
	Insights     []InsightItem
	Alerts       []InsightItem
	Strengths    []InsightItem
	Improvements []InsightItem
	Actions      []ActionItem
	TrendNote    string
	LeaderNote   string
	SegmentNote  string
	Projection   string
	TrendOmitted bool
	Categories   []BreakdownRow
	Regions      []BreakdownRow
	Segments     []BreakdownRow
	Clients      []RankRow
	Products     []RankRow
	Charts       Charts
	Error        *ErrorPanel
}

// ChartRenderer abstracts SVG rendering for the dashboards.
type ChartRenderer interface {
	Line(width, height int, series []float64, labels []string, opts svg.LineOpts) (template.HTML, error)
	Bars(width, height int, series []svg.Series, labels []string, opts svg.BarOpts) (template.HTML, error)
	HBars(width int, values []float64, labels []string, opts svg.HBarOpts) (template.HTML, error)
	Donut(size int, slices []svg.Slice, opts svg.DonutOpts) (template.HTML, error)
}
