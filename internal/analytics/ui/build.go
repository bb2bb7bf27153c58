package ui

import (
	"fmt"
	"html/template"
	"math"
	"net/http"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/analytics/svg"
	"github.com/superstore-bi/superstore-bi/internal/format"
	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

const (
	chartWidth = 640
	donutSize  = 220
)

// Build converts a loaded dashboard into its view model.
func Build(kind string, data analytics.Dashboard, charts ChartRenderer) (DashboardViewModel, error) {
	if charts == nil {
		return DashboardViewModel{}, fmt.Errorf("svg renderer missing")
	}
	f := data.Profile.Formatter()
	report := data.Report
	metrics := report.Metrics

	vm := DashboardViewModel{
		Kind:         kind,
		Profile:      data.Profile.Name,
		Dataset:      data.Info.Dataset,
		Rows:         f.Number(float64(data.Info.Rows)),
		Filters:      Filters(data),
		Insights:     items(report.Insights),
		Alerts:       items(report.Alerts),
		Strengths:    items(report.Summary.Strengths),
		Improvements: items(report.Summary.Improvements),
		Actions:      actions(report.Actions),
		TrendOmitted: report.TrendOmitted,
		Categories:   categoryRows(f, data.Categories, data.Profile.Tiers),
		Regions:      regionRows(f, data.Regions),
		Segments:     segmentRows(f, data.Clients.Segments),
		Clients:      clientRows(f, data.Clients.TopClients),
		Products:     productRows(f, data.Products),
	}

	snap := data.Snapshot
	if kind == KindCommercial {
		vm.Cards = []Card{
			{Label: "Revenue", Value: f.Currency(snap.Revenue), Note: "Primary objective"},
			{Label: "Profit", Value: f.Currency(snap.Profit), Note: "Margin: " + f.Percent(snap.AverageMargin)},
			{Label: "Orders", Value: f.Number(float64(snap.Orders)), Note: "Basket: " + f.Currency(snap.AverageBasket)},
			{Label: "Active customers", Value: f.Number(float64(snap.Customers)), Note: f.Decimal1(metrics.OrderRate) + " orders per 100 customers"},
			{Label: "Profit / order", Value: f.Currency(metrics.ProfitPerOrder), Note: "Profitability"},
		}
	} else {
		vm.Cards = []Card{
			{Label: "Revenue", Value: f.Currency(snap.Revenue), Note: "Total sales"},
			{Label: "Global margin", Value: f.Percent(snap.AverageMargin), Note: "Average profitability", Color: metrics.MarginTier.Color()},
			{Label: "Total profit", Value: f.Currency(snap.Profit), Note: "Net profit"},
			{Label: "Customer base", Value: f.Number(float64(snap.Customers)), Note: "Active customers"},
		}
		vm.Operational = []Card{
			{Label: "Orders", Value: f.Number(float64(snap.Orders)), Note: "Total activity"},
			{Label: "Average basket", Value: f.Currency(snap.AverageBasket), Note: "Revenue / orders"},
			{Label: "Items / order", Value: f.Decimal1(metrics.ItemsPerOrder), Note: "Average items per order"},
			{Label: "Revenue / customer", Value: f.Currency(metrics.RevenuePerCustomer), Note: "Revenue per customer"},
		}
		vm.Loyalty = []Card{
			{Label: "Retention rate", Value: f.Percent(metrics.RetentionRate), Note: "Recurring customers", Color: metrics.RetentionTier.Color()},
			{Label: "Lifetime value", Value: f.Currency(metrics.LifetimeValue), Note: "Revenue per customer x orders"},
			{Label: "Orders / customer", Value: f.Decimal1(metrics.AverageOrders), Note: "Average"},
			{Label: "Top 5 concentration", Value: f.Percent(metrics.Concentration), Note: "Share of revenue"},
			{Label: "VIP ratio", Value: f.Ratio(metrics.VIPRatio), Note: "Top 5 vs average customer"},
			{Label: "Basket opportunity", Value: opportunityLabel(metrics.Opportunity), Note: "Average basket " + f.Currency(snap.AverageBasket)},
		}
	}

	stats := report.Series
	if len(data.Series) > 0 {
		vm.Synthetic = []Card{
			{Label: "Mean monthly revenue", Value: f.Currency(stats.MeanRevenue), Note: fmt.Sprintf("%.1f%% vs start of period", stats.Growth)},
			{Label: "Mean monthly profit", Value: f.Currency(stats.MeanProfit)},
			{Label: "Best month", Value: stats.Best.Period, Note: f.Currency(stats.Best.Revenue)},
		}
	}
	if stats.LastChange != nil {
		direction := "up"
		if stats.LastChange.PercentChange <= 0 {
			direction = "down"
		}
		vm.TrendNote = fmt.Sprintf("Revenue is %s %.1f%% versus the previous month. The best period remains %s with %s of revenue.",
			direction, math.Abs(stats.LastChange.PercentChange), stats.Best.Period, f.Currency(stats.Best.Revenue))
	}
	if report.RevenueTrend != nil {
		vm.Projection = f.Currency(report.RevenueTrend.Next)
	}
	if leader, share, ok := insights.LeaderRegion(data.Regions); ok {
		vm.LeaderNote = fmt.Sprintf("The %s region accounts for %.0f%% of total revenue with %d active customers.",
			leader.Region, share, leader.Customers)
	}
	if top, ok := insights.TopSegment(data.Clients.Segments); ok {
		vm.SegmentNote = fmt.Sprintf("%s is the leading segment with %s of revenue.", top.Segment, f.Currency(top.Revenue))
	}

	var err error
	if vm.Charts, err = buildCharts(kind, f, data, charts); err != nil {
		return DashboardViewModel{}, err
	}
	return vm, nil
}

// Filters describes the resolved selection and the values offered.
func Filters(data analytics.Dashboard) FilterView {
	sel := data.Selection
	opts := data.Choices.Options
	view := FilterView{
		Preset:   string(sel.Preset),
		Focus:    string(sel.Focus),
		From:     sel.Filter.From,
		To:       sel.Filter.To,
		Region:   sel.Filter.Region,
		Segment:  sel.Filter.Segment,
		Category: sel.Filter.Category,
		MinDate:  opts.Dates.Min,
		MaxDate:  opts.Dates.Max,
		Degraded: data.Choices.Degraded,
	}
	for _, p := range insights.Presets() {
		view.Presets = append(view.Presets, Option{Value: string(p), Label: p.Label(), Selected: p == sel.Preset})
	}
	view.Regions = choices(opts.Regions, sel.Filter.Region)
	view.Segments = choices(opts.Segments, sel.Filter.Segment)
	view.Categories = choices(opts.Categories, sel.Filter.Category)
	return view
}

// NewErrorPanel describes an upstream failure of the given kind.
func NewErrorPanel(kind string, status int) ErrorPanel {
	panel := ErrorPanel{Kind: kind, Status: status}
	switch kind {
	case kpiapi.KindUnreachable:
		panel.Title = "KPI API unreachable"
		panel.Message = "Connection failed. Check that the KPI API is running."
	case kpiapi.KindTimeout:
		panel.Title = "KPI API timeout"
		panel.Message = "The KPI API did not answer in time."
	case kpiapi.KindHTTP:
		panel.Title = "KPI API error"
		panel.Message = "The KPI API answered with an error status."
	case kpiapi.KindMalformed:
		panel.Title = "Invalid KPI API response"
		panel.Message = "The KPI API returned a payload that could not be read."
	default:
		panel.Title = http.StatusText(status)
		panel.Message = "The dashboard could not be loaded."
	}
	return panel
}

func buildCharts(kind string, f format.Formatter, data analytics.Dashboard, charts ChartRenderer) (Charts, error) {
	var out Charts
	var err error

	if len(data.Series) > 0 {
		labels := make([]string, 0, len(data.Series))
		revenue := make([]float64, 0, len(data.Series))
		profit := make([]float64, 0, len(data.Series))
		for _, p := range data.Series {
			labels = append(labels, p.Period)
			revenue = append(revenue, p.Revenue)
			profit = append(profit, p.Profit)
		}
		overlays := []svg.Overlay{{Label: "Profit", Values: profit, Color: "#2ca02c"}}
		if trend := data.Report.RevenueTrend; trend != nil {
			overlays = append(overlays, svg.Overlay{Label: "Trend", Values: trend.Fitted, Color: "#d62728", Dashed: true})
		}
		out.Trend, err = charts.Line(chartWidth, svg.DefaultHeight, revenue, labels, svg.LineOpts{
			Title:       "Sales evolution",
			Description: "Monthly revenue and profit",
			Label:       "Revenue",
			Overlays:    overlays,
		})
		if err != nil {
			return Charts{}, err
		}
	}

	if len(data.Regions) > 0 {
		if kind == KindExecutive {
			out.Regions, err = regionRadar(charts, data.Regions)
		} else {
			labels := make([]string, 0, len(data.Regions))
			values := make([]float64, 0, len(data.Regions))
			for _, r := range data.Regions {
				labels = append(labels, r.Region)
				values = append(values, r.Revenue)
			}
			out.Regions, err = charts.Bars(chartWidth, svg.DefaultHeight, []svg.Series{{Label: "Revenue", Values: values}}, labels, svg.BarOpts{
				Title:       "Regional performance",
				Description: "Revenue per region",
			})
		}
		if err != nil {
			return Charts{}, err
		}
	}

	if slices := categorySlices(data.Categories); len(slices) > 0 {
		if out.Categories, err = charts.Donut(donutSize, slices, svg.DonutOpts{Title: "Categories", Description: "Revenue per category", Format: f.Currency}); err != nil {
			return Charts{}, err
		}
	}
	if slices := segmentSlices(data.Clients.Segments); len(slices) > 0 {
		if out.Segments, err = charts.Donut(donutSize, slices, svg.DonutOpts{Title: "Segments", Description: "Revenue per segment", Format: f.Currency}); err != nil {
			return Charts{}, err
		}
	}

	if len(data.Clients.TopClients) > 0 {
		labels := make([]string, 0, len(data.Clients.TopClients))
		values := make([]float64, 0, len(data.Clients.TopClients))
		for _, c := range data.Clients.TopClients {
			labels = append(labels, c.Name)
			values = append(values, c.Revenue)
		}
		if out.Clients, err = charts.HBars(chartWidth, values, labels, svg.HBarOpts{Title: "Top clients", Format: f.Currency}); err != nil {
			return Charts{}, err
		}
	}
	if len(data.Products) > 0 {
		labels := make([]string, 0, len(data.Products))
		values := make([]float64, 0, len(data.Products))
		for _, p := range data.Products {
			labels = append(labels, p.Product)
			if data.Profile.Ranking.ProductSort == "profit" {
				values = append(values, p.Profit)
			} else {
				values = append(values, p.Revenue)
			}
		}
		if out.Products, err = charts.HBars(chartWidth, values, labels, svg.HBarOpts{Title: "Top products", Color: "#ff7f0e", Format: f.Currency}); err != nil {
			return Charts{}, err
		}
	}
	return out, nil
}

func regionRadar(charts ChartRenderer, regions []insights.RegionBreakdown) (template.HTML, error) {
	points := insights.NormalizeRegions(regions)
	labels := make([]string, 0, len(points))
	revenue := make([]float64, 0, len(points))
	profit := make([]float64, 0, len(points))
	customers := make([]float64, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Region)
		revenue = append(revenue, p.Revenue)
		profit = append(profit, p.Profit)
		customers = append(customers, p.Customers)
	}
	return charts.Bars(chartWidth, svg.DefaultHeight, []svg.Series{
		{Label: "Revenue", Values: revenue},
		{Label: "Profit", Values: profit},
		{Label: "Customers", Values: customers},
	}, labels, svg.BarOpts{
		Title:       "Regional balance",
		Description: "Revenue, profit and customers as a share of the best region",
	})
}

func categorySlices(rows []insights.CategoryBreakdown) []svg.Slice {
	out := make([]svg.Slice, 0, len(rows))
	total := 0.0
	for _, r := range rows {
		out = append(out, svg.Slice{Label: r.Category, Value: r.Revenue})
		total += math.Max(r.Revenue, 0)
	}
	if total <= 0 {
		return nil
	}
	return out
}

func segmentSlices(rows []insights.SegmentBreakdown) []svg.Slice {
	out := make([]svg.Slice, 0, len(rows))
	total := 0.0
	for _, r := range rows {
		out = append(out, svg.Slice{Label: r.Segment, Value: r.Revenue})
		total += math.Max(r.Revenue, 0)
	}
	if total <= 0 {
		return nil
	}
	return out
}

func choices(values []string, selected string) []Option {
	out := make([]Option, 0, len(values)+1)
	out = append(out, Option{Value: "", Label: "All", Selected: selected == ""})
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v, Selected: v == selected})
	}
	return out
}

func items(in []insights.Insight) []InsightItem {
	out := make([]InsightItem, 0, len(in))
	for _, i := range in {
		out = append(out, InsightItem{Kind: string(i.Kind), Message: i.Message})
	}
	return out
}

func actions(in []insights.RecommendedAction) []ActionItem {
	out := make([]ActionItem, 0, len(in))
	for _, a := range in {
		out = append(out, ActionItem{Priority: string(a.Priority), Action: a.Action, Impact: a.Impact, Timeframe: a.Timeframe})
	}
	return out
}

func categoryRows(f format.Formatter, rows []insights.CategoryBreakdown, tiers insights.TierRules) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, BreakdownRow{
			Name:      r.Category,
			Revenue:   f.Currency(r.Revenue),
			Profit:    f.Currency(r.Profit),
			Margin:    f.Percent(r.MarginPct),
			Customers: f.Number(float64(r.Customers)),
			Color:     insights.CategoryMarginTier(r.MarginPct, tiers).Color(),
		})
	}
	return out
}

func regionRows(f format.Formatter, rows []insights.RegionBreakdown) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, BreakdownRow{
			Name:      r.Region,
			Revenue:   f.Currency(r.Revenue),
			Profit:    f.Currency(r.Profit),
			Margin:    f.Percent(r.MarginPct),
			Customers: f.Number(float64(r.Customers)),
		})
	}
	return out
}

func segmentRows(f format.Formatter, rows []insights.SegmentBreakdown) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, BreakdownRow{
			Name:      r.Segment,
			Revenue:   f.Currency(r.Revenue),
			Profit:    f.Currency(r.Profit),
			Margin:    f.Percent(r.MarginPct),
			Customers: f.Number(float64(r.Customers)),
		})
	}
	return out
}

func clientRows(f format.Formatter, rows []insights.ClientRecord) []RankRow {
	out := make([]RankRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankRow{Name: r.Name, Revenue: f.Currency(r.Revenue)})
	}
	return out
}

func productRows(f format.Formatter, rows []insights.ProductRecord) []RankRow {
	out := make([]RankRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankRow{
			Name:     svg.Truncate(r.Product, svg.MaxLabelRunes),
			Revenue:  f.Currency(r.Revenue),
			Profit:   f.Currency(r.Profit),
			Quantity: f.Number(float64(r.Quantity)),
		})
	}
	return out
}

func opportunityLabel(o insights.Opportunity) string {
	switch o {
	case insights.OpportunityUpsell:
		return "Upsell potential"
	case insights.OpportunityPremium:
		return "Premium customers"
	default:
		return "Standard"
	}
}
