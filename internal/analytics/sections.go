package analytics

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

// SeriesGranularity is the time series granularity requested by the dashboards.
const SeriesGranularity = "mois"

// FilterChoices are the filter values offered to the user. Degraded is set
// when the KPI API could not provide them and the built-in defaults are used.
type FilterChoices struct {
	Options  insights.FilterOptions `json:"options"`
	Degraded bool                   `json:"degraded"`
}

// DefaultFilterOptions are the Superstore filter values used when the KPI API
// cannot list them.
func DefaultFilterOptions() insights.FilterOptions {
	return insights.FilterOptions{
		Dates:      insights.DateRange{Min: "2020-01-01", Max: "2023-12-31"},
		Regions:    []string{"Central", "East", "South", "West"},
		Segments:   []string{"Consumer", "Corporate", "Home Office"},
		Categories: []string{"Furniture", "Office Supplies", "Technology"},
	}
}

// Info returns the dataset description.
func (s *Service) Info(ctx context.Context) (insights.DatasetInfo, error) {
	return fetch(ctx, s, s.source.Info, "info")
}

// FilterOptions never fails: on any error the defaults are returned flagged
// as degraded.
func (s *Service) FilterOptions(ctx context.Context) FilterChoices {
	options, err := fetch(ctx, s, s.source.FilterOptions, "filters")
	if err != nil {
		s.logger.Warn("filter options unavailable, using defaults",
			slog.String("kind", kpiapi.Classify(err)), slog.Any("error", err))
		return FilterChoices{Options: DefaultFilterOptions(), Degraded: true}
	}
	return FilterChoices{Options: options}
}

// GlobalKPIs returns the headline KPIs for filter.
func (s *Service) GlobalKPIs(ctx context.Context, filter kpiapi.Filter) (insights.GlobalSnapshot, error) {
	return fetch(ctx, s, func(ctx context.Context) (insights.GlobalSnapshot, error) {
		return s.source.GlobalKPIs(ctx, filter)
	}, "global", filter.Key())
}

// TimeSeries returns the revenue series.
func (s *Service) TimeSeries(ctx context.Context, granularity string) ([]insights.TimeSeriesPoint, error) {
	return fetch(ctx, s, func(ctx context.Context) ([]insights.TimeSeriesPoint, error) {
		return s.source.TimeSeries(ctx, granularity)
	}, "series", granularity)
}

// Categories returns the per-category breakdown sorted by revenue.
func (s *Service) Categories(ctx context.Context) ([]insights.CategoryBreakdown, error) {
	rows, err := fetch(ctx, s, s.source.Categories, "categories")
	if err != nil {
		return nil, err
	}
	return insights.SortByRevenue(rows, func(c insights.CategoryBreakdown) float64 { return c.Revenue }), nil
}

// Regions returns the per-region breakdown sorted by revenue.
func (s *Service) Regions(ctx context.Context) ([]insights.RegionBreakdown, error) {
	rows, err := fetch(ctx, s, s.source.Regions, "regions")
	if err != nil {
		return nil, err
	}
	return insights.SortByRevenue(rows, func(r insights.RegionBreakdown) float64 { return r.Revenue }), nil
}

// Clients returns the top clients ranked by revenue with recurrence and
// segment data.
func (s *Service) Clients(ctx context.Context, limit int) (insights.ClientsReport, error) {
	report, err := fetch(ctx, s, func(ctx context.Context) (insights.ClientsReport, error) {
		return s.source.Clients(ctx, limit)
	}, "clients", strconv.Itoa(limit))
	if err != nil {
		return insights.ClientsReport{}, err
	}
	report.TopClients = insights.TopClients(report.TopClients, limit)
	report.Recurrence = report.Recurrence.Normalized()
	return report, nil
}

// TopProducts returns the best products as ranked by the API.
func (s *Service) TopProducts(ctx context.Context, limit int, sortBy string) ([]insights.ProductRecord, error) {
	return fetch(ctx, s, func(ctx context.Context) ([]insights.ProductRecord, error) {
		return s.source.TopProducts(ctx, limit, sortBy)
	}, "products", strconv.Itoa(limit), sortBy)
}
