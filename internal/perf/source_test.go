package perf

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

// monthlySource serves four years of synthetic monthly figures.
type monthlySource struct {
	failing atomic.Bool
}

func (s *monthlySource) Info(context.Context) (insights.DatasetInfo, error) {
	return insights.DatasetInfo{Dataset: "Superstore", Rows: 9994,
		Period: insights.DatasetPeriod{Start: "2020-01-03", End: "2023-12-30"}}, nil
}

func (s *monthlySource) FilterOptions(context.Context) (insights.FilterOptions, error) {
	return insights.FilterOptions{
		Dates:      insights.DateRange{Min: "2020-01-03", Max: "2023-12-30"},
		Regions:    []string{"Central", "East", "South", "West"},
		Segments:   []string{"Consumer", "Corporate", "Home Office"},
		Categories: []string{"Furniture", "Office Supplies", "Technology"},
	}, nil
}

func (s *monthlySource) GlobalKPIs(context.Context, kpiapi.Filter) (insights.GlobalSnapshot, error) {
	if s.failing.Load() {
		return insights.GlobalSnapshot{}, &kpiapi.HTTPError{Endpoint: "/kpi/global", Status: 500}
	}
	return insights.GlobalSnapshot{
		Revenue: 2_297_201, Profit: 286_397, AverageMargin: 12.47,
		Orders: 5009, Customers: 793, Quantity: 37_873, AverageBasket: 458.6,
	}, nil
}

func (s *monthlySource) TimeSeries(context.Context, string) ([]insights.TimeSeriesPoint, error) {
	points := make([]insights.TimeSeriesPoint, 0, 48)
	for i := 0; i < 48; i++ {
		revenue := 30_000 + float64(i)*450
		points = append(points, insights.TimeSeriesPoint{
			Period:  fmt.Sprintf("%d-%02d", 2020+i/12, i%12+1),
			Revenue: revenue,
			Profit:  revenue * 0.12,
		})
	}
	return points, nil
}

func (s *monthlySource) Categories(context.Context) ([]insights.CategoryBreakdown, error) {
	return []insights.CategoryBreakdown{
		{Category: "Technology", Revenue: 836_154, Profit: 145_455},
		{Category: "Furniture", Revenue: 741_999, Profit: 18_451},
		{Category: "Office Supplies", Revenue: 719_047, Profit: 122_490},
	}, nil
}

func (s *monthlySource) Regions(context.Context) ([]insights.RegionBreakdown, error) {
	return []insights.RegionBreakdown{
		{Region: "West", Revenue: 725_457, Profit: 108_418},
		{Region: "East", Revenue: 678_781, Profit: 91_522},
		{Region: "Central", Revenue: 501_239, Profit: 39_706},
		{Region: "South", Revenue: 391_721, Profit: 46_749},
	}, nil
}

func (s *monthlySource) Clients(_ context.Context, limit int) (insights.ClientsReport, error) {
	clients := make([]insights.ClientRecord, 0, limit)
	for i := 0; i < limit; i++ {
		clients = append(clients, insights.ClientRecord{Name: fmt.Sprintf("Client %02d", i), Revenue: float64(25_000 - i*500)})
	}
	return insights.ClientsReport{
		TopClients: clients,
		Recurrence: insights.RecurrenceStats{TotalCustomers: 793, RecurringCustomers: 781, AverageOrders: 6.3},
	}, nil
}

func (s *monthlySource) TopProducts(_ context.Context, limit int, _ string) ([]insights.ProductRecord, error) {
	products := make([]insights.ProductRecord, 0, limit)
	for i := 0; i < limit; i++ {
		products = append(products, insights.ProductRecord{Product: fmt.Sprintf("Product %02d", i), Revenue: float64(60_000 - i*2_000)})
	}
	return products, nil
}

func newCachedService(tb testing.TB, source analytics.Source) *analytics.Service {
	tb.Helper()
	mr := miniredis.RunT(tb)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tb.Cleanup(func() { _ = client.Close() })
	return analytics.NewService(source, analytics.NewCache(client, time.Minute), nil, nil)
}
