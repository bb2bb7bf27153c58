package perf

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/superstore-bi/superstore-bi/internal/analytics"
	"github.com/superstore-bi/superstore-bi/internal/insights"
	"github.com/superstore-bi/superstore-bi/internal/kpiapi"
)

func TestDashboardLatencyTargets(t *testing.T) {
	source := &monthlySource{}
	svc := newCachedService(t, source)
	ctx := context.Background()

	var cold, cached []time.Duration
	for i := 0; i < 10; i++ {
		if _, err := svc.Bump(ctx); err != nil {
			t.Fatalf("bump: %v", err)
		}
		cold = append(cold, timeLoad(t, svc))
		cached = append(cached, timeLoad(t, svc))
	}

	scenarios := []struct {
		name      string
		samples   []time.Duration
		threshold time.Duration
	}{
		{name: "cached", samples: cached, threshold: 500 * time.Millisecond},
		{name: "cold", samples: cold, threshold: 2 * time.Second},
	}
	for _, scenario := range scenarios {
		p95 := percentile95(scenario.samples)
		if p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func BenchmarkLoadExecutiveCached(b *testing.B) {
	svc := newCachedService(b, &monthlySource{})
	ctx := context.Background()
	if _, err := svc.LoadExecutive(ctx, analytics.Selection{}); err != nil {
		b.Fatalf("prime cache: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.LoadExecutive(ctx, analytics.Selection{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalyze(b *testing.B) {
	source := &monthlySource{}
	ctx := context.Background()
	snapshot, _ := source.GlobalKPIs(ctx, kpiapi.Filter{})
	series, _ := source.TimeSeries(ctx, "month")
	clients, _ := source.Clients(ctx, 10)
	profile := insights.ExecutiveProfile()
	in := insights.Input{Snapshot: snapshot, Series: series, Clients: clients}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = insights.Analyze(profile, in)
	}
}

func timeLoad(t *testing.T, svc *analytics.Service) time.Duration {
	t.Helper()
	start := time.Now()
	if _, err := svc.LoadExecutive(context.Background(), analytics.Selection{}); err != nil {
		t.Fatalf("load executive: %v", err)
	}
	return time.Since(start)
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
