package perf

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/superstore-bi/superstore-bi/internal/jobs"
	"github.com/superstore-bi/superstore-bi/jobs"
)

func TestCacheWarmupThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	source := &monthlySource{}
	job := jobs.NewCacheWarmupJob(newCachedService(t, source), nil, jobmetrics.NewMetrics(reg))
	task, err := jobs.NewCacheWarmupTask("perf")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if err := job.Handle(ctx, task); err != nil {
			t.Fatalf("warmup %d: %v", i, err)
		}
	}

	// A couple of upstream failures must be recorded, not swallowed.
	source.failing.Store(true)
	for i := 0; i < 2; i++ {
		if err := job.Handle(ctx, task); err == nil {
			t.Fatal("expected error to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	labels := map[string]string{"job": jobs.TaskCacheWarmup, "status": "success"}
	success := metricValue(t, families, "superstore_jobs_total", labels)
	labels["status"] = "failure"
	failure := metricValue(t, families, "superstore_jobs_total", labels)
	if success != 30 || failure != 2 {
		t.Fatalf("unexpected run counts: success=%v failure=%v", success, failure)
	}
	if ratio := success / (success + failure); ratio < 0.9 {
		t.Fatalf("warmup success ratio too low: %f", ratio)
	}

	mean := histogramMean(t, families, "superstore_job_duration_seconds", map[string]string{"job": jobs.TaskCacheWarmup})
	if mean > 2.0 {
		t.Fatalf("warmup duration above budget: %f", mean)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				switch fam.GetType() {
				case dto.MetricType_COUNTER:
					return metric.GetCounter().GetValue()
				case dto.MetricType_GAUGE:
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, lp := range metric.GetLabel() {
		val, ok := labels[lp.GetName()]
		if !ok {
			continue
		}
		if lp.GetValue() != val {
			return false
		}
		matched++
	}
	return matched == len(labels)
}
