package kpiapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records upstream calls per endpoint and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "superstore_kpi_api_requests_total",
		Help: "KPI API calls partitioned by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "superstore_kpi_api_request_duration_seconds",
		Help:    "KPI API call latency per endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(requests, duration)
	return &Metrics{requests: requests, duration: duration}
}

func (m *Metrics) observe(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = Classify(err)
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
