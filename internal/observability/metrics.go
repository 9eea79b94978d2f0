package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	reportRequestsTotal  *prometheus.CounterVec
	reportLatencySeconds *prometheus.HistogramVec
	reportErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the reporting endpoints.
func RegisterMetrics() {
	registerOnce.Do(func() {
		reportRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_requests_total",
			Help: "Total number of report API requests served.",
		}, []string{"method", "route", "status"})

		reportLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_latency_seconds",
			Help:    "Latency distribution for report API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reportErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_errors_total",
			Help: "Total number of error responses returned by report endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(reportRequestsTotal, reportLatencySeconds, reportErrorsTotal)
	})
}

// ReportRequests exposes the counter for report requests.
func ReportRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reportRequestsTotal
}

// ReportLatency exposes the latency histogram for report requests.
func ReportLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reportLatencySeconds
}

// ReportErrors exposes the counter for report error responses.
func ReportErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return reportErrorsTotal
}
