package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_keeper_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"route"},
	)

	errorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_keeper_request_errors_total",
			Help: "HTTP requests answered with status >= 400",
		},
		[]string{"route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "module_keeper_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	actionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_action_total",
			Help: "Module actions dispatched, by action and result",
		},
		[]string{"action", "result"},
	)

	// prometheus counters cannot be read back cheaply, healthz uses these
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(errorCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(actionCount)
}

// IncrementRequestCount counts one request on route
func IncrementRequestCount(route string) {
	requestCount.WithLabelValues(route).Inc()
	totalRequests.Add(1)
}

// IncrementErrorCount counts one failed request on route
func IncrementErrorCount(route string) {
	errorCount.WithLabelValues(route).Inc()
	totalErrors.Add(1)
}

// RecordRequestDuration observes the handling time of a request in seconds
func RecordRequestDuration(route string, seconds float64) {
	requestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordAction counts a dispatched module action; result is "ok" or an error code
func RecordAction(action, result string) {
	actionCount.WithLabelValues(action, result).Inc()
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}
