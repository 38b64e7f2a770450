package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus collectors for the dashboard. They are usable before Register;
// registration only exposes them on /metrics.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freightdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	SourceLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdash_source_loads_total",
			Help: "Order source reads by result",
		},
		[]string{"result"},
	)

	SourceRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "freightdash_source_records",
			Help: "Order records in the current table",
		},
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdash_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

// Register registers all collectors with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequestsTotal)
	reg.MustRegister(HTTPRequestDuration)
	reg.MustRegister(SourceLoadsTotal)
	reg.MustRegister(SourceRecords)
	reg.MustRegister(LoginAttemptsTotal)
}
