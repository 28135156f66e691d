package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensorhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Ingestion metrics
	ReadingsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_readings_ingested_total",
			Help: "Total number of readings received",
		},
		[]string{"status"}, // status: accepted, rejected, failed
	)

	AlertsFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorhub_alerts_fired_total",
			Help: "Total number of alerts created by rule evaluation",
		},
	)

	// Auth metrics
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_auth_failures_total",
			Help: "Total number of rejected credentials",
		},
		[]string{"kind"}, // kind: device_key, bearer, login
	)
)
