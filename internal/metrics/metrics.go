package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	IdentityRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_identity_requests_total",
			Help: "Total number of requests sent to the identity provider",
		},
		[]string{"code", "method"},
	)

	IdentityRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_identity_request_duration_seconds",
			Help:    "Identity provider request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"code", "method"},
	)

	IdentityRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_identity_requests_in_flight",
			Help: "Current number of requests to the identity provider",
		},
	)

	PageRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_page_renders_total",
			Help: "Total number of session page renders by the view shown",
		},
		[]string{"outcome"},
	)

	PageLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_page_load_errors_total",
			Help: "Total number of failed page load steps",
		},
		[]string{"step"},
	)
)
