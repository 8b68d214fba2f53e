package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled requests by route and status.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// requestDuration measures handler latency.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fintrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// authAttempts counts register/login/reset outcomes.
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fintrack",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the auth rate limiter",
		},
		[]string{"route"},
	)
)

// recordAuth records the outcome of an auth operation.
func recordAuth(operation string, err error) {
	outcome := "success"
	if err != nil {
		status, _ := errorResponse(err)
		switch status {
		case 400:
			outcome = "invalid"
		case 401:
			outcome = "denied"
		case 404:
			outcome = "not_found"
		case 409:
			outcome = "conflict"
		default:
			outcome = "error"
		}
	}
	authAttempts.WithLabelValues(operation, outcome).Inc()
}
