package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equipment_status_transitions_total",
			Help: "Committed equipment status transitions by target status",
		},
		[]string{"status"},
	)

	StatusTransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equipment_status_transitions_rejected_total",
			Help: "Rejected equipment status transitions by denial reason",
		},
		[]string{"reason"},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Payments recorded by derived payment status",
		},
		[]string{"payment_status"},
	)
)
