package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medimarket"

// Payment verification outcomes
const (
	OutcomeVerified         = "verified"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeUnknownOrder     = "unknown_order"
	OutcomeError            = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route template and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	PaymentVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_verifications_total",
		Help:      "Gateway payment confirmations by outcome.",
	}, []string{"outcome"})

	OrdersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders created, by the flow that created them.",
	}, []string{"flow"})

	SearchFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "medicine_search_fallbacks_total",
		Help:      "Catalog searches answered by the database because the search index failed.",
	})
)
