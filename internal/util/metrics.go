package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders committed together with their shipment",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of order placements that left no rows behind",
	}, []string{"reason"})

	ShippingQuoteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipping_quote_latency_seconds",
		Help:    "Latency of shipping cost quotes as seen by the order workflow",
		Buckets: prometheus.DefBuckets,
	})

	RateProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_provider_requests_total",
		Help: "Requests sent to the shipping rate provider",
	}, []string{"operation", "status"})

	RateProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rate_provider_latency_seconds",
		Help:    "Round-trip latency of shipping rate provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	EventPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_publish_failed_total",
		Help: "Domain events that could not be published",
	}, []string{"event_type"})

	RateLimitedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"path"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
