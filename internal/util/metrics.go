package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders submitted successfully",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of admin order status updates",
	}, []string{"status"})

	CatalogFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fallbacks_total",
		Help: "Times the catalog fell back to the snapshot or seed",
	}, []string{"source"})

	CatalogMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_mutations_total",
		Help: "Total number of admin catalog mutations",
	}, []string{"op"})

	AdviceRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advice_requests_total",
		Help: "Total number of advice chat requests",
	})

	AdviceFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advice_fallbacks_total",
		Help: "Advice requests answered with the static fallback",
	})

	AdviceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advice_latency_seconds",
		Help:    "Latency of generation service calls",
		Buckets: prometheus.DefBuckets,
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_sessions",
		Help: "Number of live storefront sessions",
	})

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
