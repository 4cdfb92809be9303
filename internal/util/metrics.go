package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of successful add-to-cart operations",
	})

	StockRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_stock_rejections_total",
		Help: "Total number of cart mutations rejected by the stock ceiling",
	})

	CheckoutsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_started_total",
		Help: "Total number of checkout attempts that reached the payment step",
	})

	CheckoutsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_cancelled_total",
		Help: "Total number of checkouts cancelled at the payment widget",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of orders confirmed by the commerce API",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	CommerceRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commerce_request_latency_seconds",
		Help:    "Latency of commerce API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	CommerceRequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commerce_request_errors_total",
		Help: "Total number of commerce API calls that failed to resolve",
	}, []string{"action"})

	PaymentVerifyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_verify_latency_seconds",
		Help:    "Latency of payment reference verification",
		Buckets: prometheus.DefBuckets,
	})

	ReceiptsPersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_persisted_total",
		Help: "Total number of order receipts written by the receipt worker",
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
