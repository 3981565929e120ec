package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ordersPlacedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	orderStatusChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_order_status_changes_total",
			Help: "Order status transitions by target status",
		},
		[]string{"status"},
	)

	reviewsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_reviews_submitted_total",
			Help: "Total number of product reviews submitted",
		},
	)

	messagesReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_messages_received_total",
			Help: "Total number of contact messages received",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(ordersPlacedTotal)
	prometheus.MustRegister(orderStatusChangesTotal)
	prometheus.MustRegister(reviewsSubmittedTotal)
	prometheus.MustRegister(messagesReceivedTotal)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordOrderPlaced() {
	ordersPlacedTotal.Inc()
}

func RecordOrderStatusChange(status string) {
	orderStatusChangesTotal.WithLabelValues(status).Inc()
}

func RecordReviewSubmitted() {
	reviewsSubmittedTotal.Inc()
}

func RecordMessageReceived() {
	messagesReceivedTotal.Inc()
}
