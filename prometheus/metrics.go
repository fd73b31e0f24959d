package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Booking lifecycle counter
	BookingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_booking_operations_total",
			Help: "Total number of booking operations",
		},
		[]string{"operation"}, // operation can be "create", "cancel", "confirm", "reject"
	)

	// Listing operation counter
	ListingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_listing_operations_total",
			Help: "Total number of listing operations",
		},
		[]string{"operation"}, // operation can be "create", "update", "delete", "view", "search"
	)

	// Review counter
	ReviewCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_reviews_total",
			Help: "Total number of reviews created",
		},
	)

	// Email dispatch counter
	EmailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_emails_total",
			Help: "Total number of notification emails by outcome",
		},
		[]string{"kind", "outcome"}, // outcome is "sent", "failed" or "skipped"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_token", "role_denied", "db_error" etc.
	)

	ValidationErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_validation_errors_total",
			Help: "Total number of business rule violations",
		},
		[]string{"resource"}, // resource can be "listing", "booking", "review"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rental_info",
			Help: "Information about the rental service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(BookingCounter)
	prometheus.MustRegister(ListingCounter)
	prometheus.MustRegister(ReviewCounter)
	prometheus.MustRegister(EmailCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ValidationErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordValidationError records a business rule violation by resource
func RecordValidationError(resource string) {
	ValidationErrorCounter.With(prometheus.Labels{"resource": resource}).Inc()
}

// RecordBookingOperation records a booking lifecycle operation
func RecordBookingOperation(operation string) {
	BookingCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordListingOperation records a listing operation
func RecordListingOperation(operation string) {
	ListingCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordEmail records an email dispatch outcome
func RecordEmail(kind, outcome string) {
	EmailCounter.With(prometheus.Labels{"kind": kind, "outcome": outcome}).Inc()
}
