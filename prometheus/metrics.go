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
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Note operation counter
	NoteOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of note operations",
		},
		[]string{"operation"}, // operation can be "create", "list", "get", "update", "delete"
	)

	// Tenant operation counter
	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"}, // operation can be "upgrade", "invite"
	)

	// Plan limit counter
	PlanLimitCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_plan_limit_hits_total",
			Help: "Total number of note creations rejected by the free plan limit",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "forbidden" etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_db_operation_duration_seconds",
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
			Name: "notes_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// Notes per tenant
	NotesPerTenantGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notes_per_tenant",
			Help: "Number of notes per tenant",
		},
		[]string{"tenant_slug"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(NoteOperationCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(PlanLimitCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(NotesPerTenantGauge)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordNoteOperation increments the note operation counter
func RecordNoteOperation(operation string) {
	NoteOperationCounter.WithLabelValues(operation).Inc()
}

// RecordTenantOperation increments the tenant operation counter
func RecordTenantOperation(operation string) {
	TenantOperationCounter.WithLabelValues(operation).Inc()
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

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)

			return err
		}
	}
}
