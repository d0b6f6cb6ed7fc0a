package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"storefront-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes metric names until InitMetrics is called
const DefaultNamespace = "storefront"

var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter *prometheus.CounterVec

	// Order workflow operations, e.g. "create", "confirm", "status", "delete"
	OrderOperationsCounter *prometheus.CounterVec

	CatalogOperationsCounter *prometheus.CounterVec

	// Notifications by audience ("admin", "customer") and result
	NotificationCounter *prometheus.CounterVec

	AuthErrorCounter *prometheus.CounterVec

	RequestDuration     *prometheus.HistogramVec
	DBOperationDuration *prometheus.HistogramVec

	ProductInventoryGauge *prometheus.GaugeVec

	mu         sync.RWMutex
	namespace  string
	collectors []prometheus.Collector
)

func init() {
	register(DefaultNamespace)
}

// InitMetrics registers all metrics under the configured prefix
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix
	if prefix == "" {
		prefix = DefaultNamespace
	}
	register(prefix)
}

// Namespace returns the prefix metrics are currently registered under
func Namespace() string {
	mu.RLock()
	defer mu.RUnlock()
	return namespace
}

func register(ns string) {
	mu.Lock()
	defer mu.Unlock()

	for _, c := range collectors {
		prometheus.Unregister(c)
	}
	namespace = ns

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	OrderOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "order_operations_total",
			Help:      "Total number of order operations by outcome",
		},
		[]string{"operation", "result"},
	)

	CatalogOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "catalog_operations_total",
			Help:      "Total number of catalog operations",
		},
		[]string{"entity", "operation"},
	)

	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "notifications_total",
			Help:      "Total number of outbound notifications",
		},
		[]string{"audience", "result"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "auth_errors_total",
			Help:      "Total number of authentication errors",
		},
		[]string{"type"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ProductInventoryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "product_inventory",
			Help:      "Current stock level for products",
		},
		[]string{"product_id"},
	)

	collectors = []prometheus.Collector{
		HTTPRequestCounter,
		OrderOperationsCounter,
		CatalogOperationsCounter,
		NotificationCounter,
		AuthErrorCounter,
		RequestDuration,
		DBOperationDuration,
		ProductInventoryGauge,
	}
	prometheus.MustRegister(collectors...)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func() {
	start := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{"operation": operation}).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware captures request counts and durations
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			labels := prometheus.Labels{
				"endpoint": c.Path(),
				"method":   c.Request().Method,
				"status":   strconv.Itoa(c.Response().Status),
			}
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.With(labels).Inc()

			return err
		}
	}
}

// RecordOrderOperation counts an order workflow operation
func RecordOrderOperation(operation, result string) {
	OrderOperationsCounter.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
}

// RecordCatalogOperation counts a catalog mutation
func RecordCatalogOperation(entity, operation string) {
	CatalogOperationsCounter.With(prometheus.Labels{"entity": entity, "operation": operation}).Inc()
}

// RecordNotification counts a notification attempt
func RecordNotification(audience string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	NotificationCounter.With(prometheus.Labels{"audience": audience, "result": result}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// UpdateProductInventory sets the stock gauge for a product
func UpdateProductInventory(productID uint, stock int) {
	ProductInventoryGauge.With(prometheus.Labels{
		"product_id": strconv.FormatUint(uint64(productID), 10),
	}).Set(float64(stock))
}
