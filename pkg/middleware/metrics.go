package middleware

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/oven-ttta/oven-framework/pkg/router"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "oven").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "oven",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	inFlight        prometheus.Gauge
	reloadsTotal    *prometheus.CounterVec
	routes          prometheus.Gauge
	buildProblems   prometheus.Gauge
}

// globalMetrics is created on the first call to Prometheus. Metrics can
// be registered only once per registry, so later calls share it.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of requests whose handler returned an error",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_in_flight",
			Help:        "Number of requests currently being handled",
			ConstLabels: config.ConstLabels,
		}),

		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_total",
			Help:        "Total number of route tree rebuilds by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of routes in the active route table",
			ConstLabels: config.ConstLabels,
		}),

		buildProblems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_problems",
			Help:        "Number of problems reported by the last route tree build",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects request metrics.
//
// Metrics collected:
//   - oven_requests_total: Counter of requests by method, route and status
//   - oven_request_duration_seconds: Histogram of request duration
//   - oven_request_errors_total: Counter of handler errors by route and error type
//   - oven_requests_in_flight: Gauge of requests being handled
//   - oven_reloads_total: Counter of route rebuilds (when RecordReload is called)
//   - oven_routes: Gauge of active routes (when RecordRoutes is called)
//   - oven_build_problems: Gauge of build problems (when RecordRoutes is called)
//
// A request whose handler returns an error is counted with status 500,
// the status the dispatcher answers with.
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(ctx *server.Ctx, next router.Next) (*server.Response, error) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		resp, err := next()

		route := ctx.Route()
		if route == "" {
			route = unmatchedRoute
		}
		m.requestDuration.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())

		status := statusOf(resp, err)
		if err != nil {
			m.requestErrors.WithLabelValues(route, categorizeError(err)).Inc()
		}
		m.requestsTotal.WithLabelValues(ctx.Method(), route, strconv.Itoa(status)).Inc()

		return resp, err
	})
}

// statusOf returns the status the client will receive.
func statusOf(resp *server.Response, err error) int {
	switch {
	case err != nil:
		return 500
	case resp == nil:
		return 204
	case resp.Status == 0:
		return 200
	default:
		return resp.Status
	}
}

// categorizeError maps an error to a low-cardinality label.
func categorizeError(err error) string {
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "timeout"
	case strings.Contains(errStr, "canceled"):
		return "canceled"
	case strings.Contains(errStr, "not found"):
		return "not_found"
	case strings.Contains(errStr, "unauthorized"):
		return "unauthorized"
	case strings.Contains(errStr, "forbidden"):
		return "forbidden"
	case strings.Contains(errStr, "validation"), strings.Contains(errStr, "invalid"):
		return "validation"
	case strings.Contains(errStr, "panic"):
		return "panic"
	default:
		return "internal"
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordReload records a route tree rebuild. Call it with the results of
// App.Reload.
func RecordReload(changed bool, err error) {
	m := loadMetrics()
	if m == nil {
		return
	}
	result := "unchanged"
	switch {
	case err != nil:
		result = "failed"
	case changed:
		result = "changed"
	}
	m.reloadsTotal.WithLabelValues(result).Inc()
}

// RecordRoutes records the size of the active route table and the number
// of problems found while building it.
func RecordRoutes(routes, problems int) {
	if m := loadMetrics(); m != nil {
		m.routes.Set(float64(routes))
		m.buildProblems.Set(float64(problems))
	}
}

func loadMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the collectors behind the middleware so they can be
// inspected or registered alongside other application metrics.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec
	InFlight        prometheus.Gauge
	ReloadsTotal    *prometheus.CounterVec
	Routes          prometheus.Gauge
	BuildProblems   prometheus.Gauge
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		RequestsTotal:   globalMetrics.requestsTotal,
		RequestDuration: globalMetrics.requestDuration,
		RequestErrors:   globalMetrics.requestErrors,
		InFlight:        globalMetrics.inFlight,
		ReloadsTotal:    globalMetrics.reloadsTotal,
		Routes:          globalMetrics.routes,
		BuildProblems:   globalMetrics.buildProblems,
	}
}
