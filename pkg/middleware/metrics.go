package middleware

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/ovan/internal/errors"
	"github.com/vango-dev/ovan/pkg/overlay"
)

// MetricsConfig configures the Prometheus metrics middleware. The
// collectors are process-wide: only the config of the first Prometheus call
// takes effect.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ovan").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
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

// WithRegistry sets the Prometheus registry. It has no effect once an
// earlier Prometheus call has registered the collectors elsewhere.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "ovan",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchErrors   *prometheus.CounterVec
	overlays         *prometheus.GaugeVec
	overlaysOpen     *prometheus.GaugeVec
}

// globalMetrics is created on the first call to Prometheus. Later calls
// share it, since a registry rejects a second collector with the same name.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of overlay actions dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"system", "action", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Overlay dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"system", "action"}),

		dispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_errors_total",
			Help:        "Total number of failed overlay dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"system", "action", "code"}),

		overlays: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlays",
			Help:        "Number of registered overlays",
			ConstLabels: config.ConstLabels,
		}, []string{"system"}),

		overlaysOpen: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlays_open",
			Help:        "Number of open overlays",
			ConstLabels: config.ConstLabels,
		}, []string{"system"}),
	}
}

// Prometheus creates middleware that records every dispatch.
//
// The first call registers the collectors with its Registry using its
// Namespace, Subsystem, ConstLabels and Buckets. Every later call, for any
// system, records into those same collectors and ignores its own options.
// Systems are told apart by the "system" label.
//
// Status is "changed" when the registry moved, "noop" when the action was
// ignored, and "error" when it failed.
func Prometheus(opts ...MetricsOption) overlay.Middleware {
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

	return overlay.MiddlewareFunc(func(dc *overlay.DispatchContext, next func() error) error {
		system := dc.Namespace
		action := dc.Action.Type.String()

		start := time.Now()
		err := next()
		m.dispatchDuration.WithLabelValues(system, action).Observe(time.Since(start).Seconds())

		status := "noop"
		switch {
		case err != nil:
			status = "error"
			m.dispatchErrors.WithLabelValues(system, action, errorCode(err)).Inc()
		case dc.Changed():
			status = "changed"
			m.overlays.WithLabelValues(system).Set(float64(dc.Next.Len()))
			m.overlaysOpen.WithLabelValues(system).Set(float64(len(dc.Next.OpenIDs())))
		}
		m.dispatchTotal.WithLabelValues(system, action, status).Inc()

		return err
	})
}

// errorCode returns a low-cardinality label for err.
func errorCode(err error) string {
	var oe *errors.OverlayError
	if stderrors.As(err, &oe) && oe.Code != "" {
		return oe.Code
	}
	return "internal"
}

// Collector exposes the metrics for custom registrations and tests.
type Collector struct {
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	DispatchErrors   *prometheus.CounterVec
	Overlays         *prometheus.GaugeVec
	OverlaysOpen     *prometheus.GaugeVec
}

// GetMetrics returns the global metrics, or nil if Prometheus has not been
// called yet.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		DispatchTotal:    globalMetrics.dispatchTotal,
		DispatchDuration: globalMetrics.dispatchDuration,
		DispatchErrors:   globalMetrics.dispatchErrors,
		Overlays:         globalMetrics.overlays,
		OverlaysOpen:     globalMetrics.overlaysOpen,
	}
}
