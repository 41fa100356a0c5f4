// Package metrics exports navigation counters and timings to Prometheus.
package metrics

import (
	router "github.com/goliatone/go-spa-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "spa_router").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:   "spa_router",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// UnmatchedRoute is the route label of navigations no record matched.
const UnmatchedRoute = "unmatched"

// Collector records settled navigations.
type Collector struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	errors      prometheus.Counter
}

// New registers the collector metrics with the configured registry.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of settled navigations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time from navigation start to settle in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of navigations that failed with an error",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Attach subscribes the collector to r. The returned func detaches it.
func (c *Collector) Attach(r *router.Router) func() {
	return r.OnSettled(c.Observe)
}

// Observe records one settled navigation.
func (c *Collector) Observe(result router.NavigationResult) {
	route := routeLabel(result.To)
	c.navigations.WithLabelValues(route, result.Outcome).Inc()
	c.duration.WithLabelValues(route).Observe(result.Duration.Seconds())
	if result.Outcome == router.OutcomeError {
		c.errors.Inc()
	}
}

// routeLabel uses the record path pattern, not the concrete path, to keep
// label cardinality bounded.
func routeLabel(to *router.Route) string {
	if to == nil || !to.IsMatched() {
		return UnmatchedRoute
	}
	return to.Record().Path()
}
