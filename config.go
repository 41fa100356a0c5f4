package router

import (
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Mode selects the history backend.
type Mode string

const (
	ModeHash     Mode = "hash"
	ModeHistory  Mode = "history"
	ModeAbstract Mode = "abstract"
)

func (m Mode) String() string {
	return string(m)
}

// Config configures a Router. Zero fields take the values of DefaultConfig.
type Config struct {
	Mode           Mode             `yaml:"mode"`
	Base           string           `yaml:"base"`
	NoFallback     bool             `yaml:"no_fallback"`
	Routes         []RouteConfig    `yaml:"-"`
	ScrollBehavior ScrollBehavior   `yaml:"-"`
	ParseQuery     QueryParser      `yaml:"-"`
	StringifyQuery QueryStringifier `yaml:"-"`
	Logger         Logger           `yaml:"-"`

	// Browser is required by the hash and history modes. Without one the
	// router runs in abstract mode.
	Browser Browser `yaml:"-"`

	// AfterRender schedules fn once the view reflects the new route. Scroll
	// behaviors run from it.
	AfterRender func(fn func())  `yaml:"-"`
	Tracer      trace.Tracer     `yaml:"-"`
	Clock       func() time.Time `yaml:"-"`
	IDGenerator func() string    `yaml:"-"`
}

// Option mutates the configuration passed to New.
type Option func(*Config)

// DefaultConfig returns the values used for every zero Config field.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeHash,
		Base:           "/",
		ParseQuery:     ParseQuery,
		StringifyQuery: StringifyQuery,
		Logger:         &defaultLogger{},
		AfterRender:    func(fn func()) { fn() },
		Tracer:         defaultTracer(),
		Clock:          time.Now,
		IDGenerator:    uuid.NewString,
	}
}

func configDefault(cfg Config, opts ...Option) (Config, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return cfg, NewRouteConfigError(TextCodeRouteConfigInvalid, "failed to apply default router config: "+err.Error(), nil)
	}
	return cfg, nil
}

// WithRoutes appends route definitions.
func WithRoutes(routes ...RouteConfig) Option {
	return func(c *Config) {
		c.Routes = append(c.Routes, routes...)
	}
}

// WithMode selects the history backend.
func WithMode(mode Mode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithBase sets the base path the application is served from.
func WithBase(base string) Option {
	return func(c *Config) {
		c.Base = base
	}
}

// WithoutFallback keeps history mode even when the browser lacks pushState.
func WithoutFallback() Option {
	return func(c *Config) {
		c.NoFallback = true
	}
}

func WithBrowser(browser Browser) Option {
	return func(c *Config) {
		c.Browser = browser
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithScrollBehavior(behavior ScrollBehavior) Option {
	return func(c *Config) {
		c.ScrollBehavior = behavior
	}
}

// WithQueryCodec replaces the query parser and serializer.
func WithQueryCodec(parse QueryParser, stringify QueryStringifier) Option {
	return func(c *Config) {
		c.ParseQuery = parse
		c.StringifyQuery = stringify
	}
}

func WithAfterRender(fn func(func())) Option {
	return func(c *Config) {
		c.AfterRender = fn
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithIDGenerator sets the generator of navigation IDs.
func WithIDGenerator(gen func() string) Option {
	return func(c *Config) {
		c.IDGenerator = gen
	}
}
