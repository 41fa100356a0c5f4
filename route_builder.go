package router

import (
	"errors"
	"fmt"
)

// RouteBuilder assembles a route config tree fluently.
type RouteBuilder struct {
	routes []*RouteDefinition
	parent *RouteDefinition
}

// RouteDefinition is one route being configured by a RouteBuilder.
type RouteDefinition struct {
	builder  *RouteBuilder
	children *RouteBuilder
	config   RouteConfig
}

func NewRouteBuilder() *RouteBuilder {
	return &RouteBuilder{
		routes: make([]*RouteDefinition, 0),
	}
}

// NewRoute starts the configuration of a new route
func (b *RouteBuilder) NewRoute() *RouteDefinition {
	route := &RouteDefinition{builder: b}
	b.routes = append(b.routes, route)
	return route
}

// Build returns the configs for every route added to b, depth first.
// All validation errors are joined.
func (b *RouteBuilder) Build() ([]RouteConfig, error) {
	if len(b.routes) == 0 && b.parent == nil {
		return nil, errors.New("no routes to build")
	}

	var errs error
	out := make([]RouteConfig, 0, len(b.routes))
	for _, route := range b.routes {
		cfg, err := route.build()
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		out = append(out, cfg)
	}

	return out, errs
}

// MustBuild is like Build but panics on error.
func (b *RouteBuilder) MustBuild() []RouteConfig {
	routes, err := b.Build()
	if err != nil {
		panic(err)
	}
	return routes
}

func (r *RouteDefinition) Path(path string) *RouteDefinition {
	r.config.Path = path
	return r
}

func (r *RouteDefinition) Name(name string) *RouteDefinition {
	r.config.Name = name
	return r
}

func (r *RouteDefinition) Component(component any) *RouteDefinition {
	r.config.Component = component
	return r
}

// View sets the component for a named view.
func (r *RouteDefinition) View(name string, component any) *RouteDefinition {
	if r.config.Components == nil {
		r.config.Components = make(map[string]any)
	}
	r.config.Components[name] = component
	return r
}

// Redirect accepts a path string, Path, Location or RedirectFunc.
func (r *RouteDefinition) Redirect(to any) *RouteDefinition {
	r.config.Redirect = to
	return r
}

func (r *RouteDefinition) Alias(aliases ...string) *RouteDefinition {
	r.config.Alias = append(r.config.Alias, aliases...)
	return r
}

func (r *RouteDefinition) Meta(key string, value any) *RouteDefinition {
	if r.config.Meta == nil {
		r.config.Meta = make(map[string]any)
	}
	r.config.Meta[key] = value
	return r
}

func (r *RouteDefinition) Props(props any) *RouteDefinition {
	r.config.Props = props
	return r
}

func (r *RouteDefinition) BeforeEnter(guard NavigationGuard) *RouteDefinition {
	r.config.BeforeEnter = guard
	return r
}

func (r *RouteDefinition) CaseSensitive(sensitive bool) *RouteDefinition {
	r.config.CaseSensitive = &sensitive
	return r
}

func (r *RouteDefinition) PathOptions(opts PathOptions) *RouteDefinition {
	r.config.PathToRegexpOptions = &opts
	return r
}

// Children returns the builder for nested routes of r.
func (r *RouteDefinition) Children() *RouteBuilder {
	if r.children == nil {
		r.children = &RouteBuilder{
			routes: make([]*RouteDefinition, 0),
			parent: r,
		}
	}
	return r.children
}

// End returns the builder r was created from, to keep chaining siblings.
func (r *RouteDefinition) End() *RouteBuilder {
	return r.builder
}

func (r *RouteDefinition) build() (RouteConfig, error) {
	cfg := r.config
	label := cfg.Path
	if cfg.Name != "" {
		label = fmt.Sprintf("%s (%s)", cfg.Path, cfg.Name)
	}

	if cfg.Path == "" && r.builder.parent == nil {
		return cfg, newPathRequiredError(cfg.Name)
	}

	if err := validateComponents(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to build route %s: %w", label, err)
	}

	if r.children != nil {
		children, err := r.children.Build()
		if err != nil {
			return cfg, fmt.Errorf("failed to build children of %s: %w", label, err)
		}
		cfg.Children = append(cfg.Children, children...)
	}

	return cfg, nil
}
