package router

// RedirectFunc computes a redirect target from the route being redirected.
type RedirectFunc func(to *Route) RawLocation

// RouteConfig is the declarative definition of one navigable path.
type RouteConfig struct {
	Path                string
	Name                string
	Component           any
	Components          map[string]any
	Redirect            any
	Alias               []string
	Children            []RouteConfig
	BeforeEnter         NavigationGuard
	Meta                map[string]any
	Props               any
	CaseSensitive       *bool
	PathToRegexpOptions *PathOptions
}

// RouteRecord is the compiled, table resident form of a RouteConfig. Records
// are immutable once the table that owns them is built.
type RouteRecord struct {
	path        string
	regex       *PathRegexp
	components  map[string]any
	alias       []string
	name        string
	parent      *RouteRecord
	matchAs     string
	redirect    any
	beforeEnter NavigationGuard
	meta        map[string]any
	props       map[string]any
}

// Path returns the absolute, normalized path.
func (r *RouteRecord) Path() string { return r.path }

// Regex returns the compiled matcher for Path.
func (r *RouteRecord) Regex() *PathRegexp { return r.regex }

// Name returns the unique route name or "".
func (r *RouteRecord) Name() string { return r.name }

// Parent returns the enclosing record, nil for top level records.
func (r *RouteRecord) Parent() *RouteRecord { return r.parent }

// MatchAs is set on alias records to the canonical path they resolve as.
func (r *RouteRecord) MatchAs() string { return r.matchAs }

// IsAlias reports whether the record was created from an alias.
func (r *RouteRecord) IsAlias() bool { return r.matchAs != "" }

// Redirect returns the raw redirect configuration.
func (r *RouteRecord) Redirect() any { return r.redirect }

// BeforeEnter returns the per route guard.
func (r *RouteRecord) BeforeEnter() NavigationGuard { return r.beforeEnter }

// Aliases returns the aliases declared on the record.
func (r *RouteRecord) Aliases() []string {
	out := make([]string, len(r.alias))
	copy(out, r.alias)
	return out
}

// Components returns the named views of the record. The single view form is
// stored under "default".
func (r *RouteRecord) Components() map[string]any {
	out := make(map[string]any, len(r.components))
	for k, v := range r.components {
		out[k] = v
	}
	return out
}

// Component returns the component for the named view.
func (r *RouteRecord) Component(view string) any {
	return r.components[view]
}

// Meta returns the record meta.
func (r *RouteRecord) Meta() map[string]any {
	out := make(map[string]any, len(r.meta))
	for k, v := range r.meta {
		out[k] = v
	}
	return out
}

// Props returns the props configuration keyed by view name.
func (r *RouteRecord) Props() map[string]any {
	out := make(map[string]any, len(r.props))
	for k, v := range r.props {
		out[k] = v
	}
	return out
}

func (r *RouteRecord) String() string {
	if r.name != "" {
		return r.path + " (" + r.name + ")"
	}
	return r.path
}
