package router

import (
	"context"
	"sync"
)

// Router is the application level navigation object. It owns the route
// table, one history backend and the scroll manager, and lives from
// application start to Teardown.
type Router struct {
	cfg     Config
	mode    Mode
	rc      *routerContext
	history History

	mu      sync.Mutex
	started bool
}

// New builds the route table and selects the history backend. The mode is
// fixed for the lifetime of the router: history falls back to hash when the
// browser has no pushState, and any mode without a browser is abstract.
func New(cfg Config, opts ...Option) (*Router, error) {
	cfg, err := configDefault(cfg, opts...)
	if err != nil {
		return nil, err
	}

	matcher, err := NewMatcher(cfg.Routes,
		WithMatcherLogger(cfg.Logger),
		WithMatcherQuery(cfg.ParseQuery, cfg.StringifyQuery),
	)
	if err != nil {
		return nil, err
	}

	r := &Router{cfg: cfg}
	r.rc = &routerContext{
		matcher: matcher,
		before:  &hookList[NavigationGuard]{},
		resolve: &hookList[NavigationGuard]{},
		after:   &hookList[AfterHook]{},
		settled: &hookList[func(NavigationResult)]{},
		browser: cfg.Browser,
		logger:  cfg.Logger,
		tracer:  cfg.Tracer,
		newID:   cfg.IDGenerator,
		clock:   cfg.Clock,
	}

	mode := cfg.Mode
	fallback := false
	if mode == ModeHistory && (cfg.Browser == nil || !cfg.Browser.SupportsPushState()) && !cfg.NoFallback {
		mode = ModeHash
		fallback = true
	}
	if cfg.Browser == nil {
		mode = ModeAbstract
	}

	if cfg.Browser != nil {
		r.rc.scroll = newScrollManager(cfg.Browser, cfg.ScrollBehavior, cfg.AfterRender, cfg.Clock, cfg.Logger)
	}

	switch mode {
	case ModeHistory:
		r.history = newHTML5History(r.rc, cfg.Base)
	case ModeHash:
		r.history = newHashHistory(r.rc, cfg.Base, fallback)
	case ModeAbstract:
		r.history = newAbstractHistory(r.rc, cfg.Base)
	default:
		return nil, NewRouteConfigError(TextCodeRouteConfigInvalid,
			"invalid router mode: "+string(mode),
			map[string]any{"mode": string(mode)})
	}
	r.mode = mode

	r.rc.logger.Debug("router created in %s mode with %d routes", mode, matcher.Table().Len())
	return r, nil
}

// Mode returns the mode the router runs in.
func (r *Router) Mode() Mode {
	return r.mode
}

// History returns the active backend.
func (r *Router) History() History {
	return r.history
}

// Table returns the current route table.
func (r *Router) Table() *Table {
	return r.rc.matcher.Table()
}

// CurrentRoute returns the committed route, StartRoute() before the first
// navigation completes.
func (r *Router) CurrentRoute() *Route {
	return r.history.Current()
}

// Start runs the initial navigation to the location shown by the browser
// and subscribes to back/forward events. In abstract mode there is no
// initial navigation.
func (r *Router) Start(ctx context.Context) (*Route, error) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return r.CurrentRoute(), nil
	}
	r.started = true
	r.mu.Unlock()

	if h, ok := r.history.(*HashHistory); ok && h.Redirected() {
		return startRoute, newReloadingError(r.rc.browser.Href())
	}

	switch r.history.(type) {
	case *HashHistory, *HTML5History:
		return r.await(ctx, r.initialNavigation)
	default:
		r.history.SetupListeners()
		return r.CurrentRoute(), nil
	}
}

// initialNavigation resolves the browser location and subscribes to
// back/forward events whatever the outcome. A redirect issued by a guard
// settles when the redirected navigation does.
func (r *Router) initialNavigation(done func(*Route), fail func(error)) {
	h := r.history
	h.TransitionTo(Path(h.CurrentLocation()), func(route *Route) {
		h.SetupListeners()
		done(route)
	}, func(err error) {
		h.SetupListeners()
		if IsNavigationFailure(err, TextCodeNavigationRedirected) {
			h.OnReady(done, fail)
			return
		}
		fail(err)
	})
}

// Push navigates to location, adding a history entry. It returns once the
// navigation settles: with the new route, or with a navigation failure
// (see IsNavigationFailure) or the error a guard failed with.
func (r *Router) Push(ctx context.Context, location RawLocation) (*Route, error) {
	return r.await(ctx, func(done func(*Route), fail func(error)) {
		r.history.Push(location, done, fail)
	})
}

// Replace is like Push but replaces the current history entry.
func (r *Router) Replace(ctx context.Context, location RawLocation) (*Route, error) {
	return r.await(ctx, func(done func(*Route), fail func(error)) {
		r.history.Replace(location, done, fail)
	})
}

// await blocks until one of the callbacks passed to run fires or ctx is
// done. Guards may call next from other goroutines.
func (r *Router) await(ctx context.Context, run func(done func(*Route), fail func(error))) (*Route, error) {
	type result struct {
		route *Route
		err   error
	}
	ch := make(chan result, 1)
	var once sync.Once

	run(func(route *Route) {
		once.Do(func() { ch <- result{route: route} })
	}, func(err error) {
		once.Do(func() { ch <- result{err: err} })
	})

	select {
	case res := <-ch:
		return res.route, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Go moves n entries through the history.
func (r *Router) Go(n int) {
	r.history.Go(n)
}

// Back is Go(-1).
func (r *Router) Back() {
	r.Go(-1)
}

// Forward is Go(1).
func (r *Router) Forward() {
	r.Go(1)
}

// Match resolves raw against the table. A nil current resolves relative
// locations against the current route.
func (r *Router) Match(raw RawLocation, current *Route) *Route {
	if current == nil {
		current = r.CurrentRoute()
	}
	return r.rc.matcher.Match(raw, current, nil)
}

// Resolution is the result of Resolve.
type Resolution struct {
	Location Location
	Route    *Route
	Href     string
}

// Resolve resolves to and builds the href a link to it should carry.
func (r *Router) Resolve(to RawLocation, current *Route, appendTo bool) Resolution {
	if current == nil {
		current = r.CurrentRoute()
	}
	location := normalizeLocation(to, current, appendTo, r.cfg.ParseQuery, r.rc.matcher.fillParams, r.rc.logger)
	route := r.rc.matcher.Match(location, current, nil)

	fullPath := route.RedirectedFrom()
	if fullPath == "" {
		fullPath = route.FullPath()
	}

	return Resolution{
		Location: location,
		Route:    route,
		Href:     createHref(normalizeBase(r.cfg.Base), fullPath, r.mode),
	}
}

func createHref(base, fullPath string, mode Mode) string {
	path := fullPath
	if mode == ModeHash {
		path = "#" + fullPath
	}
	if base != "" {
		return cleanPath(base + "/" + path)
	}
	return path
}

// AddRoutes appends routes to the table. When a route is already committed
// the current location is resolved again against the new table.
func (r *Router) AddRoutes(routes ...RouteConfig) error {
	if err := r.rc.matcher.AddRoutes(routes); err != nil {
		return err
	}
	if r.history.Current() != startRoute {
		r.history.TransitionTo(Path(r.history.CurrentLocation()), nil, nil)
	}
	return nil
}

// BeforeEach registers a global guard that runs before per route guards.
func (r *Router) BeforeEach(guard NavigationGuard) func() {
	return r.rc.before.add(guard)
}

// BeforeResolve registers a global guard that runs after component enter
// guards, right before the navigation is committed.
func (r *Router) BeforeResolve(guard NavigationGuard) func() {
	return r.rc.resolve.add(guard)
}

// AfterEach registers a hook that runs after every committed navigation.
func (r *Router) AfterEach(hook AfterHook) func() {
	return r.rc.after.add(hook)
}

// OnReady runs cb once the initial navigation completed, or errCb if it
// failed.
func (r *Router) OnReady(cb func(*Route), errCb func(error)) {
	r.history.OnReady(cb, errCb)
}

// OnError registers a callback for errors raised during navigation: guard
// failures and guard panics. Navigation failures are not errors.
func (r *Router) OnError(cb func(error)) func() {
	return r.history.OnError(cb)
}

// OnSettled registers a callback that receives every settled navigation.
func (r *Router) OnSettled(cb func(NavigationResult)) func() {
	return r.rc.settled.add(cb)
}

// Listen registers a callback that receives every committed route.
func (r *Router) Listen(cb func(*Route)) func() {
	return r.history.Listen(cb)
}

// Teardown removes all browser listeners and resets the current route.
func (r *Router) Teardown() {
	r.mu.Lock()
	r.started = false
	r.mu.Unlock()
	r.history.Teardown()
}
