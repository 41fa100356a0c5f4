package router

import (
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// History is implemented by every navigation backend: hash, html5 and
// abstract. Push and Replace run onComplete with the committed route or
// onAbort with the reason the navigation did not happen.
type History interface {
	Current() *Route
	Push(location RawLocation, onComplete func(*Route), onAbort func(error))
	Replace(location RawLocation, onComplete func(*Route), onAbort func(error))
	Go(n int)
	// EnsureURL rewrites the visible URL to match Current when they drifted.
	EnsureURL(push bool)
	CurrentLocation() string
	SetupListeners()
	TransitionTo(location RawLocation, onComplete func(*Route), onAbort func(error))
	Listen(cb func(*Route)) func()
	OnReady(cb func(*Route), errCb func(error))
	OnError(cb func(error)) func()
	Teardown()
}

// routerContext is shared by the router, its history and its scroll
// manager. One exists per Router.
type routerContext struct {
	matcher *Matcher
	before  *hookList[NavigationGuard]
	resolve *hookList[NavigationGuard]
	after   *hookList[AfterHook]
	settled *hookList[func(NavigationResult)]
	scroll  *scrollManager
	browser Browser
	logger  Logger
	tracer  trace.Tracer
	newID   func() string
	clock   func() time.Time
}

// baseHistory implements the transition pipeline shared by all backends.
type baseHistory struct {
	rc   *routerContext
	self History
	base string

	mu          sync.RWMutex
	current     *Route
	generation  uint64
	ready       bool
	readyCbs    []func(*Route)
	readyErrCbs []func(error)
	errorCbs    *hookList[func(error)]
	listeners   *hookList[func(*Route)]
	teardowns   []func()
}

func newBaseHistory(rc *routerContext, base string) *baseHistory {
	return &baseHistory{
		rc:        rc,
		base:      normalizeBase(base),
		current:   startRoute,
		errorCbs:  &hookList[func(error)]{},
		listeners: &hookList[func(*Route)]{},
	}
}

// normalizeBase makes base absolute without a trailing slash. "/" becomes "".
func normalizeBase(base string) string {
	if base == "" {
		base = "/"
	}
	if i := strings.Index(base, "://"); i >= 0 {
		rest := base[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			base = rest[j:]
		} else {
			base = "/"
		}
	}
	if base[0] != '/' {
		base = "/" + base
	}
	return strings.TrimSuffix(base, "/")
}

func (h *baseHistory) Current() *Route {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Base returns the normalized base path.
func (h *baseHistory) Base() string {
	return h.base
}

func (h *baseHistory) Listen(cb func(*Route)) func() {
	return h.listeners.add(cb)
}

func (h *baseHistory) OnReady(cb func(*Route), errCb func(error)) {
	h.mu.Lock()
	if h.ready {
		current := h.current
		h.mu.Unlock()
		if cb != nil {
			cb(current)
		}
		return
	}
	if cb != nil {
		h.readyCbs = append(h.readyCbs, cb)
	}
	if errCb != nil {
		h.readyErrCbs = append(h.readyErrCbs, errCb)
	}
	h.mu.Unlock()
}

func (h *baseHistory) OnError(cb func(error)) func() {
	return h.errorCbs.add(cb)
}

func (h *baseHistory) addTeardown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.teardowns = append(h.teardowns, fn)
}

// Teardown removes every browser listener and resets the history to the start route.
func (h *baseHistory) Teardown() {
	h.mu.Lock()
	teardowns := h.teardowns
	h.teardowns = nil
	h.current = startRoute
	h.generation++
	h.ready = false
	h.mu.Unlock()

	for _, fn := range teardowns {
		fn()
	}
	if h.rc.scroll != nil {
		h.rc.scroll.teardown()
	}
}

// TransitionTo resolves location, runs the guards and commits the route.
func (h *baseHistory) TransitionTo(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	prev := h.Current()
	route := h.rc.matcher.Match(location, prev, nil)

	h.confirmTransition(route, func() {
		h.updateRoute(route)
		if onComplete != nil {
			onComplete(route)
		}
		h.self.EnsureURL(false)
		h.markReady(route, nil)
	}, func(err error) {
		if onAbort != nil {
			onAbort(err)
		}
		if err == nil {
			return
		}
		// the initial navigation redirected, ready waits for the redirect
		if IsNavigationFailure(err, TextCodeNavigationRedirected) && prev == startRoute {
			return
		}
		h.markReady(nil, err)
	})
}

func (h *baseHistory) markReady(route *Route, err error) {
	h.mu.Lock()
	if h.ready {
		h.mu.Unlock()
		return
	}
	h.ready = true
	readyCbs := h.readyCbs
	readyErrCbs := h.readyErrCbs
	h.readyCbs = nil
	h.readyErrCbs = nil
	h.mu.Unlock()

	if err != nil {
		for _, cb := range readyErrCbs {
			cb(err)
		}
		return
	}
	for _, cb := range readyCbs {
		cb(route)
	}
}

func (h *baseHistory) nextGeneration() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation++
	return h.generation
}

func (h *baseHistory) isGeneration(gen uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.generation == gen
}

// confirmTransition runs the guard queue for route. Only the most recent
// transition may commit: an older one that reaches a guard boundary is
// cancelled.
func (h *baseHistory) confirmTransition(route *Route, onComplete func(), onAbort func(error)) {
	current := h.Current()
	nav := h.rc.startNavigation(route, current)
	gen := h.nextGeneration()

	var settleOnce sync.Once
	abort := func(err error) {
		settleOnce.Do(func() {
			if err != nil && !IsNavigationFailure(err) {
				if errorCbs := h.errorCbs.snapshot(); len(errorCbs) > 0 {
					for _, cb := range errorCbs {
						cb(err)
					}
				} else {
					h.rc.logger.Error("uncaught error during route navigation: %v", err)
				}
			}
			nav.finish(err)
			if onAbort != nil {
				onAbort(err)
			}
		})
	}
	complete := func() {
		settleOnce.Do(func() {
			onComplete()
			nav.finish(nil)
		})
	}

	if IsSameRoute(route, current) && len(route.matched) == len(current.matched) {
		h.self.EnsureURL(false)
		abort(newDuplicatedFailure(current, route))
		return
	}

	updated, activated, deactivated := resolveQueue(current.matched, route.matched)

	var queue []NavigationGuard
	queue = append(queue, extractLeaveGuards(deactivated)...)
	queue = append(queue, h.rc.before.snapshot()...)
	queue = append(queue, extractUpdateGuards(updated)...)
	queue = append(queue, beforeEnterGuards(activated)...)

	iterator := func(guard NavigationGuard, next func()) {
		if !h.isGeneration(gen) {
			abort(newCancelledFailure(current, route))
			return
		}
		h.runGuard(guard, route, current, next, abort)
	}

	RunQueue(queue, iterator, func() {
		var enterQueue []NavigationGuard
		enterQueue = append(enterQueue, extractEnterGuards(activated)...)
		enterQueue = append(enterQueue, h.rc.resolve.snapshot()...)

		RunQueue(enterQueue, iterator, func() {
			if !h.isGeneration(gen) {
				abort(newCancelledFailure(current, route))
				return
			}
			complete()
		})
	})
}

// runGuard calls guard and turns the decision it hands to next into either
// advancing the queue or aborting. A panic before next is called aborts the
// navigation with an error.
func (h *baseHistory) runGuard(guard NavigationGuard, to, from *Route, next func(), abort func(error)) {
	resolved := false

	defer func() {
		if r := recover(); r != nil {
			if resolved {
				panic(r)
			}
			resolved = true
			abort(newGuardPanicError(r, from, to))
		}
	}()

	h.rc.logger.Debug("running guard %s for %s", funcName(guard), to.FullPath())

	guard(to, from, func(decisions ...Decision) {
		if resolved {
			h.rc.logger.Warn("navigation guard %s called next more than once", funcName(guard))
			return
		}
		resolved = true

		var decision Decision
		if len(decisions) > 0 {
			decision = decisions[0]
		}

		switch d := decision.(type) {
		case nil:
			next()
		case abortDecision:
			h.self.EnsureURL(true)
			abort(newAbortedFailure(from, to))
		case failDecision:
			h.self.EnsureURL(true)
			if d.err == nil {
				abort(newAbortedFailure(from, to))
				return
			}
			abort(d.err)
		case redirectDecision:
			abort(newRedirectedFailure(from, to))
			if toLocation(d.to).Replace {
				h.self.Replace(d.to, nil, nil)
			} else {
				h.self.Push(d.to, nil, nil)
			}
		default:
			next()
		}
	})
}

// updateRoute commits route, then notifies listeners and after hooks.
func (h *baseHistory) updateRoute(route *Route) {
	h.mu.Lock()
	prev := h.current
	h.current = route
	h.mu.Unlock()

	for _, cb := range h.listeners.snapshot() {
		cb(route)
	}
	for _, hook := range h.rc.after.snapshot() {
		if hook != nil {
			hook(route, prev)
		}
	}
}
