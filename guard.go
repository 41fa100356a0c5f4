package router

import (
	"sort"
	"sync"
)

// NavigationGuard intercepts a navigation. It must call next exactly once:
// with no decision to proceed, or with Abort, Redirect or Fail.
type NavigationGuard func(to, from *Route, next Next)

// AfterHook runs after a navigation is committed.
type AfterHook func(to, from *Route)

// Next resolves the guard that received it.
type Next func(decisions ...Decision)

// Decision is the outcome handed to Next.
type Decision interface {
	decision()
}

type abortDecision struct{}

type redirectDecision struct {
	to RawLocation
}

type failDecision struct {
	err error
}

func (abortDecision) decision()    {}
func (redirectDecision) decision() {}
func (failDecision) decision()     {}

// Abort cancels the navigation and restores the URL of the current route.
func Abort() Decision {
	return abortDecision{}
}

// Redirect cancels the navigation and starts a new one to to. A Location
// with Replace set replaces the current entry.
func Redirect(to RawLocation) Decision {
	return redirectDecision{to: to}
}

// Fail cancels the navigation with err. The error reaches OnError callbacks.
func Fail(err error) Decision {
	return failDecision{err: err}
}

// BeforeRouteEnterGuard is implemented by components that guard entering
// the route that renders them.
type BeforeRouteEnterGuard interface {
	BeforeRouteEnter(to, from *Route, next Next)
}

// BeforeRouteUpdateGuard is implemented by components that stay rendered
// while the route changes, e.g. when only params change.
type BeforeRouteUpdateGuard interface {
	BeforeRouteUpdate(to, from *Route, next Next)
}

// BeforeRouteLeaveGuard is implemented by components that guard leaving the
// route that renders them.
type BeforeRouteLeaveGuard interface {
	BeforeRouteLeave(to, from *Route, next Next)
}

// resolveQueue splits two matched chains into the shared prefix and the
// records that are entered and left.
func resolveQueue(current, next []*RouteRecord) (updated, activated, deactivated []*RouteRecord) {
	max := len(current)
	if len(next) > max {
		max = len(next)
	}
	i := 0
	for ; i < max; i++ {
		if i >= len(current) || i >= len(next) || current[i] != next[i] {
			break
		}
	}
	return next[:i], next[i:], current[i:]
}

// extractGuards collects one guard per component of records. Views are
// visited in name order.
func extractGuards(records []*RouteRecord, extract func(component any) NavigationGuard, reverse bool) []NavigationGuard {
	var guards []NavigationGuard
	for _, record := range records {
		views := make([]string, 0, len(record.components))
		for view := range record.components {
			views = append(views, view)
		}
		sort.Strings(views)
		for _, view := range views {
			if guard := extract(record.components[view]); guard != nil {
				guards = append(guards, guard)
			}
		}
	}
	if reverse {
		for i, j := 0, len(guards)-1; i < j; i, j = i+1, j-1 {
			guards[i], guards[j] = guards[j], guards[i]
		}
	}
	return guards
}

func extractLeaveGuards(deactivated []*RouteRecord) []NavigationGuard {
	return extractGuards(deactivated, func(component any) NavigationGuard {
		if g, ok := component.(BeforeRouteLeaveGuard); ok {
			return g.BeforeRouteLeave
		}
		return nil
	}, true)
}

func extractUpdateGuards(updated []*RouteRecord) []NavigationGuard {
	return extractGuards(updated, func(component any) NavigationGuard {
		if g, ok := component.(BeforeRouteUpdateGuard); ok {
			return g.BeforeRouteUpdate
		}
		return nil
	}, false)
}

func extractEnterGuards(activated []*RouteRecord) []NavigationGuard {
	return extractGuards(activated, func(component any) NavigationGuard {
		if g, ok := component.(BeforeRouteEnterGuard); ok {
			return g.BeforeRouteEnter
		}
		return nil
	}, false)
}

func beforeEnterGuards(activated []*RouteRecord) []NavigationGuard {
	guards := make([]NavigationGuard, 0, len(activated))
	for _, record := range activated {
		guards = append(guards, record.beforeEnter)
	}
	return guards
}

// hookList keeps registered hooks in registration order. Each registration
// returns its own unregister func.
type hookList[T any] struct {
	mu      sync.RWMutex
	seq     int
	entries []hookEntry[T]
}

type hookEntry[T any] struct {
	id   int
	hook T
}

func (l *hookList[T]) add(hook T) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	id := l.seq
	l.entries = append(l.entries, hookEntry[T]{id: id, hook: hook})
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *hookList[T]) snapshot() []T {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.hook
	}
	return out
}

func (l *hookList[T]) len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
