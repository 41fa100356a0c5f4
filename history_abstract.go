package router

import "sync"

// AbstractHistory keeps an in memory stack of routes. It needs no browser
// and is used for tests, command line tools and server side rendering.
type AbstractHistory struct {
	*baseHistory

	stackMu sync.Mutex
	stack   []*Route
	index   int
}

func newAbstractHistory(rc *routerContext, base string) *AbstractHistory {
	h := &AbstractHistory{baseHistory: newBaseHistory(rc, base), index: -1}
	h.self = h
	return h
}

func (h *AbstractHistory) SetupListeners() {}

func (h *AbstractHistory) Push(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	h.TransitionTo(location, func(route *Route) {
		h.stackMu.Lock()
		h.stack = append(h.stack[:h.index+1:h.index+1], route)
		h.index++
		h.stackMu.Unlock()
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

func (h *AbstractHistory) Replace(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	h.TransitionTo(location, func(route *Route) {
		h.stackMu.Lock()
		if h.index < 0 {
			h.index = 0
		}
		h.stack = append(h.stack[:h.index:h.index], route)
		h.stackMu.Unlock()
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

// Go moves through the stack, running the guards for the target route.
func (h *AbstractHistory) Go(n int) {
	h.stackMu.Lock()
	target := h.index + n
	if target < 0 || target >= len(h.stack) {
		h.stackMu.Unlock()
		return
	}
	route := h.stack[target]
	h.stackMu.Unlock()

	h.confirmTransition(route, func() {
		h.stackMu.Lock()
		h.index = target
		h.stackMu.Unlock()
		h.updateRoute(route)
	}, func(err error) {
		if IsNavigationFailure(err, TextCodeNavigationDuplicated) {
			h.stackMu.Lock()
			h.index = target
			h.stackMu.Unlock()
		}
	})
}

func (h *AbstractHistory) EnsureURL(bool) {}

func (h *AbstractHistory) CurrentLocation() string {
	h.stackMu.Lock()
	defer h.stackMu.Unlock()
	if len(h.stack) == 0 {
		return "/"
	}
	return h.stack[len(h.stack)-1].FullPath()
}

// Stack returns the full paths in the stack and the current index.
func (h *AbstractHistory) Stack() ([]string, int) {
	h.stackMu.Lock()
	defer h.stackMu.Unlock()
	out := make([]string, len(h.stack))
	for i, r := range h.stack {
		out[i] = r.FullPath()
	}
	return out, h.index
}
