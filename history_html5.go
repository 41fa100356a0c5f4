package router

// HTML5History keeps the location in the URL path using the native history
// API.
type HTML5History struct {
	*baseHistory
	initLocation string
}

func newHTML5History(rc *routerContext, base string) *HTML5History {
	h := &HTML5History{baseHistory: newBaseHistory(rc, base)}
	h.self = h
	h.initLocation = getLocation(rc.browser, h.base)
	return h
}

func (h *HTML5History) SetupListeners() {
	supportsScroll := h.rc.scroll.enabled()
	if supportsScroll {
		h.rc.scroll.setup()
	}

	remove := h.rc.browser.AddEventListener(EventPopState, func(*HistoryState) {
		current := h.Current()

		// some browsers fire popstate on the initial load, skip it
		location := getLocation(h.rc.browser, h.base)
		if current == startRoute && location == h.initLocation {
			return
		}

		h.TransitionTo(Path(location), func(route *Route) {
			if supportsScroll {
				h.rc.scroll.handle(route, current, true)
			}
		}, nil)
	})
	h.addTeardown(remove)
}

func (h *HTML5History) Push(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	from := h.Current()
	h.TransitionTo(location, func(route *Route) {
		h.rc.scroll.pushState(cleanPath(h.base+route.FullPath()), false)
		h.rc.scroll.handle(route, from, false)
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

func (h *HTML5History) Replace(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	from := h.Current()
	h.TransitionTo(location, func(route *Route) {
		h.rc.scroll.replaceState(cleanPath(h.base + route.FullPath()))
		h.rc.scroll.handle(route, from, false)
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

func (h *HTML5History) Go(n int) {
	h.rc.browser.Go(n)
}

func (h *HTML5History) EnsureURL(push bool) {
	if getLocation(h.rc.browser, h.base) == h.Current().FullPath() {
		return
	}
	current := cleanPath(h.base + h.Current().FullPath())
	if push {
		h.rc.scroll.pushState(current, false)
	} else {
		h.rc.scroll.replaceState(current)
	}
}

func (h *HTML5History) CurrentLocation() string {
	return getLocation(h.rc.browser, h.base)
}
