package router

import "strings"

// HashHistory keeps the location in the URL fragment: "/app/#/users/1".
type HashHistory struct {
	*baseHistory
	redirected bool
}

// newHashHistory creates the fragment backend. With fallback set and a
// location that is not in fragment form yet, it replaces the page with the
// fragment form of the URL and reports Redirected.
func newHashHistory(rc *routerContext, base string, fallback bool) *HashHistory {
	h := &HashHistory{baseHistory: newBaseHistory(rc, base)}
	h.self = h

	// check history fallback deeplinking
	if fallback && h.checkFallback() {
		h.redirected = true
		return h
	}
	h.ensureSlash()
	return h
}

// Redirected reports whether construction replaced the page to move the
// location into the fragment. The router does not start in that case.
func (h *HashHistory) Redirected() bool {
	return h.redirected
}

func (h *HashHistory) checkFallback() bool {
	location := getLocation(h.rc.browser, h.base)
	if strings.HasPrefix(location, "/#") {
		return false
	}
	h.rc.browser.ReplaceLocation(cleanPath(h.base + "/#" + location))
	return true
}

// ensureSlash makes the fragment start with "/". It returns false when it had
// to rewrite the fragment.
func (h *HashHistory) ensureSlash() bool {
	path := h.getHash()
	if strings.HasPrefix(path, "/") {
		return true
	}
	h.replaceHash("/" + path)
	return false
}

// SetupListeners is delayed until the app is started so the listener does
// not fire too early.
func (h *HashHistory) SetupListeners() {
	supportsPushState := h.rc.browser.SupportsPushState()
	supportsScroll := h.rc.scroll.enabled()
	if supportsScroll {
		h.rc.scroll.setup()
	}

	event := EventHashChange
	if supportsPushState {
		event = EventPopState
	}

	remove := h.rc.browser.AddEventListener(event, func(*HistoryState) {
		current := h.Current()
		if !h.ensureSlash() {
			return
		}
		h.TransitionTo(Path(h.getHash()), func(route *Route) {
			if supportsScroll {
				h.rc.scroll.handle(route, current, true)
			}
			if !supportsPushState {
				h.replaceHash(route.FullPath())
			}
		}, nil)
	})
	h.addTeardown(remove)
}

func (h *HashHistory) Push(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	from := h.Current()
	h.TransitionTo(location, func(route *Route) {
		h.pushHash(route.FullPath())
		h.rc.scroll.handle(route, from, false)
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

func (h *HashHistory) Replace(location RawLocation, onComplete func(*Route), onAbort func(error)) {
	from := h.Current()
	h.TransitionTo(location, func(route *Route) {
		h.replaceHash(route.FullPath())
		h.rc.scroll.handle(route, from, false)
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

// Go traverses the browser history. The popstate or hashchange listener
// performs the transition.
func (h *HashHistory) Go(n int) {
	h.rc.browser.Go(n)
}

func (h *HashHistory) EnsureURL(push bool) {
	current := h.Current().FullPath()
	if h.getHash() == current {
		return
	}
	if push {
		h.pushHash(current)
	} else {
		h.replaceHash(current)
	}
}

func (h *HashHistory) CurrentLocation() string {
	return h.getHash()
}

// getHash reads the fragment from the full href. Fragment accessors decode
// inconsistently, so everything after the first "#" is decoded here.
func (h *HashHistory) getHash() string {
	href := h.rc.browser.Href()
	index := strings.Index(href, "#")
	if index == -1 {
		return ""
	}
	return decodeURI(href[index+1:])
}

func (h *HashHistory) getURL(path string) string {
	href := h.rc.browser.Href()
	base := href
	if i := strings.Index(href, "#"); i >= 0 {
		base = href[:i]
	}
	return base + "#" + path
}

func (h *HashHistory) pushHash(path string) {
	if h.rc.browser.SupportsPushState() {
		h.rc.scroll.pushState(h.getURL(path), false)
		return
	}
	h.rc.browser.SetHash(path)
}

func (h *HashHistory) replaceHash(path string) {
	if h.rc.browser.SupportsPushState() {
		h.rc.scroll.replaceState(h.getURL(path))
		return
	}
	h.rc.browser.ReplaceLocation(h.getURL(path))
}

// getLocation returns the location relative to base: decoded path, search
// and hash.
func getLocation(browser Browser, base string) string {
	pathname, search, hash := locationParts(browser.Href())
	if base != "" && strings.HasPrefix(pathname, base) {
		pathname = pathname[len(base):]
	}
	if pathname == "" {
		pathname = "/"
	}
	return pathname + search + hash
}
