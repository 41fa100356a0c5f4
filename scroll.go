package router

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Position is a viewport scroll offset.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScrollTarget is what a ScrollBehavior asks for. Nil means do not scroll.
type ScrollTarget interface {
	scrollTarget()
}

// Coordinates is a partial position. A nil axis keeps the current offset.
type Coordinates struct {
	X *float64
	Y *float64
}

// SelectorTarget scrolls to the first element matching Selector, minus
// Offset. When no element matches, X and Y are used if set.
type SelectorTarget struct {
	Selector string
	Offset   Coordinates
	X        *float64
	Y        *float64
}

// DeferredScroll settles later by calling resolve or reject exactly once.
type DeferredScroll func(resolve func(ScrollTarget), reject func(error))

func (Position) scrollTarget()       {}
func (Coordinates) scrollTarget()    {}
func (SelectorTarget) scrollTarget() {}
func (DeferredScroll) scrollTarget() {}

// ScrollBehavior decides where to scroll after a navigation. saved is only
// set for back/forward navigations.
type ScrollBehavior func(to, from *Route, saved *Position) ScrollTarget

// Float returns a pointer to v, for Coordinates and SelectorTarget.
func Float(v float64) *float64 {
	return &v
}

// scrollManager owns the history state key and the scroll positions saved
// under each key.
type scrollManager struct {
	browser     Browser
	behavior    ScrollBehavior
	afterRender func(func())
	clock       func() time.Time
	logger      Logger
	positions   *positionStore

	mu      sync.Mutex
	key     string
	lastKey float64
	remove  func()
}

func newScrollManager(browser Browser, behavior ScrollBehavior, afterRender func(func()), clock func() time.Time, logger Logger) *scrollManager {
	if clock == nil {
		clock = time.Now
	}
	if afterRender == nil {
		afterRender = func(fn func()) { fn() }
	}
	if logger == nil {
		logger = &defaultLogger{}
	}
	s := &scrollManager{
		browser:     browser,
		behavior:    behavior,
		afterRender: afterRender,
		clock:       clock,
		logger:      logger,
		positions:   newPositionStore(),
	}
	s.key = s.genKey()
	return s
}

// genKey derives a key from the clock in milliseconds with three decimals.
// Keys never go backwards, even when the clock does.
func (s *scrollManager) genKey() string {
	ms := float64(s.clock().UnixNano()) / float64(time.Millisecond)
	if ms <= s.lastKey {
		ms = s.lastKey + 0.001
	}
	s.lastKey = ms
	return fmt.Sprintf("%.3f", ms)
}

func (s *scrollManager) stateKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func (s *scrollManager) setStateKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
}

// enabled reports whether scroll restoration can run: it needs a behavior
// and native history states to carry the keys.
func (s *scrollManager) enabled() bool {
	return s != nil && s.behavior != nil && s.browser != nil && s.browser.SupportsPushState()
}

// setup tags the current entry with the state key and saves the scroll
// offset before every popstate. It must run before the history subscribes
// to popstate.
func (s *scrollManager) setup() {
	href := s.browser.Href()
	if origin := s.browser.Origin(); origin != "" {
		href = strings.TrimPrefix(href, origin)
	}
	if err := s.browser.ReplaceState(HistoryState{Key: s.stateKey()}, href); err != nil {
		s.logger.Debug("scroll setup: replaceState failed: %v", err)
	}

	remove := s.browser.AddEventListener(EventPopState, func(state *HistoryState) {
		s.savePosition()
		if state != nil && state.Key != "" {
			s.setStateKey(state.Key)
		}
	})

	s.mu.Lock()
	s.remove = remove
	s.mu.Unlock()
}

func (s *scrollManager) teardown() {
	s.mu.Lock()
	remove := s.remove
	s.remove = nil
	s.mu.Unlock()
	if remove != nil {
		remove()
	}
}

func (s *scrollManager) savePosition() {
	if key := s.stateKey(); key != "" {
		s.positions.Set(key, s.browser.ScrollOffset())
	}
}

func (s *scrollManager) savedPosition() *Position {
	key := s.stateKey()
	if key == "" {
		return nil
	}
	if pos, ok := s.positions.Get(key); ok {
		return &pos
	}
	return nil
}

// pushState saves the scroll offset of the current entry and writes url as
// a new entry under a fresh key, or over the current one when replace is
// set. When the browser refuses, it falls back to a location change.
func (s *scrollManager) pushState(url string, replace bool) {
	s.savePosition()

	var err error
	if replace {
		err = s.browser.ReplaceState(HistoryState{Key: s.stateKey()}, url)
	} else {
		s.mu.Lock()
		s.key = s.genKey()
		key := s.key
		s.mu.Unlock()
		err = s.browser.PushState(HistoryState{Key: key}, url)
	}
	if err == nil {
		return
	}

	s.logger.Debug("pushState failed, falling back to location change: %v", err)
	if replace {
		s.browser.ReplaceLocation(url)
	} else {
		s.browser.AssignLocation(url)
	}
}

func (s *scrollManager) replaceState(url string) {
	s.pushState(url, true)
}

// handle runs the scroll behavior once the view has rendered.
func (s *scrollManager) handle(to, from *Route, isPop bool) {
	if s == nil || s.behavior == nil || s.browser == nil {
		return
	}

	s.afterRender(func() {
		position := s.savedPosition()
		var saved *Position
		if isPop {
			saved = position
		}

		target := s.behavior(to, from, saved)
		if target == nil {
			return
		}

		deferred, ok := target.(DeferredScroll)
		if !ok {
			s.scrollTo(target, position)
			return
		}
		if deferred == nil {
			return
		}

		var once sync.Once
		deferred(func(resolved ScrollTarget) {
			once.Do(func() {
				if resolved != nil {
					s.scrollTo(resolved, position)
				}
			})
		}, func(err error) {
			once.Do(func() {
				s.logger.Warn("scroll behavior rejected: %v", err)
			})
		})
	})
}

func (s *scrollManager) scrollTo(target ScrollTarget, position *Position) {
	switch t := target.(type) {
	case SelectorTarget:
		if rect, ok := s.browser.QuerySelectorRect(t.Selector); ok {
			doc := s.browser.DocumentRect()
			offset := normalizeOffset(t.Offset)
			position = &Position{
				X: rect.Left - doc.Left - offset.X,
				Y: rect.Top - doc.Top - offset.Y,
			}
		} else if t.X != nil || t.Y != nil {
			pos := s.normalizePosition(Coordinates{X: t.X, Y: t.Y})
			position = &pos
		} else {
			position = nil
		}
	case *SelectorTarget:
		if t != nil {
			s.scrollTo(*t, position)
		}
		return
	case Position:
		position = &t
	case *Position:
		if t != nil {
			position = t
		}
	case Coordinates:
		if t.X != nil || t.Y != nil {
			pos := s.normalizePosition(t)
			position = &pos
		}
	}

	if position != nil {
		s.browser.ScrollTo(*position)
	}
}

func (s *scrollManager) normalizePosition(c Coordinates) Position {
	current := s.browser.ScrollOffset()
	if c.X != nil {
		current.X = *c.X
	}
	if c.Y != nil {
		current.Y = *c.Y
	}
	return current
}

func normalizeOffset(c Coordinates) Position {
	var pos Position
	if c.X != nil {
		pos.X = *c.X
	}
	if c.Y != nil {
		pos.Y = *c.Y
	}
	return pos
}
