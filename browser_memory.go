package router

import (
	"net/url"
	"strings"
	"sync"
)

type memoryEntry struct {
	href  string
	state *HistoryState
	doc   int
}

type memoryListener struct {
	id int
	fn func(*HistoryState)
}

// MemoryBrowser is an in process Browser. It keeps a session history stack,
// dispatches events synchronously and records full page loads instead of
// performing them.
type MemoryBrowser struct {
	mu           sync.Mutex
	entries      []memoryEntry
	index        int
	origin       string
	pushState    bool
	pushStateErr error
	loads        []string
	scroll       Position
	elements     map[string]Rect
	listeners    map[string][]memoryListener
	listenerSeq  int
	docSeq       int
}

// MemoryBrowserOption configures a MemoryBrowser.
type MemoryBrowserOption func(*MemoryBrowser)

// WithoutPushState makes the browser report no native pushState support.
func WithoutPushState() MemoryBrowserOption {
	return func(b *MemoryBrowser) {
		b.pushState = false
	}
}

// WithPushStateError makes every PushState and ReplaceState call fail.
func WithPushStateError(err error) MemoryBrowserOption {
	return func(b *MemoryBrowser) {
		b.pushStateErr = err
	}
}

// NewMemoryBrowser opens href, e.g. "http://localhost/#/home".
func NewMemoryBrowser(href string, opts ...MemoryBrowserOption) *MemoryBrowser {
	b := &MemoryBrowser{
		pushState: true,
		elements:  map[string]Rect{},
		listeners: map[string][]memoryListener{},
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		b.origin = u.Scheme + "://" + u.Host
	}
	if b.origin != "" && href == b.origin {
		href += "/"
	}
	b.entries = []memoryEntry{{href: b.absolute(href)}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// absolute resolves ref against the current entry without re-encoding it,
// fragments are kept byte for byte.
func (b *MemoryBrowser) absolute(ref string) string {
	base := b.origin + "/"
	if len(b.entries) > 0 {
		base = b.entries[b.index].href
	}

	switch {
	case strings.Contains(ref, "://"):
		return ref
	case strings.HasPrefix(ref, "#"):
		return stripFragment(base) + ref
	case strings.HasPrefix(ref, "?"):
		base = stripFragment(base)
		if i := strings.Index(base, "?"); i >= 0 {
			base = base[:i]
		}
		return base + ref
	case strings.HasPrefix(ref, "/"):
		return b.origin + ref
	default:
		base = stripFragment(base)
		if i := strings.Index(base, "?"); i >= 0 {
			base = base[:i]
		}
		if i := strings.LastIndex(base, "/"); i >= 0 && i >= len(b.origin) {
			base = base[:i+1]
		}
		return base + ref
	}
}

func (b *MemoryBrowser) Href() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[b.index].href
}

func (b *MemoryBrowser) Origin() string {
	return b.origin
}

func (b *MemoryBrowser) SupportsPushState() bool {
	return b.pushState
}

func (b *MemoryBrowser) PushState(state HistoryState, href string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pushStateErr != nil {
		return b.pushStateErr
	}
	s := state
	doc := b.entries[b.index].doc
	b.entries = append(b.entries[:b.index+1], memoryEntry{href: b.absolute(href), state: &s, doc: doc})
	b.index++
	return nil
}

func (b *MemoryBrowser) ReplaceState(state HistoryState, href string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pushStateErr != nil {
		return b.pushStateErr
	}
	s := state
	b.entries[b.index] = memoryEntry{href: b.absolute(href), state: &s, doc: b.entries[b.index].doc}
	return nil
}

func (b *MemoryBrowser) AssignLocation(href string) {
	b.navigate(href, false)
}

func (b *MemoryBrowser) ReplaceLocation(href string) {
	b.navigate(href, true)
}

func (b *MemoryBrowser) SetHash(hash string) {
	b.navigate("#"+strings.TrimPrefix(hash, "#"), false)
}

// navigate changes the location. A change limited to the fragment stays in
// the document and fires popstate and hashchange, anything else counts as a
// full page load.
func (b *MemoryBrowser) navigate(href string, replace bool) {
	b.mu.Lock()
	current := b.entries[b.index].href
	next := b.absolute(href)
	fragmentOnly := stripFragment(current) == stripFragment(next)
	if fragmentOnly && current == next {
		b.mu.Unlock()
		return
	}

	entry := memoryEntry{href: next, doc: b.entries[b.index].doc}
	if !fragmentOnly {
		b.docSeq++
		entry.doc = b.docSeq
	}
	if replace {
		b.entries[b.index] = entry
	} else {
		b.entries = append(b.entries[:b.index+1], entry)
		b.index++
	}
	if !fragmentOnly {
		b.loads = append(b.loads, next)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.dispatch(EventPopState, nil)
	b.dispatch(EventHashChange, nil)
}

func (b *MemoryBrowser) Go(n int) {
	b.mu.Lock()
	target := b.index + n
	if n == 0 || target < 0 || target >= len(b.entries) {
		b.mu.Unlock()
		return
	}
	fromEntry := b.entries[b.index]
	from := fromEntry.href
	b.index = target
	to := b.entries[target]
	b.mu.Unlock()

	if fromEntry.doc != to.doc {
		b.mu.Lock()
		b.loads = append(b.loads, to.href)
		b.mu.Unlock()
		return
	}

	var state *HistoryState
	if to.state != nil {
		s := *to.state
		state = &s
	}
	b.dispatch(EventPopState, state)
	if fragment(from) != fragment(to.href) {
		b.dispatch(EventHashChange, nil)
	}
}

// Back is Go(-1).
func (b *MemoryBrowser) Back() { b.Go(-1) }

// Forward is Go(1).
func (b *MemoryBrowser) Forward() { b.Go(1) }

func (b *MemoryBrowser) AddEventListener(event string, fn func(*HistoryState)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listenerSeq++
	id := b.listenerSeq
	b.listeners[event] = append(b.listeners[event], memoryListener{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.listeners[event]
		for i, l := range list {
			if l.id == id {
				b.listeners[event] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *MemoryBrowser) dispatch(event string, state *HistoryState) {
	b.mu.Lock()
	listeners := append([]memoryListener(nil), b.listeners[event]...)
	b.mu.Unlock()
	for _, l := range listeners {
		l.fn(state)
	}
}

// ListenerCount returns the number of listeners subscribed to event.
func (b *MemoryBrowser) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}

func (b *MemoryBrowser) ScrollOffset() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scroll
}

func (b *MemoryBrowser) ScrollTo(pos Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scroll = pos
}

// SetElement places an element matching selector at rect, in document
// coordinates.
func (b *MemoryBrowser) SetElement(selector string, rect Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.elements[selector] = rect
}

func (b *MemoryBrowser) QuerySelectorRect(selector string) (Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rect, ok := b.elements[selector]
	if !ok {
		return Rect{}, false
	}
	rect.Left -= b.scroll.X
	rect.Top -= b.scroll.Y
	return rect, true
}

func (b *MemoryBrowser) DocumentRect() Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Rect{Left: -b.scroll.X, Top: -b.scroll.Y}
}

// Loads returns the URLs that caused a full page load.
func (b *MemoryBrowser) Loads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.loads...)
}

// Length returns the number of session history entries.
func (b *MemoryBrowser) Length() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// State returns the state of the current entry.
func (b *MemoryBrowser) State() *HistoryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s := b.entries[b.index].state; s != nil {
		c := *s
		return &c
	}
	return nil
}

func stripFragment(href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[:i]
	}
	return href
}

func fragment(href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[i:]
	}
	return ""
}
