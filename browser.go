package router

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Browser events a history backend can subscribe to.
const (
	EventPopState   = "popstate"
	EventHashChange = "hashchange"
)

// HistoryState is the state object stored with each history entry.
type HistoryState struct {
	Key string `json:"key"`
}

// Rect is an element bounding box relative to the viewport.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Browser is the capability surface the history backends and the scroll
// manager drive. NewMemoryBrowser provides an in process implementation,
// NewBrowser one backed by the DOM when built for js/wasm.
type Browser interface {
	// Href returns the full URL of the current entry.
	Href() string
	// Origin returns scheme and host of the document.
	Origin() string
	SupportsPushState() bool
	PushState(state HistoryState, url string) error
	ReplaceState(state HistoryState, url string) error
	// AssignLocation navigates to url, creating a new entry.
	AssignLocation(url string)
	// ReplaceLocation navigates to url, replacing the current entry.
	ReplaceLocation(url string)
	SetHash(hash string)
	Go(n int)
	// AddEventListener subscribes to EventPopState or EventHashChange. The
	// state is nil when the entry has none.
	AddEventListener(event string, fn func(state *HistoryState)) (remove func())
	ScrollOffset() Position
	ScrollTo(pos Position)
	QuerySelectorRect(selector string) (Rect, bool)
	DocumentRect() Rect
}

// locationParts splits href into its decoded pathname, search and hash.
func locationParts(href string) (pathname, search, hash string) {
	if i := strings.Index(href, "#"); i >= 0 {
		hash = href[i:]
		href = href[:i]
	}
	if i := strings.Index(href, "?"); i >= 0 {
		search = href[i:]
		href = href[:i]
	}
	pathname = href
	if u, err := url.Parse(href); err == nil && u.Host != "" {
		pathname = u.EscapedPath()
	}
	if pathname == "" {
		pathname = "/"
	}
	return decodeURI(pathname), search, hash
}

const uriReservedDecode = ";/?:@&=+$,#"

// decodeURI decodes percent escapes except those of reserved characters,
// which stay encoded.
func decodeURI(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, ok := unhex(s[i+1], s[i+2]); ok && strings.IndexByte(uriReservedDecode, v) < 0 {
				b.WriteByte(v)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	out := b.String()
	if !utf8.ValidString(out) {
		return s
	}
	return out
}

func unhex(a, b byte) (byte, bool) {
	hi, ok1 := fromHex(a)
	lo, ok2 := fromHex(b)
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
