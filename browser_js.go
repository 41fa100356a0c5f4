//go:build js && wasm

package router

import (
	"fmt"
	"strings"
	"sync"
	"syscall/js"
)

type jsBrowser struct {
	window   js.Value
	history  js.Value
	location js.Value
	document js.Value

	mu    sync.Mutex
	funcs map[int]js.Func
	seq   int
}

// NewBrowser returns a Browser driving the page's window.
func NewBrowser() Browser {
	window := js.Global()
	return &jsBrowser{
		window:   window,
		history:  window.Get("history"),
		location: window.Get("location"),
		document: window.Get("document"),
		funcs:    make(map[int]js.Func),
	}
}

func (b *jsBrowser) Href() string   { return b.location.Get("href").String() }
func (b *jsBrowser) Origin() string { return b.location.Get("origin").String() }

func (b *jsBrowser) SupportsPushState() bool {
	ua := b.window.Get("navigator").Get("userAgent").String()
	if containsAny(ua, "Android 2.", "Android 4.0") && containsAny(ua, "Mobile Safari") &&
		!containsAny(ua, "Chrome", "Windows Phone") {
		return false
	}
	fn := b.history.Get("pushState")
	return fn.Type() == js.TypeFunction
}

func (b *jsBrowser) PushState(state HistoryState, url string) error {
	return b.callHistory("pushState", state, url)
}

func (b *jsBrowser) ReplaceState(state HistoryState, url string) error {
	return b.callHistory("replaceState", state, url)
}

// callHistory turns a thrown DOMException (Safari caps pushState calls)
// into an error.
func (b *jsBrowser) callHistory(method string, state HistoryState, url string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("history.%s: %v", method, r)
		}
	}()
	obj := js.Global().Get("Object").New()
	obj.Set("key", state.Key)
	b.history.Call(method, obj, "", url)
	return nil
}

func (b *jsBrowser) AssignLocation(url string)  { b.location.Call("assign", url) }
func (b *jsBrowser) ReplaceLocation(url string) { b.location.Call("replace", url) }
func (b *jsBrowser) SetHash(hash string)        { b.location.Set("hash", hash) }
func (b *jsBrowser) Go(n int)                   { b.history.Call("go", n) }

func (b *jsBrowser) AddEventListener(event string, fn func(state *HistoryState)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		var state *HistoryState
		if len(args) > 0 {
			raw := args[0].Get("state")
			if raw.Type() == js.TypeObject {
				if key := raw.Get("key"); key.Type() == js.TypeString {
					state = &HistoryState{Key: key.String()}
				}
			}
		}
		fn(state)
		return nil
	})

	b.mu.Lock()
	b.seq++
	id := b.seq
	b.funcs[id] = cb
	b.mu.Unlock()

	b.window.Call("addEventListener", event, cb)

	return func() {
		b.mu.Lock()
		f, ok := b.funcs[id]
		delete(b.funcs, id)
		b.mu.Unlock()
		if !ok {
			return
		}
		b.window.Call("removeEventListener", event, f)
		f.Release()
	}
}

func (b *jsBrowser) ScrollOffset() Position {
	return Position{
		X: b.window.Get("pageXOffset").Float(),
		Y: b.window.Get("pageYOffset").Float(),
	}
}

func (b *jsBrowser) ScrollTo(pos Position) {
	b.window.Call("scrollTo", pos.X, pos.Y)
}

func (b *jsBrowser) QuerySelectorRect(selector string) (rect Rect, ok bool) {
	// querySelector throws on invalid selectors.
	defer func() {
		if r := recover(); r != nil {
			rect, ok = Rect{}, false
		}
	}()
	var el js.Value
	if len(selector) > 1 && selector[0] == '#' && isIDSelector(selector[1:]) {
		el = b.document.Call("getElementById", selector[1:])
	} else {
		el = b.document.Call("querySelector", selector)
	}
	if el.IsNull() || el.IsUndefined() {
		return Rect{}, false
	}
	return toRect(el.Call("getBoundingClientRect")), true
}

func (b *jsBrowser) DocumentRect() Rect {
	return toRect(b.document.Get("documentElement").Call("getBoundingClientRect"))
}

func toRect(v js.Value) Rect {
	return Rect{
		Left:   v.Get("left").Float(),
		Top:    v.Get("top").Float(),
		Width:  v.Get("width").Float(),
		Height: v.Get("height").Float(),
	}
}

func isIDSelector(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
