//go:build js && wasm

// Package jsdom implements browser.Window over syscall/js
package jsdom

import (
	"strconv"
	"syscall/js"
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Window is the live page
type Window struct {
	win js.Value
	doc js.Value
}

func NewWindow() *Window {
	g := js.Global()
	return &Window{win: g, doc: g.Get("document")}
}

var _ browser.Window = (*Window)(nil)

// Doc is the document object
func (w *Window) Doc() js.Value { return w.doc }

// ByID is getElementById, null when absent
func (w *Window) ByID(id string) js.Value { return w.doc.Call("getElementById", id) }

func present(v js.Value) bool { return !v.IsNull() && !v.IsUndefined() }

func (w *Window) Element(id string) (browser.Element, bool) {
	v := w.ByID(id)
	if !present(v) {
		return nil, false
	}
	return element{v: v, id: id}, true
}

func (w *Window) ScrollY() float64 { return w.win.Get("scrollY").Float() }
func (w *Window) Height() float64  { return w.win.Get("innerHeight").Float() }

func (w *Window) Path() string { return w.win.Get("location").Get("pathname").String() }
func (w *Window) Hash() string { return w.win.Get("location").Get("hash").String() }

// Replace rewrites the url in place, so no anchor jump and no history entry
func (w *Window) Replace(url string) {
	w.win.Get("history").Call("replaceState", js.Null(), "", url)
}

func (w *Window) ManualScrollRestoration() {
	w.win.Get("history").Set("scrollRestoration", "manual")
}

func (w *Window) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	var cb js.Func
	done := false
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		if !done {
			done = true
			cb.Release()
			fn()
		}
		return nil
	})
	handle := w.win.Call("setTimeout", cb, d.Milliseconds())
	return func() {
		if done {
			return
		}
		done = true
		w.win.Call("clearTimeout", handle)
		cb.Release()
	}
}

// Listen attaches keyboard listeners to the document and the rest to the window
func (w *Window) Listen(name string, fn func(browser.Event)) (remove func()) {
	target := w.win
	if name == "keydown" || name == "keyup" {
		target = w.doc
	}
	return On(target, name, func(ev js.Value) {
		e := browser.Event{Name: name}
		if k := ev.Get("key"); k.Type() == js.TypeString {
			e.Key = k.String()
		}
		fn(e)
	})
}

// On adds a passive-free listener to target and returns its remover
func On(target js.Value, name string, fn func(ev js.Value)) (remove func()) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", name, cb)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		target.Call("removeEventListener", name, cb)
		cb.Release()
	}
}

// ObserveIntersections uses an IntersectionObserver whose root margin shrinks
// the viewport to the band
func (w *Window) ObserveIntersections(ids []string, margin float64, fn func([]browser.Intersection)) (disconnect func()) {
	pct := "-" + strconv.FormatFloat(margin*100, 'f', -1, 64) + "%"
	thresholds := make([]any, 0, 21)
	for i := 0; i <= 20; i++ {
		thresholds = append(thresholds, float64(i)/20)
	}
	opts := map[string]any{
		"rootMargin": pct + " 0px " + pct + " 0px",
		"threshold":  thresholds,
	}

	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		batch := make([]browser.Intersection, 0, entries.Length())
		for i := 0; i < entries.Length(); i++ {
			e := entries.Index(i)
			in := browser.Intersection{
				ID:           e.Get("target").Get("id").String(),
				Intersecting: e.Get("isIntersecting").Bool(),
			}
			if root := e.Get("rootBounds"); present(root) {
				if h := root.Get("height").Float(); h > 0 {
					in.Coverage = e.Get("intersectionRect").Get("height").Float() / h
				}
			}
			batch = append(batch, in)
		}
		fn(batch)
		return nil
	})

	obs := w.win.Get("IntersectionObserver").New(cb, opts)
	for _, id := range ids {
		if el := w.ByID(id); present(el) {
			obs.Call("observe", el)
		}
	}
	return func() {
		obs.Call("disconnect")
		cb.Release()
	}
}

// BodyStyle is what the scroll lock writes to
func (w *Window) BodyStyle() browser.Style {
	return bodyStyle{body: w.doc.Get("body")}
}

type bodyStyle struct{ body js.Value }

func (s bodyStyle) SetOverflow(v string) { s.body.Get("style").Set("overflow", v) }

type element struct {
	v  js.Value
	id string
}

func (e element) ID() string { return e.id }

func (e element) Rect() browser.Rect { return rectOf(e.v) }

func (e element) ScrollIntoView(smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	e.v.Call("scrollIntoView", map[string]any{"behavior": behavior, "block": "start"})
}

func (e element) Focus() { e.v.Call("focus", map[string]any{"preventScroll": true}) }

func rectOf(v js.Value) browser.Rect {
	r := v.Call("getBoundingClientRect")
	return browser.Rect{Top: r.Get("top").Float(), Bottom: r.Get("bottom").Float()}
}
