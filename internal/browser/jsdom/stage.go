//go:build js && wasm

package jsdom

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/reveal"
	"github.com/nibin-org/portfolio/internal/theme"
)

// Stage looks tweened elements up by their data attribute
type Stage struct{ doc js.Value }

func (w *Window) Stage() Stage { return Stage{doc: w.doc} }

var _ reveal.Stage = Stage{}

func (s Stage) Nodes(section, group string) []reveal.Node {
	list := s.doc.Call("querySelectorAll", fmt.Sprintf("#%s [data-%s]", section, group))
	nodes := make([]reveal.Node, list.Length())
	for i := range nodes {
		nodes[i] = node{v: list.Index(i)}
	}
	return nodes
}

type node struct{ v js.Value }

func (n node) Rect() browser.Rect { return rectOf(n.v) }

func (n node) Set(s reveal.State) {
	style := n.v.Get("style")
	style.Set("transition", "none")
	apply(style, s)
}

func (n node) Animate(s reveal.State, d time.Duration, ease string) {
	style := n.v.Get("style")
	style.Set("transition", fmt.Sprintf("transform %dms %s, opacity %dms %s",
		d.Milliseconds(), reveal.CSSEase(ease), d.Milliseconds(), reveal.CSSEase(ease)))
	apply(style, s)
}

func apply(style js.Value, s reveal.State) {
	if s == reveal.Rest {
		style.Set("transform", "")
		style.Set("opacity", "")
		return
	}
	style.Set("transform", fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", s.X, s.Y, s.Scale))
	style.Set("opacity", fmt.Sprintf("%g", s.Opacity))
}

// ThemeEnv backs theme.Controller with matchMedia, the root class and the
// theme cookie
type ThemeEnv struct {
	win js.Value
	doc js.Value
}

func (w *Window) ThemeEnv() ThemeEnv { return ThemeEnv{win: w.win, doc: w.doc} }

var _ theme.Env = ThemeEnv{}

const darkQuery = "(prefers-color-scheme: dark)"

// Media is the prefers-color-scheme query list, undefined when unsupported
func (e ThemeEnv) Media() js.Value {
	mm := e.win.Get("matchMedia")
	if mm.Type() != js.TypeFunction {
		return js.Undefined()
	}
	return e.win.Call("matchMedia", darkQuery)
}

func (e ThemeEnv) SystemDark() (dark, ok bool) {
	mq := e.Media()
	if !present(mq) {
		return false, false
	}
	return mq.Get("matches").Bool(), true
}

func (e ThemeEnv) Apply(t theme.Theme) {
	root := e.doc.Get("documentElement")
	cl := root.Get("classList")
	cl.Call("remove", string(theme.ThemeLight), string(theme.ThemeDark))
	cl.Call("add", string(t))
	root.Call("setAttribute", "data-theme", string(t))
}

func (e ThemeEnv) Persist(p theme.Preference) {
	e.doc.Set("cookie", theme.CookieString(p))
	e.doc.Get("documentElement").Call("setAttribute", "data-theme-pref", string(p))
}
