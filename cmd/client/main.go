//go:build js && wasm

// Command client is the page script, compiled to WebAssembly and loaded by
// boot.js. The server rendered page works without it.
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"
	"time"

	"github.com/pkg/errors"

	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/browser/jsdom"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/nav"
	"github.com/nibin-org/portfolio/internal/overlay"
	"github.com/nibin-org/portfolio/internal/reveal"
	"github.com/nibin-org/portfolio/internal/scrolllock"
	"github.com/nibin-org/portfolio/internal/theme"
	"github.com/nibin-org/portfolio/internal/tracker"
)

const typeTick = 50 * time.Millisecond

type clientConfig struct {
	Sections  []string `json:"sections"`
	ResumeSrc string   `json:"resumeSrc"`
	HeroID    string   `json:"heroId"`
}

type page struct {
	win  *jsdom.Window
	doc  js.Value
	lock *scrolllock.Lock
	// teardown runs when the page is hidden for good
	teardown []func()
}

func main() {
	win := jsdom.NewWindow()
	p := &page{win: win, doc: win.Doc(), lock: scrolllock.New(win.BodyStyle())}

	cfg, err := p.config()
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		p.markPreloaderDone()
		return
	}

	tcfg := tracker.DefaultConfig(cfg.Sections)
	if cfg.HeroID != "" {
		tcfg.HeroID = cfg.HeroID
	}
	sections := tracker.New(tcfg, win)
	sections.Mount()
	p.teardown = append(p.teardown, sections.Close)

	p.navbar(sections)
	p.drawer(cfg.ResumeSrc)
	p.theme()
	p.tilt()
	p.intro()

	win.Listen("pagehide", func(browser.Event) {
		for i := len(p.teardown) - 1; i >= 0; i-- {
			p.teardown[i]()
		}
		p.teardown = nil
	})

	select {}
}

func (p *page) config() (clientConfig, error) {
	var cfg clientConfig
	raw := p.doc.Get("body").Call("getAttribute", "data-client")
	if raw.Type() != js.TypeString {
		return cfg, errors.New("page has no client config")
	}
	if err := json.Unmarshal([]byte(raw.String()), &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode client config")
	}
	return cfg, nil
}

func (p *page) all(selector string) []js.Value {
	list := p.doc.Call("querySelectorAll", selector)
	out := make([]js.Value, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

func (p *page) one(selector string) (js.Value, bool) {
	v := p.doc.Call("querySelector", selector)
	return v, !v.IsNull()
}

func toggleClass(el js.Value, name string, on bool) {
	el.Get("classList").Call("toggle", name, on)
}

func (p *page) navbar(src nav.ActiveSource) {
	var links []content.NavLink
	for _, a := range p.all(".navbar__link[data-nav]") {
		links = append(links, content.NavLink{
			Label: a.Get("textContent").String(),
			Href:  a.Call("getAttribute", "href").String(),
		})
	}
	bar := nav.New(p.win, p.lock, links)

	navEl, _ := p.one(".navbar")
	menu, hasMenu := p.one("#mobile-menu")
	toggle, hasToggle := p.one("#menu-toggle")

	bar.OnChange(func(n *nav.Navbar) {
		if !navEl.IsNull() {
			toggleClass(navEl, "scrolled", n.Scrolled())
		}
		for _, a := range p.all("[data-nav]") {
			active := n.Active() != "" && a.Call("getAttribute", "data-nav").String() == n.Active()
			toggleClass(a, "active", active)
			if active {
				a.Call("setAttribute", "aria-current", "page")
			} else {
				a.Call("removeAttribute", "aria-current")
			}
		}
		if hasMenu {
			toggleClass(menu, "is-open", n.MenuOpen())
			menu.Call("setAttribute", "aria-hidden", fmt.Sprint(!n.MenuOpen()))
		}
		if hasToggle {
			toggle.Call("setAttribute", "aria-expanded", fmt.Sprint(n.MenuOpen()))
			toggle.Call("setAttribute", "aria-label", n.MenuLabel())
		}
	})
	bar.Mount(src)
	p.teardown = append(p.teardown, bar.Unmount)

	if hasToggle {
		jsdom.On(toggle, "click", func(js.Value) { bar.ToggleMenu() })
	}
	for _, a := range p.all(".mobile-menu__link") {
		jsdom.On(a, "click", func(js.Value) { bar.NavClick() })
	}
}

func (p *page) drawer(src string) {
	d := overlay.New(p.win, p.lock, src)
	p.teardown = append(p.teardown, d.Unmount)
	panel, hasPanel := p.one("#" + overlay.PanelID)
	viewer, hasViewer := p.one("#resume-viewer")
	body := p.doc.Get("body")
	shownKey := 0

	d.OnChange(func(d *overlay.Drawer) {
		if hasPanel {
			panel.Call("setAttribute", "data-state", d.State().String())
		}
		toggleClass(body, "resume-open", d.State().Visible())
		if !hasViewer {
			return
		}
		switch {
		case !d.ViewerMounted():
			viewer.Set("innerHTML", "")
			shownKey = 0
		case d.ViewerKey() != shownKey:
			shownKey = d.ViewerKey()
			iframe := p.doc.Call("createElement", "iframe")
			iframe.Set("src", d.ViewerSrc())
			iframe.Set("title", "Resume")
			iframe.Set("className", "drawer__viewer")
			viewer.Call("replaceChildren", iframe)
		}
	})

	for _, b := range p.all("[data-resume-open]") {
		jsdom.On(b, "click", func(js.Value) { d.Open() })
	}
	if el, ok := p.one("#resume-close"); ok {
		jsdom.On(el, "click", func(js.Value) { d.Close(overlay.ReasonButton) })
	}
	if el, ok := p.one("#resume-backdrop"); ok {
		jsdom.On(el, "click", func(js.Value) { d.Close(overlay.ReasonBackdrop) })
	}
	if el, ok := p.one("#resume-reset"); ok {
		jsdom.On(el, "click", func(js.Value) { d.Reset() })
	}
	if hasPanel {
		jsdom.On(panel, "transitionend", func(ev js.Value) {
			// bubbled transitions of children do not settle the panel
			if ev.Get("target").Equal(panel) {
				d.TransitionEnd()
			}
		})
	}
}

func (p *page) theme() {
	root := p.doc.Get("documentElement")
	pref, _ := theme.ParsePreference(root.Call("getAttribute", "data-theme-pref").String())
	env := p.win.ThemeEnv()
	c := theme.NewController(env, pref)

	c.OnChange(func(c *theme.Controller) {
		btn, ok := p.one("[data-theme-toggle]")
		if !ok {
			return
		}
		btn.Call("setAttribute", "aria-label", c.Label())
		btn.Call("setAttribute", "title", c.Label())
		btn.Set("innerHTML", "")
		if icon := c.Icon(); icon != theme.IconNone {
			if tpl, ok := p.one("#icon-" + string(icon)); ok {
				btn.Call("append", tpl.Get("content").Call("cloneNode", true))
			}
		}
	})
	c.Mount()

	if mq := env.Media(); !mq.IsUndefined() && !mq.IsNull() {
		jsdom.On(mq, "change", func(js.Value) { c.SystemChanged() })
	}
	// htmx swaps the form, so listen on the document
	jsdom.On(p.doc, "click", func(ev js.Value) {
		if ev.Get("target").Call("closest", "[data-theme-toggle]").IsNull() {
			return
		}
		ev.Call("preventDefault")
		c.Toggle()
	})
}

func (p *page) tilt() {
	el, ok := p.one("[data-tilt]")
	if !ok {
		return
	}
	style := el.Get("style")
	jsdom.On(el, "mousemove", func(ev js.Value) {
		r := el.Call("getBoundingClientRect")
		rx, ry := reveal.Tilt(
			ev.Get("clientX").Float()-r.Get("left").Float(),
			ev.Get("clientY").Float()-r.Get("top").Float(),
			r.Get("width").Float(),
			r.Get("height").Float(),
		)
		style.Set("transform", fmt.Sprintf("perspective(1000px) rotateX(%gdeg) rotateY(%gdeg)", rx, ry))
	})
	jsdom.On(el, "mouseleave", func(js.Value) {
		style.Set("transform", "perspective(1000px) rotateX(0deg) rotateY(0deg)")
	})
}

func (p *page) markPreloaderDone() {
	if el, ok := p.one("#preloader"); ok {
		toggleClass(el, "is-done", true)
	}
}

// intro holds the page behind the preloader, then plays the hero entrance and
// arms the section reveals
func (p *page) intro() {
	runner := reveal.NewRunner(p.win, p.win.Stage(), reveal.Sections())
	pre := reveal.NewPreloader(p.win, p.lock)
	p.teardown = append(p.teardown, pre.Stop, runner.Unmount)
	pre.Start(func() {
		p.markPreloaderDone()
		runner.Mount()
		runner.Play(reveal.HeroEntrance())
		p.typewriter()
	})
}

func (p *page) typewriter() {
	el, ok := p.one("#hero-role")
	if !ok {
		return
	}
	var roles []string
	raw := el.Call("getAttribute", "data-roles")
	if raw.Type() != js.TypeString || json.Unmarshal([]byte(raw.String()), &roles) != nil || len(roles) == 0 {
		return
	}
	reveal.NewTypewriter(roles).Run(p.win, typeTick, func(s string) {
		el.Set("textContent", s)
	})
}
