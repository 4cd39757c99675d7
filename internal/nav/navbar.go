// Package nav is the sticky navigation bar: the scrolled style, the active
// link and the mobile menu.
package nav

import (
	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/scrolllock"
)

// ScrolledAfter is the scroll offset past which the bar gets its solid style
const ScrolledAfter = 20.0

// Item is one rendered nav link
type Item struct {
	Label  string
	Href   string
	ID     string
	Active bool
}

// AriaCurrent is the aria-current attribute value, empty to omit it
func (i Item) AriaCurrent() string {
	if i.Active {
		return "page"
	}
	return ""
}

// Items marks the link of the active section. An empty active id, the hero,
// marks nothing.
func Items(links []content.NavLink, active string) []Item {
	items := make([]Item, len(links))
	for i, l := range links {
		items[i] = Item{Label: l.Label, Href: l.Href, ID: l.ID(), Active: active != "" && l.ID() == active}
	}
	return items
}

// ActiveSource reports the section in focus, the tracker in practice
type ActiveSource interface {
	Active() string
	Subscribe(fn func(active string)) (cancel func())
}

// Navbar holds the client state of the bar
type Navbar struct {
	env   browser.Window
	lock  *scrolllock.Lock
	links []content.NavLink

	scrolled bool
	menuOpen bool
	active   string

	release  scrolllock.Release
	detach   []func()
	onChange []func(*Navbar)
}

func New(env browser.Window, lock *scrolllock.Lock, links []content.NavLink) *Navbar {
	return &Navbar{env: env, lock: lock, links: links}
}

// Mount follows the scroll position and the active section of src
func (n *Navbar) Mount(src ActiveSource) {
	n.detach = append(n.detach, n.env.Listen("scroll", func(browser.Event) {
		n.setScrolled(n.env.ScrollY() > ScrolledAfter)
	}))
	n.scrolled = n.env.ScrollY() > ScrolledAfter
	if src != nil {
		n.active = src.Active()
		n.detach = append(n.detach, src.Subscribe(func(id string) {
			n.active = id
			n.changed()
		}))
	}
	n.changed()
}

// Unmount detaches listeners and gives the scroll lock back
func (n *Navbar) Unmount() {
	for _, d := range n.detach {
		d()
	}
	n.detach = nil
	n.CloseMenu()
}

func (n *Navbar) setScrolled(v bool) {
	if v == n.scrolled {
		return
	}
	n.scrolled = v
	n.changed()
}

func (n *Navbar) OnChange(fn func(*Navbar)) {
	n.onChange = append(n.onChange, fn)
}

func (n *Navbar) changed() {
	for _, fn := range n.onChange {
		fn(n)
	}
}

func (n *Navbar) Scrolled() bool { return n.scrolled }
func (n *Navbar) MenuOpen() bool { return n.menuOpen }
func (n *Navbar) Active() string { return n.active }
func (n *Navbar) Items() []Item  { return Items(n.links, n.active) }

// MenuLabel is the accessible name of the hamburger button
func (n *Navbar) MenuLabel() string {
	if n.menuOpen {
		return "Close menu"
	}
	return "Open menu"
}

// ToggleMenu opens or closes the mobile menu
func (n *Navbar) ToggleMenu() {
	if n.menuOpen {
		n.CloseMenu()
		return
	}
	n.OpenMenu()
}

func (n *Navbar) OpenMenu() {
	if n.menuOpen {
		return
	}
	n.menuOpen = true
	n.release = n.lock.Acquire("menu")
	n.changed()
}

func (n *Navbar) CloseMenu() {
	if !n.menuOpen {
		return
	}
	n.menuOpen = false
	if n.release != nil {
		n.release()
		n.release = nil
	}
	n.changed()
}

// NavClick follows an in-page link from the mobile menu
func (n *Navbar) NavClick() {
	n.CloseMenu()
}
