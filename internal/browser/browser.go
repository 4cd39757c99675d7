// Package browser declares the slice of the page environment the UI packages
// drive. The wasm client implements it over syscall/js (see jsdom) and tests use
// the deterministic fake in browsertest.
package browser

import "time"

// Rect is an element's bounding box relative to the viewport, in CSS pixels
type Rect struct {
	Top    float64
	Bottom float64
}

// Height of the box
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Element is a DOM node addressed by id
type Element interface {
	ID() string
	Rect() Rect
	ScrollIntoView(smooth bool)
	Focus()
}

// Document resolves element ids
type Document interface {
	Element(id string) (Element, bool)
}

// Viewport exposes the scroll position and visible height
type Viewport interface {
	ScrollY() float64
	Height() float64
}

// Location is the page url. Replace rewrites it without a history entry and
// without the native jump to an anchor.
type Location interface {
	Path() string
	Hash() string
	Replace(url string)
	// ManualScrollRestoration stops the browser restoring the scroll offset on
	// reload, so only the fragment decides where the page starts
	ManualScrollRestoration()
}

// Timers schedules callbacks on the event loop. The returned cancel is safe to
// call more than once and after the callback ran.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Event is the payload of a listened DOM event
type Event struct {
	Name string
	Key  string
}

// Events attaches listeners to the window or document. The returned remove
// detaches exactly that listener.
type Events interface {
	Listen(name string, fn func(Event)) (remove func())
}

// Style is the document body style the scroll lock writes
type Style interface {
	SetOverflow(value string)
}

// Intersection reports how much of the observation band a section covers.
// Coverage is the intersecting height divided by the band height.
type Intersection struct {
	ID           string
	Intersecting bool
	Coverage     float64
}

// Observers watches elements against a band inset from the top and bottom of
// the viewport by margin (a fraction of the viewport height).
type Observers interface {
	ObserveIntersections(ids []string, margin float64, fn func([]Intersection)) (disconnect func())
}

// Window bundles everything a mounted widget may touch
type Window interface {
	Document
	Viewport
	Location
	Timers
	Events
	Observers
}
