// Package browsertest is an in-memory browser window for exercising the UI
// packages without a DOM.
package browsertest

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Element is a fake element laid out at a fixed document offset
type Element struct {
	w       *Window
	id      string
	top     float64
	height  float64
	Focused bool
}

func (e *Element) ID() string { return e.id }

func (e *Element) Rect() browser.Rect {
	return browser.Rect{Top: e.top - e.w.scrollY, Bottom: e.top + e.height - e.w.scrollY}
}

// ScrollIntoView aligns the element top with the viewport top. With
// HoldSmoothScroll set a smooth scroll is only recorded and the test moves the
// viewport itself.
func (e *Element) ScrollIntoView(smooth bool) {
	e.w.SmoothScrolls = append(e.w.SmoothScrolls, ScrollCall{ID: e.id, Smooth: smooth})
	if smooth && e.w.HoldSmoothScroll {
		return
	}
	e.w.ScrollTo(e.top)
}

func (e *Element) Focus() {
	for _, other := range e.w.elements {
		other.Focused = false
	}
	e.Focused = true
	e.w.FocusedID = e.id
}

// ScrollCall records a programmatic scroll
type ScrollCall struct {
	ID     string
	Smooth bool
}

type timer struct {
	seq      int
	at       time.Duration
	fn       func()
	canceled bool
}

type listener struct {
	name string
	fn   func(browser.Event)
	gone bool
}

type observation struct {
	ids    []string
	margin float64
	fn     func([]browser.Intersection)
	last   map[string]browser.Intersection
	gone   bool
}

// Window is a fake browser.Window with a manual clock
type Window struct {
	elements map[string]*Element
	order    []string
	scrollY  float64
	height   float64
	path     string
	hash     string

	ratioSteps int

	now       time.Duration
	seq       int
	timers    []*timer
	listeners []*listener
	observers []*observation

	// Replacements counts url rewrites. A real browser adds no history entry for them.
	Replacements  int
	SmoothScrolls []ScrollCall
	FocusedID     string

	// HoldSmoothScroll leaves smooth scrolls in flight, see Element.ScrollIntoView
	HoldSmoothScroll bool

	// ScrollRestoration is "manual" once a widget opted out of the browser's
	// restore on reload
	ScrollRestoration string
}

// NewWindow creates a window of the given viewport height at path
func NewWindow(height float64, path string) *Window {
	w := &Window{
		elements: make(map[string]*Element),
		height:   height,
		path:     path,
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		w.path, w.hash = path[:i], path[i:]
	}
	return w
}

// AddSection appends an element of the given height below the previous one
func (w *Window) AddSection(id string, height float64) *Element {
	top := 0.0
	if n := len(w.order); n > 0 {
		last := w.elements[w.order[n-1]]
		top = last.top + last.height
	}
	e := &Element{w: w, id: id, top: top, height: height}
	w.elements[id] = e
	w.order = append(w.order, id)
	return e
}

// Top returns the document offset of a section
func (w *Window) Top(id string) float64 {
	return w.elements[id].top
}

func (w *Window) Element(id string) (browser.Element, bool) {
	e, ok := w.elements[id]
	if !ok {
		return nil, false
	}
	return e, true
}

func (w *Window) ScrollY() float64 { return w.scrollY }
func (w *Window) Height() float64  { return w.height }
func (w *Window) Path() string     { return w.path }
func (w *Window) Hash() string     { return w.hash }

// URL is the path plus fragment as the address bar would show it
func (w *Window) URL() string { return w.path + w.hash }

func (w *Window) Replace(url string) {
	w.Replacements++
	if strings.HasPrefix(url, "#") {
		w.hash = url
		return
	}
	if i := strings.IndexByte(url, '#'); i >= 0 {
		w.path, w.hash = url[:i], url[i:]
		return
	}
	w.path, w.hash = url, ""
}

func (w *Window) ManualScrollRestoration() { w.ScrollRestoration = "manual" }

// ReportRatioSteps makes observers behave like an IntersectionObserver with n+1
// evenly spaced thresholds: an entry is only delivered when its intersection
// ratio, measured against the element's own height, crosses a step or when it
// starts or stops intersecting. Zero reports every change.
func (w *Window) ReportRatioSteps(n int) { w.ratioSteps = n }

func (w *Window) AfterFunc(d time.Duration, fn func()) func() {
	w.seq++
	t := &timer{seq: w.seq, at: w.now + d, fn: fn}
	w.timers = append(w.timers, t)
	return func() { t.canceled = true }
}

// Advance moves the clock forward running due timers in deadline order
func (w *Window) Advance(d time.Duration) {
	end := w.now + d
	for {
		next := w.nextTimer(end)
		if next == nil {
			break
		}
		w.now = next.at
		next.canceled = true
		next.fn()
	}
	w.now = end
}

func (w *Window) nextTimer(end time.Duration) *timer {
	var due []*timer
	for _, t := range w.timers {
		if !t.canceled && t.at <= end {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

// PendingTimers counts timers that have neither fired nor been cancelled
func (w *Window) PendingTimers() int {
	n := 0
	for _, t := range w.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

func (w *Window) Listen(name string, fn func(browser.Event)) func() {
	l := &listener{name: name, fn: fn}
	w.listeners = append(w.listeners, l)
	return func() { l.gone = true }
}

// Listeners counts attached listeners for an event name
func (w *Window) Listeners(name string) int {
	n := 0
	for _, l := range w.listeners {
		if !l.gone && l.name == name {
			n++
		}
	}
	return n
}

// Dispatch delivers an event to the attached listeners
func (w *Window) Dispatch(ev browser.Event) {
	for _, l := range append([]*listener(nil), w.listeners...) {
		if !l.gone && l.name == ev.Name {
			l.fn(ev)
		}
	}
}

// Key dispatches a keydown
func (w *Window) Key(key string) {
	w.Dispatch(browser.Event{Name: "keydown", Key: key})
}

func (w *Window) ObserveIntersections(ids []string, margin float64, fn func([]browser.Intersection)) func() {
	o := &observation{ids: ids, margin: margin, fn: fn, last: make(map[string]browser.Intersection)}
	w.observers = append(w.observers, o)
	// Like IntersectionObserver, the initial state arrives on the next turn
	cancel := w.AfterFunc(0, func() { w.deliver(o, true) })
	return func() {
		o.gone = true
		cancel()
	}
}

// Observers counts live intersection observers
func (w *Window) Observers() int {
	n := 0
	for _, o := range w.observers {
		if !o.gone {
			n++
		}
	}
	return n
}

// ScrollTo moves the viewport, notifies observers of changed entries and then
// dispatches a scroll event
func (w *Window) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	w.scrollY = y
	for _, o := range w.observers {
		if !o.gone {
			w.deliver(o, false)
		}
	}
	w.Dispatch(browser.Event{Name: "scroll"})
}

// ScrollSilently moves the viewport without notifying observers, as when a
// scroll happens before the observer callbacks are delivered
func (w *Window) ScrollSilently(y float64) {
	w.scrollY = y
	w.Dispatch(browser.Event{Name: "scroll"})
}

func (w *Window) deliver(o *observation, initial bool) {
	band := browser.NewBand(w.height, o.margin)
	var batch []browser.Intersection
	for _, id := range o.ids {
		e, ok := w.elements[id]
		if !ok {
			continue
		}
		hit, cov := band.Intersect(e.Rect())
		entry := browser.Intersection{ID: id, Intersecting: hit, Coverage: cov}
		prev, seen := o.last[id]
		if initial || !seen || w.crossed(prev, entry, band.Height(), e.height) {
			batch = append(batch, entry)
			o.last[id] = entry
		}
	}
	if len(batch) > 0 {
		o.fn(batch)
	}
}

// crossed reports whether next differs enough from the last delivered entry to
// be delivered
func (w *Window) crossed(prev, next browser.Intersection, bandHeight, height float64) bool {
	if w.ratioSteps <= 0 || height <= 0 {
		return prev != next
	}
	if prev.Intersecting != next.Intersecting {
		return true
	}
	step := func(cov float64) int {
		return int(math.Floor(cov * bandHeight / height * float64(w.ratioSteps)))
	}
	return step(prev.Coverage) != step(next.Coverage)
}

// Style is a fake body style
type Style struct {
	Overflow string
	Writes   int
}

func (s *Style) SetOverflow(v string) {
	s.Overflow = v
	s.Writes++
}
