// Package tracker decides which page section is active while the visitor
// scrolls and mirrors it into the url fragment.
//
// A section is a candidate while it crosses the band in the middle of the
// viewport. Among candidates the one covering most of the band wins, ties going
// to the section earlier in the document. The hero section selects nothing and
// keeps the url fragment-free.
package tracker

import (
	"strings"
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Config tunes the tracker
type Config struct {
	// Sections in document order, hero first
	Sections []string
	// Margin insets the band from the top and bottom, as a fraction of the viewport
	Margin float64
	// TopThreshold is the scroll offset under which hero is forced
	TopThreshold float64
	// InitialDelay before scrolling to a fragment present at load
	InitialDelay time.Duration

	// InitialHold caps how long that scroll may keep the fragment pinned
	InitialHold time.Duration
	HeroID      string
}

// DefaultConfig observes sections against the middle 20% of the viewport
func DefaultConfig(sections []string) Config {
	return Config{
		Sections:     sections,
		Margin:       0.4,
		TopThreshold: 50,
		InitialDelay: 100 * time.Millisecond,
		InitialHold:  time.Second,
		HeroID:       "hero",
	}
}

// Tracker follows the active section of a mounted page
type Tracker struct {
	cfg     Config
	env     browser.Window
	order   map[string]int
	entries map[string]browser.Intersection

	active      string
	subscribers map[int]func(string)
	nextSub     int

	// set from mount until the load-time fragment scroll has reached its target
	initialTarget string
	scrolling     bool

	cleanups []func()
	mounted  bool
	closed   bool
}

// New creates an unmounted tracker
func New(cfg Config, env browser.Window) *Tracker {
	if cfg.HeroID == "" {
		cfg.HeroID = "hero"
	}
	order := make(map[string]int, len(cfg.Sections))
	for i, id := range cfg.Sections {
		if _, dup := order[id]; !dup {
			order[id] = i
		}
	}
	return &Tracker{
		cfg:         cfg,
		env:         env,
		order:       order,
		entries:     make(map[string]browser.Intersection),
		subscribers: make(map[int]func(string)),
	}
}

// Mount starts observing. Sections whose element is missing are skipped.
func (t *Tracker) Mount() {
	if t.mounted || t.closed {
		return
	}
	t.mounted = true
	t.env.ManualScrollRestoration()

	var ids []string
	for _, id := range t.cfg.Sections {
		if _, ok := t.env.Element(id); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		t.cleanups = append(t.cleanups, t.env.ObserveIntersections(ids, t.cfg.Margin, t.Observe))
	}
	t.cleanups = append(t.cleanups, t.env.Listen("scroll", func(browser.Event) { t.onScroll() }))

	hash := strings.TrimPrefix(t.env.Hash(), "#")
	if hash != "" && hash != t.cfg.HeroID {
		// Smooth scroll once layout has settled rather than the native jump
		t.initialTarget = hash
		cancel := t.env.AfterFunc(t.cfg.InitialDelay, func() {
			el, ok := t.env.Element(hash)
			if !ok {
				t.release()
				return
			}
			t.scrolling = true
			t.cleanups = append(t.cleanups, t.env.AfterFunc(t.cfg.InitialHold, t.release))
			el.ScrollIntoView(true)
		})
		t.cleanups = append(t.cleanups, cancel)
	}
}

// Observe feeds intersection changes. Unknown ids are ignored.
func (t *Tracker) Observe(batch []browser.Intersection) {
	if t.closed {
		return
	}
	for _, e := range batch {
		if _, known := t.order[e.ID]; !known {
			continue
		}
		t.entries[e.ID] = e
	}
	if t.initialTarget != "" {
		// the fragment from the url stays until the scroll towards it arrives
		if e := t.entries[t.initialTarget]; !t.scrolling || !e.Intersecting {
			return
		}
		t.initialTarget, t.scrolling = "", false
	}
	t.update()
}

// release ends the hold on the load-time fragment
func (t *Tracker) release() {
	if t.closed || t.initialTarget == "" {
		return
	}
	t.initialTarget, t.scrolling = "", false
	t.update()
}

func (t *Tracker) update() {
	best, ok := t.pick()
	if !ok {
		// between candidates the previous selection stays
		return
	}
	t.activate(best)
}

// pick returns the intersecting section covering most of the band. The
// observer only reports threshold crossings, so coverage is measured from the
// current layout rather than taken from the last entry.
func (t *Tracker) pick() (string, bool) {
	band := browser.NewBand(t.env.Height(), t.cfg.Margin)
	best, bestCov := "", -1.0
	for _, id := range t.cfg.Sections {
		e, ok := t.entries[id]
		if !ok || !e.Intersecting {
			continue
		}
		cov := e.Coverage
		if el, found := t.env.Element(id); found {
			_, cov = band.Intersect(el.Rect())
		}
		if cov > bestCov {
			best, bestCov = id, cov
		}
	}
	return best, bestCov >= 0
}

func (t *Tracker) activate(id string) {
	if id == t.cfg.HeroID {
		t.clear()
		return
	}
	if want := "#" + id; t.env.Hash() != want {
		t.env.Replace(want)
	}
	t.set(id)
}

func (t *Tracker) clear() {
	if t.env.Hash() != "" {
		t.env.Replace(t.env.Path())
	}
	t.set("")
}

func (t *Tracker) set(id string) {
	if id == t.active {
		return
	}
	t.active = id
	for _, fn := range t.subscribers {
		fn(id)
	}
}

func (t *Tracker) onScroll() {
	if t.closed || t.initialTarget != "" {
		return
	}
	if t.env.ScrollY() < t.cfg.TopThreshold {
		t.clear()
		return
	}
	t.update()
}

// Active is the selected section id, empty for hero or nothing
func (t *Tracker) Active() string {
	return t.active
}

// Subscribe registers fn for selection changes and returns its cancel
func (t *Tracker) Subscribe(fn func(active string)) (cancel func()) {
	id := t.nextSub
	t.nextSub++
	t.subscribers[id] = fn
	return func() { delete(t.subscribers, id) }
}

// Close detaches the observer, the scroll listener and any pending timer
func (t *Tracker) Close() {
	if t.closed {
		return
	}
	t.closed = true
	for _, fn := range t.cleanups {
		fn()
	}
	t.cleanups = nil
	t.subscribers = make(map[int]func(string))
	t.initialTarget, t.scrolling = "", false
}
