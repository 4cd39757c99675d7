// Package overlay is the resume drawer: a side panel embedding the resume
// viewer above the page.
package overlay

import (
	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/scrolllock"
)

// State of the drawer
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Visible is true from the open request until the close request
func (s State) Visible() bool {
	return s == Opening || s == Open
}

// Reason records what closed the drawer
type Reason int

const (
	ReasonNone Reason = iota
	ReasonButton
	ReasonBackdrop
	ReasonEscape
)

func (r Reason) String() string {
	switch r {
	case ReasonButton:
		return "button"
	case ReasonBackdrop:
		return "backdrop"
	case ReasonEscape:
		return "escape"
	default:
		return "none"
	}
}

// PanelID is the element focused on open
const PanelID = "resume-panel"

// Drawer is the resume overlay state machine
type Drawer struct {
	env  browser.Window
	lock *scrolllock.Lock
	src  string

	state     State
	reason    Reason
	viewerKey int
	mounted   bool

	release   scrolllock.Release
	removeEsc func()
	onChange  []func(*Drawer)
}

// New creates a closed drawer whose viewer loads src
func New(env browser.Window, lock *scrolllock.Lock, src string) *Drawer {
	return &Drawer{env: env, lock: lock, src: src}
}

// State is the current state
func (d *Drawer) State() State { return d.state }

// LastReason is what closed the drawer most recently
func (d *Drawer) LastReason() Reason { return d.reason }

// ViewerKey changes every time the viewer has to load from scratch
func (d *Drawer) ViewerKey() int { return d.viewerKey }

// ViewerMounted reports whether the embedded viewer exists
func (d *Drawer) ViewerMounted() bool { return d.mounted }

// ViewerSrc is the document the viewer embeds
func (d *Drawer) ViewerSrc() string { return d.src }

// OnChange registers fn to run after every state or viewer change
func (d *Drawer) OnChange(fn func(*Drawer)) {
	d.onChange = append(d.onChange, fn)
}

func (d *Drawer) changed() {
	for _, fn := range d.onChange {
		fn(d)
	}
}

// Open starts showing the drawer. It is a no-op while already visible.
func (d *Drawer) Open() {
	if d.state.Visible() {
		return
	}
	if !d.mounted {
		d.mounted = true
		d.viewerKey++
	}
	d.state = Opening
	d.reason = ReasonNone
	d.release = d.lock.Acquire("resume")
	d.removeEsc = d.env.Listen("keydown", func(ev browser.Event) {
		if ev.Key == "Escape" {
			d.Close(ReasonEscape)
		}
	})
	if panel, ok := d.env.Element(PanelID); ok {
		panel.Focus()
	}
	d.changed()
}

// Close starts hiding the drawer. The page scrolls again immediately, whether
// or not the viewer ever loaded.
func (d *Drawer) Close(reason Reason) bool {
	if !d.state.Visible() {
		return false
	}
	d.state = Closing
	d.reason = reason
	if d.removeEsc != nil {
		d.removeEsc()
		d.removeEsc = nil
	}
	if d.release != nil {
		d.release()
		d.release = nil
	}
	d.changed()
	return true
}

// TransitionEnd settles an in-flight transition
func (d *Drawer) TransitionEnd() {
	switch d.state {
	case Opening:
		d.state = Open
	case Closing:
		d.state = Closed
		d.mounted = false
	default:
		return
	}
	d.changed()
}

// Reset remounts the viewer, dropping its zoom and scroll position. The
// drawer stays open.
func (d *Drawer) Reset() {
	if !d.mounted {
		return
	}
	d.viewerKey++
	d.changed()
}

// Unmount tears the drawer down in any state. The Escape listener and the
// scroll lock are released and the viewer goes away, without change callbacks
// since nothing is left to render.
func (d *Drawer) Unmount() {
	if d.removeEsc != nil {
		d.removeEsc()
		d.removeEsc = nil
	}
	if d.release != nil {
		d.release()
		d.release = nil
	}
	d.state = Closed
	d.mounted = false
	d.onChange = nil
}
