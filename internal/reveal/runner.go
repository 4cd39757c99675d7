package reveal

import (
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Node is an animatable element
type Node interface {
	Rect() browser.Rect
	// Set jumps to s without a transition
	Set(s State)
	// Animate transitions to s
	Animate(s State, d time.Duration, ease string)
}

// Stage finds the tagged elements of a section, in document order
type Stage interface {
	Nodes(section, group string) []Node
}

type pending struct {
	section string
	tween   Tween
	nodes   []Node
	// fired per element for TriggerSelf, a single flag otherwise
	fired []bool
	done  bool
}

// Runner mounts the choreography of a page
type Runner struct {
	env     browser.Window
	stage   Stage
	choreos []Choreography

	pending []*pending
	touched []Node
	cancels []func()
	remove  func()
	mounted bool
}

// NewRunner creates an unmounted runner
func NewRunner(env browser.Window, stage Stage, choreos []Choreography) *Runner {
	return &Runner{env: env, stage: stage, choreos: choreos}
}

// Mount hides every tagged element and fires whatever is already in view
func (r *Runner) Mount() {
	if r.mounted {
		return
	}
	r.mounted = true

	for _, c := range r.choreos {
		for _, tw := range c.Tweens {
			nodes := r.stage.Nodes(c.Section, tw.Group)
			if len(nodes) == 0 {
				continue
			}
			for _, n := range nodes {
				n.Set(tw.From)
			}
			r.touched = append(r.touched, nodes...)
			p := &pending{section: c.Section, tween: tw, nodes: nodes, fired: []bool{false}}
			if tw.Trigger == TriggerSelf {
				p.fired = make([]bool, len(nodes))
			}
			r.pending = append(r.pending, p)
		}
	}

	r.remove = r.env.Listen("scroll", func(browser.Event) { r.Check() })
	r.Check()
}

// Check fires every trigger that has crossed its start line
func (r *Runner) Check() {
	if !r.mounted {
		return
	}
	vh := r.env.Height()
	open := 0
	for _, p := range r.pending {
		if p.done {
			continue
		}
		r.checkOne(p, vh)
		if !p.done {
			open++
		}
	}
	if open == 0 && r.remove != nil {
		r.remove()
		r.remove = nil
	}
}

func (r *Runner) checkOne(p *pending, vh float64) {
	tw := p.tween
	switch tw.Trigger {
	case TriggerSelf:
		left := 0
		for i, n := range p.nodes {
			if p.fired[i] {
				continue
			}
			if tw.Crossed(n.Rect(), vh) {
				p.fired[i] = true
				r.play(n, tw, 0)
				continue
			}
			left++
		}
		p.done = left == 0
	default:
		id := p.section
		if tw.Trigger == TriggerElement {
			id = tw.TriggerID
		}
		el, ok := r.env.Element(id)
		if !ok {
			// nothing can ever trigger this group, leave it at rest
			for _, n := range p.nodes {
				n.Set(Rest)
			}
			p.done = true
			return
		}
		if !tw.Crossed(el.Rect(), vh) {
			return
		}
		p.fired[0] = true
		p.done = true
		for _, s := range Plan(tw, len(p.nodes)) {
			r.play(p.nodes[s.Index], tw, s.Delay)
		}
	}
}

func (r *Runner) play(n Node, tw Tween, delay time.Duration) {
	if delay <= 0 {
		n.Animate(Rest, tw.Duration, tw.Ease)
		return
	}
	r.cancels = append(r.cancels, r.env.AfterFunc(delay, func() {
		n.Animate(Rest, tw.Duration, tw.Ease)
	}))
}

// Fired reports whether a section group has been triggered. For per element
// triggers it is true once every element fired.
func (r *Runner) Fired(section, group string) bool {
	for _, p := range r.pending {
		if p.section == section && p.tween.Group == group {
			return p.done
		}
	}
	return false
}

// Unmount cancels scheduled animations and puts every element at rest
func (r *Runner) Unmount() {
	if !r.mounted {
		return
	}
	r.mounted = false
	if r.remove != nil {
		r.remove()
		r.remove = nil
	}
	for _, c := range r.cancels {
		c()
	}
	r.cancels = nil
	for _, n := range r.touched {
		n.Set(Rest)
	}
	r.touched = nil
	r.pending = nil
}
