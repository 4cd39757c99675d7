// Package reveal plays the one-shot entrance animations of the page sections.
//
// Tagged elements start offset and transparent and settle into place once their
// trigger crosses a line in the viewport. Nothing here affects layout. Unmount
// cancels whatever is still scheduled and leaves every element at rest.
package reveal

import (
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// State is the visual transform of an element
type State struct {
	X       float64
	Y       float64
	Scale   float64
	Opacity float64
}

// Rest is where every animation ends
var Rest = State{Scale: 1, Opacity: 1}

// Trigger selects what has to cross the start line
type Trigger int

const (
	// TriggerSection fires all elements when the section top crosses
	TriggerSection Trigger = iota
	// TriggerElement fires a named element, see Tween.TriggerID
	TriggerElement
	// TriggerSelf fires each element on its own
	TriggerSelf
)

// Tween animates one group of tagged elements from a start state to Rest
type Tween struct {
	Group     string // data-<group> attribute
	Trigger   Trigger
	TriggerID string
	// Start is the viewport fraction the trigger top has to reach, 0.8 = "top 80%"
	Start    float64
	From     State
	Duration time.Duration
	Stagger  time.Duration
	// Sequential chains the elements end to start instead of staggering
	Sequential bool
	Ease       string
}

// Step is the schedule of a single element
type Step struct {
	Index    int
	Delay    time.Duration
	Duration time.Duration
}

// Plan returns the per element schedule for n elements in document order
func Plan(tw Tween, n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		delay := time.Duration(i) * tw.Stagger
		if tw.Sequential {
			delay = time.Duration(i) * tw.Duration
		}
		steps[i] = Step{Index: i, Delay: delay, Duration: tw.Duration}
	}
	return steps
}

// Total is how long the whole group takes once triggered
func (tw Tween) Total(n int) time.Duration {
	if n == 0 {
		return 0
	}
	steps := Plan(tw, n)
	last := steps[n-1]
	return last.Delay + last.Duration
}

// Crossed reports whether a trigger at rect has reached the start line
func (tw Tween) Crossed(r browser.Rect, viewportHeight float64) bool {
	return r.Top <= tw.Start*viewportHeight
}

// Choreography is the set of tweens of one section
type Choreography struct {
	Section string
	Tweens  []Tween
}

const (
	EasePower3Out = "power3.out"
	EasePower4Out = "power4.out"
	EaseBackOut   = "back.out(1.7)"
	EaseNone      = "none"
	EaseInOut     = "power4.inOut"
)

var cssEases = map[string]string{
	EasePower3Out: "cubic-bezier(0.215, 0.61, 0.355, 1)",
	EasePower4Out: "cubic-bezier(0.165, 0.84, 0.44, 1)",
	EaseBackOut:   "cubic-bezier(0.34, 1.56, 0.64, 1)",
	EaseInOut:     "cubic-bezier(0.77, 0, 0.175, 1)",
	EaseNone:      "linear",
}

// CSSEase maps an ease name to a transition timing function
func CSSEase(name string) string {
	if e, ok := cssEases[name]; ok {
		return e
	}
	return "ease-out"
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Sections returns the page choreography, in document order
func Sections() []Choreography {
	return []Choreography{
		{
			Section: "about",
			Tweens: []Tween{
				{Group: "about-reveal", Start: 0.8, From: State{Y: 30, Scale: 1}, Duration: seconds(0.8), Stagger: seconds(0.1), Ease: EasePower3Out},
				{Group: "code-line", Trigger: TriggerElement, TriggerID: "about-terminal", Start: 0.7, From: State{X: -5, Scale: 1}, Duration: seconds(0.05), Sequential: true, Ease: EaseNone},
			},
		},
		{
			Section: "skills",
			Tweens: []Tween{
				{Group: "skill-category", Start: 0.8, From: State{Y: 40, Scale: 1}, Duration: seconds(0.8), Stagger: seconds(0.2), Ease: EasePower3Out},
				{Group: "skill-badge", Start: 0.7, From: State{Scale: 0.9}, Duration: seconds(0.5), Stagger: seconds(0.05), Ease: EaseBackOut},
			},
		},
		{
			Section: "experience",
			Tweens: []Tween{
				{Group: "experience-item", Trigger: TriggerSelf, Start: 0.85, From: State{X: -20, Scale: 1}, Duration: seconds(0.8), Ease: EasePower3Out},
			},
		},
		{
			Section: "projects",
			Tweens: []Tween{
				{Group: "project-reveal", Start: 0.75, From: State{Y: 50, Scale: 1}, Duration: seconds(1), Ease: EasePower4Out},
			},
		},
		{
			Section: "contact",
			Tweens: []Tween{
				{Group: "contact-reveal", Start: 0.8, From: State{Y: 30, Scale: 1}, Duration: seconds(0.8), Stagger: seconds(0.2), Ease: EasePower3Out},
			},
		},
	}
}
