package reveal

import "time"

// Cue is one entry of a timeline. Offset is relative to the end of the
// previous cue, so a negative offset overlaps it.
type Cue struct {
	Group    string
	From     State
	Duration time.Duration
	Offset   time.Duration
}

// Timeline is a chain of cues played once on mount
type Timeline struct {
	Section string
	Ease    string
	Cues    []Cue
}

// Scheduled is a cue placed on the absolute time axis
type Scheduled struct {
	Cue
	At time.Duration
}

// Schedule resolves relative offsets into start times
func (tl Timeline) Schedule() []Scheduled {
	out := make([]Scheduled, 0, len(tl.Cues))
	var end time.Duration
	for _, c := range tl.Cues {
		at := end + c.Offset
		if at < 0 {
			at = 0
		}
		out = append(out, Scheduled{Cue: c, At: at})
		if e := at + c.Duration; e > end {
			end = e
		}
	}
	return out
}

// Duration is when the last cue settles
func (tl Timeline) Duration() time.Duration {
	var end time.Duration
	for _, s := range tl.Schedule() {
		if e := s.At + s.Duration; e > end {
			end = e
		}
	}
	return end
}

// HeroEntrance is the staggered intro of the hero content
func HeroEntrance() Timeline {
	return Timeline{
		Section: "hero",
		Ease:    EasePower3Out,
		Cues: []Cue{
			{Group: "hero-badge", From: State{Y: 20, Scale: 1}, Duration: seconds(0.6)},
			{Group: "hero-name", From: State{Y: 40, Scale: 1}, Duration: seconds(0.7), Offset: -seconds(0.3)},
			{Group: "hero-title", From: State{Y: 30, Scale: 1}, Duration: seconds(0.6), Offset: -seconds(0.4)},
			{Group: "hero-tagline", From: State{Y: 20, Scale: 1}, Duration: seconds(0.6), Offset: -seconds(0.4)},
			{Group: "hero-cta", From: State{Y: 20, Scale: 1}, Duration: seconds(0.5), Offset: -seconds(0.4)},
			{Group: "hero-stats", From: State{Y: 20, Scale: 1}, Duration: seconds(0.5), Offset: -seconds(0.3)},
			{Group: "scroll-hint", From: State{Scale: 1}, Duration: seconds(0.6), Offset: -seconds(0.2)},
		},
	}
}

// Play hides the timeline's elements and schedules each cue. It is cancelled
// by Unmount like the scroll triggered tweens.
func (r *Runner) Play(tl Timeline) {
	if !r.mounted {
		return
	}
	for _, s := range tl.Schedule() {
		nodes := r.stage.Nodes(tl.Section, s.Group)
		for _, n := range nodes {
			n.Set(s.From)
		}
		r.touched = append(r.touched, nodes...)

		tw := Tween{Duration: s.Duration, Ease: tl.Ease}
		for _, n := range nodes {
			r.play(n, tw, s.At)
		}
	}
}
