package reveal

import (
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Typewriter types each role, holds it, erases it and moves on, forever
type Typewriter struct {
	Roles []string
	Delay time.Duration // before typing starts
	Type  time.Duration
	Hold  time.Duration
	Erase time.Duration
}

// NewTypewriter uses the hero pacing: 0.5s pause, 1.5s typing, 2s hold, 0.8s erase
func NewTypewriter(roles []string) Typewriter {
	return Typewriter{
		Roles: roles,
		Delay: 500 * time.Millisecond,
		Type:  1500 * time.Millisecond,
		Hold:  2 * time.Second,
		Erase: 800 * time.Millisecond,
	}
}

func (tw Typewriter) cycle() time.Duration {
	return tw.Delay + tw.Type + tw.Hold + tw.Erase
}

// Period is one pass over every role
func (tw Typewriter) Period() time.Duration {
	return time.Duration(len(tw.Roles)) * tw.cycle()
}

// Frame is the visible text at elapsed time since start
func (tw Typewriter) Frame(elapsed time.Duration) string {
	if len(tw.Roles) == 0 || tw.cycle() <= 0 {
		return ""
	}
	if elapsed < 0 {
		elapsed = 0
	}
	elapsed %= tw.Period()
	role := []rune(tw.Roles[int(elapsed/tw.cycle())])
	t := elapsed % tw.cycle()

	switch {
	case t < tw.Delay:
		return ""
	case t < tw.Delay+tw.Type:
		return string(role[:chars(len(role), t-tw.Delay, tw.Type)])
	case t < tw.Delay+tw.Type+tw.Hold:
		return string(role)
	default:
		gone := chars(len(role), t-tw.Delay-tw.Type-tw.Hold, tw.Erase)
		return string(role[:len(role)-gone])
	}
}

// chars is how many of n characters a linear ease has covered after part of whole
func chars(n int, part, whole time.Duration) int {
	if whole <= 0 {
		return n
	}
	c := int(int64(n) * int64(part) / int64(whole))
	if c > n {
		return n
	}
	return c
}

// Run writes frames to set every tick until the returned stop is called
func (tw Typewriter) Run(timers browser.Timers, tick time.Duration, set func(string)) (stop func()) {
	var (
		elapsed time.Duration
		cancel  func()
		stopped bool
		last    = "\x00"
	)
	var step func()
	step = func() {
		if stopped {
			return
		}
		if f := tw.Frame(elapsed); f != last {
			last = f
			set(f)
		}
		elapsed += tick
		cancel = timers.AfterFunc(tick, step)
	}
	step()
	return func() {
		stopped = true
		if cancel != nil {
			cancel()
		}
	}
}
