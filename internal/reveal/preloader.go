package reveal

import (
	"time"

	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/scrolllock"
)

// PreloaderDuration covers the logo fade, the glow pulse and the slide out
const PreloaderDuration = 4 * time.Second

// Preloader holds the page still while the intro screen plays
type Preloader struct {
	timers   browser.Timers
	lock     *scrolllock.Lock
	duration time.Duration

	release scrolllock.Release
	cancel  func()
	visible bool
}

// NewPreloader creates a preloader that is visible until Start completes
func NewPreloader(timers browser.Timers, lock *scrolllock.Lock) *Preloader {
	return &Preloader{timers: timers, lock: lock, duration: PreloaderDuration, visible: true}
}

// Start locks scrolling and calls done once the intro has played
func (p *Preloader) Start(done func()) {
	if p.release != nil || !p.visible {
		return
	}
	p.release = p.lock.Acquire("preloader")
	p.cancel = p.timers.AfterFunc(p.duration, func() {
		p.finish()
		if done != nil {
			done()
		}
	})
}

// Visible reports whether the intro screen is still shown
func (p *Preloader) Visible() bool {
	return p.visible
}

// Stop ends the intro early without calling done
func (p *Preloader) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.finish()
}

func (p *Preloader) finish() {
	p.visible = false
	if p.release != nil {
		p.release()
	}
}
