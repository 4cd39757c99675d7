// Package scrolllock arbitrates the body overflow style between overlays.
// Every overlay acquires on open and releases on close; the page scrolls again
// only once the last holder has released.
package scrolllock

import (
	"sort"
	"sync"

	"github.com/nibin-org/portfolio/internal/browser"
)

// Release gives up one hold. Calling it again is a no-op.
type Release func()

// Lock is a reference counted body scroll lock
type Lock struct {
	mu      sync.Mutex
	style   browser.Style
	holders map[string]int
	count   int
}

// New creates a lock writing to style
func New(style browser.Style) *Lock {
	return &Lock{style: style, holders: make(map[string]int)}
}

// Acquire takes a hold for owner. The first hold hides the overflow.
func (l *Lock) Acquire(owner string) Release {
	l.mu.Lock()
	l.count++
	l.holders[owner]++
	if l.count == 1 {
		l.style.SetOverflow("hidden")
	}
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.release(owner) })
	}
}

func (l *Lock) release(owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count--
	if l.holders[owner]--; l.holders[owner] <= 0 {
		delete(l.holders, owner)
	}
	if l.count == 0 {
		l.style.SetOverflow("")
	}
}

// Held reports whether any overlay still holds the lock
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}

// Count is the number of outstanding holds
func (l *Lock) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Holders lists the owners with outstanding holds, sorted
func (l *Lock) Holders() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	owners := make([]string, 0, len(l.holders))
	for o := range l.holders {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}
