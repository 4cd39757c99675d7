package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibin-org/portfolio/internal/browser/browsertest"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/scrolllock"
	"github.com/nibin-org/portfolio/internal/tracker"
)

func setup(t *testing.T) (*browsertest.Window, *browsertest.Style, *tracker.Tracker, *Navbar) {
	t.Helper()
	profile := content.Default()
	w := browsertest.NewWindow(1000, "/")
	for _, id := range profile.SectionIDs() {
		w.AddSection(id, 1200)
	}
	style := &browsertest.Style{}
	lock := scrolllock.New(style)

	tr := tracker.New(tracker.DefaultConfig(profile.SectionIDs()), w)
	n := New(w, lock, profile.NavLinks)
	n.Mount(tr)
	tr.Mount()
	w.Advance(0)
	t.Cleanup(func() {
		n.Unmount()
		tr.Close()
	})
	return w, style, tr, n
}

func TestItemsMarkActive(t *testing.T) {
	links := content.Default().NavLinks
	items := Items(links, "skills")
	require.Len(t, items, len(links))

	var active []string
	for _, it := range items {
		if it.Active {
			active = append(active, it.ID)
			assert.Equal(t, "page", it.AriaCurrent())
		} else {
			assert.Equal(t, "", it.AriaCurrent())
		}
	}
	assert.Equal(t, []string{"skills"}, active)

	for _, it := range Items(links, "") {
		assert.False(t, it.Active)
	}
}

func TestNavbarFollowsTracker(t *testing.T) {
	w, _, _, n := setup(t)
	assert.False(t, n.Scrolled())
	assert.Equal(t, "", n.Active())

	w.ScrollTo(w.Top("projects"))
	assert.True(t, n.Scrolled())
	assert.Equal(t, "projects", n.Active())

	var active []string
	for _, it := range n.Items() {
		if it.Active {
			active = append(active, it.ID)
		}
	}
	assert.Equal(t, []string{"projects"}, active)

	w.ScrollTo(10)
	assert.False(t, n.Scrolled())
	assert.Equal(t, "", n.Active())
}

func TestMenuTakesScrollLock(t *testing.T) {
	_, style, _, n := setup(t)
	assert.Equal(t, "Open menu", n.MenuLabel())

	n.ToggleMenu()
	assert.True(t, n.MenuOpen())
	assert.Equal(t, "hidden", style.Overflow)
	assert.Equal(t, "Close menu", n.MenuLabel())

	n.NavClick()
	assert.False(t, n.MenuOpen())
	assert.Equal(t, "", style.Overflow)

	n.NavClick()
	assert.Equal(t, 2, style.Writes)
}

func TestUnmountReleasesMenu(t *testing.T) {
	w, style, _, n := setup(t)
	changes := 0
	n.OnChange(func(*Navbar) { changes++ })

	n.OpenMenu()
	n.Unmount()
	assert.Equal(t, "", style.Overflow)
	assert.Equal(t, 2, changes)

	w.ScrollTo(w.Top("contact"))
	assert.Equal(t, 2, changes, "no updates after unmount")
}
