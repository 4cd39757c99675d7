package overlay

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibin-org/portfolio/internal/browser/browsertest"
	"github.com/nibin-org/portfolio/internal/scrolllock"
)

const src = "/resume.pdf#view=FitH"

func newDrawer() (*browsertest.Window, *browsertest.Style, *scrolllock.Lock, *Drawer) {
	w := browsertest.NewWindow(800, "/")
	w.AddSection(PanelID, 800)
	style := &browsertest.Style{}
	lock := scrolllock.New(style)
	return w, style, lock, New(w, lock, src)
}

func TestOpenLocksAndFocuses(t *testing.T) {
	w, style, lock, d := newDrawer()

	d.Open()
	assert.Equal(t, Opening, d.State())
	assert.Equal(t, "hidden", style.Overflow)
	assert.Equal(t, []string{"resume"}, lock.Holders())
	assert.Equal(t, PanelID, w.FocusedID)
	assert.True(t, d.ViewerMounted())
	assert.Equal(t, src, d.ViewerSrc())
	assert.Equal(t, 1, w.Listeners("keydown"))

	d.TransitionEnd()
	assert.Equal(t, Open, d.State())

	d.Open()
	assert.Equal(t, 1, lock.Count(), "reopening an open drawer takes no extra hold")
}

func TestEveryCloseConverges(t *testing.T) {
	for _, reason := range []Reason{ReasonButton, ReasonBackdrop, ReasonEscape} {
		t.Run(reason.String(), func(t *testing.T) {
			w, style, lock, d := newDrawer()
			d.Open()
			d.TransitionEnd()

			if reason == ReasonEscape {
				w.Key("Escape")
			} else {
				require.True(t, d.Close(reason))
			}
			assert.Equal(t, Closing, d.State())
			assert.Equal(t, reason, d.LastReason())
			assert.False(t, lock.Held())
			assert.Equal(t, "", style.Overflow)
			assert.Zero(t, w.Listeners("keydown"))

			d.TransitionEnd()
			assert.Equal(t, Closed, d.State())
			assert.False(t, d.ViewerMounted())
		})
	}
}

func TestUnmountWhileOpen(t *testing.T) {
	w, style, lock, d := newDrawer()
	changes := 0
	d.OnChange(func(*Drawer) { changes++ })
	d.Open()
	d.TransitionEnd()
	require.Equal(t, 2, changes)

	d.Unmount()
	assert.Zero(t, w.Listeners("keydown"))
	assert.False(t, lock.Held())
	assert.Equal(t, "", style.Overflow)
	assert.Equal(t, Closed, d.State())
	assert.False(t, d.ViewerMounted())

	w.Key("Escape")
	d.Unmount()
	assert.Equal(t, 2, changes)
}

func TestUnmountKeepsOtherHolders(t *testing.T) {
	_, style, lock, d := newDrawer()
	menu := lock.Acquire("menu")
	d.Open()

	d.Unmount()
	assert.Equal(t, []string{"menu"}, lock.Holders())
	assert.Equal(t, "hidden", style.Overflow)
	menu()
	assert.Equal(t, "", style.Overflow)
}

func TestOtherKeysAreIgnored(t *testing.T) {
	w, _, _, d := newDrawer()
	d.Open()
	w.Key("Enter")
	assert.Equal(t, Opening, d.State())
}

func TestCloseWhenClosed(t *testing.T) {
	w, style, _, d := newDrawer()
	assert.False(t, d.Close(ReasonButton))
	w.Key("Escape")
	assert.Equal(t, Closed, d.State())
	assert.Zero(t, style.Writes)
}

func TestCloseKeepsMenuLock(t *testing.T) {
	_, style, lock, d := newDrawer()
	releaseMenu := lock.Acquire("menu")

	d.Open()
	d.Close(ReasonBackdrop)
	assert.Equal(t, "hidden", style.Overflow, "menu still open")

	releaseMenu()
	assert.Equal(t, "", style.Overflow)
}

func TestResetRemountsWithoutClosing(t *testing.T) {
	_, _, lock, d := newDrawer()
	var changes int
	d.OnChange(func(*Drawer) { changes++ })

	d.Reset()
	assert.Equal(t, 0, d.ViewerKey(), "nothing mounted yet")

	d.Open()
	d.TransitionEnd()
	key := d.ViewerKey()

	d.Reset()
	assert.Equal(t, key+1, d.ViewerKey())
	assert.Equal(t, Open, d.State())
	assert.True(t, lock.Held())
	assert.Equal(t, 3, changes)
}

func TestReopenWhileClosing(t *testing.T) {
	_, _, lock, d := newDrawer()
	d.Open()
	d.TransitionEnd()
	key := d.ViewerKey()

	d.Close(ReasonButton)
	d.Open()
	assert.Equal(t, Opening, d.State())
	assert.Equal(t, key, d.ViewerKey(), "viewer survived the aborted close")
	assert.Equal(t, 1, lock.Count())

	d.TransitionEnd()
	d.Close(ReasonButton)
	d.TransitionEnd()
	d.Open()
	assert.Equal(t, key+1, d.ViewerKey(), "fresh viewer after a full close")
}

func TestLockFollowsVisibility(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("lock and escape listener held exactly while visible", prop.ForAll(
		func(ops []int) bool {
			w, style, lock, d := newDrawer()
			for _, op := range ops {
				switch op {
				case 0:
					d.Open()
				case 1:
					d.Close(ReasonButton)
				case 2:
					d.Close(ReasonBackdrop)
				case 3:
					w.Key("Escape")
				case 4:
					d.TransitionEnd()
				case 5:
					d.Reset()
				}
				visible := d.State().Visible()
				if lock.Held() != visible || (style.Overflow == "hidden") != visible {
					return false
				}
				if (w.Listeners("keydown") == 1) != visible {
					return false
				}
				if d.State() == Closed && d.ViewerMounted() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
