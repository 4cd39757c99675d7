package tracker

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibin-org/portfolio/internal/browser"
	"github.com/nibin-org/portfolio/internal/browser/browsertest"
)

var sections = []string{"hero", "about", "skills", "experience", "projects", "contact"}

func newPage(t *testing.T, url string) (*browsertest.Window, *Tracker) {
	t.Helper()
	w := browsertest.NewWindow(1000, url)
	for _, id := range sections {
		w.AddSection(id, 1200)
	}
	tr := New(DefaultConfig(sections), w)
	t.Cleanup(tr.Close)
	return w, tr
}

func mount(w *browsertest.Window, tr *Tracker) {
	tr.Mount()
	w.Advance(0)
}

func TestScrollingThroughSections(t *testing.T) {
	w, tr := newPage(t, "/")
	var changes []string
	tr.Subscribe(func(id string) { changes = append(changes, id) })
	mount(w, tr)

	assert.Equal(t, "", tr.Active())
	assert.Equal(t, "/", w.URL())

	w.ScrollTo(w.Top("skills") + 100)
	assert.Equal(t, "skills", tr.Active())
	assert.Equal(t, "/#skills", w.URL())

	w.ScrollTo(w.Top("projects"))
	assert.Equal(t, "projects", tr.Active())
	assert.Equal(t, "/#projects", w.URL())

	w.ScrollTo(300)
	assert.Equal(t, "", tr.Active(), "hero covers the band again")
	assert.Equal(t, "/", w.URL())

	assert.Equal(t, []string{"skills", "projects", ""}, changes)
}

func TestHeroClearsFragment(t *testing.T) {
	w, tr := newPage(t, "/")
	mount(w, tr)

	w.ScrollTo(w.Top("contact"))
	require.Equal(t, "/#contact", w.URL())

	w.ScrollTo(300)
	assert.Equal(t, "", tr.Active())
	assert.Equal(t, "/", w.URL())
}

func TestNearTopOverridesStaleSelection(t *testing.T) {
	w, tr := newPage(t, "/")
	mount(w, tr)

	w.ScrollTo(w.Top("experience"))
	require.Equal(t, "experience", tr.Active())

	// jump home before any observer callback was delivered
	w.ScrollSilently(10)
	assert.Equal(t, "", tr.Active())
	assert.Equal(t, "/", w.URL())
}

func TestInitialFragmentScrollsSmoothlyAfterDelay(t *testing.T) {
	w, tr := newPage(t, "/#projects")
	mount(w, tr)

	// nothing moves and the fragment is kept until the delay has elapsed
	assert.Equal(t, 0.0, w.ScrollY())
	assert.Equal(t, "/#projects", w.URL())
	assert.Empty(t, w.SmoothScrolls)

	w.Advance(99 * time.Millisecond)
	assert.Empty(t, w.SmoothScrolls)

	w.Advance(time.Millisecond)
	require.Len(t, w.SmoothScrolls, 1)
	assert.Equal(t, browsertest.ScrollCall{ID: "projects", Smooth: true}, w.SmoothScrolls[0])
	assert.Equal(t, w.Top("projects"), w.ScrollY())
	assert.Equal(t, "projects", tr.Active())
	assert.Equal(t, "/#projects", w.URL())
}

func TestInitialHeroFragmentDoesNotScroll(t *testing.T) {
	w, tr := newPage(t, "/#hero")
	mount(w, tr)
	w.Advance(time.Second)

	assert.Empty(t, w.SmoothScrolls)
	assert.Equal(t, "/", w.URL())
}

func TestInitialFragmentWithoutTarget(t *testing.T) {
	w, tr := newPage(t, "/#nowhere")
	mount(w, tr)
	w.Advance(100 * time.Millisecond)

	assert.Empty(t, w.SmoothScrolls)
	assert.Equal(t, "", tr.Active())
	assert.Equal(t, "/", w.URL())
}

func TestMissingSectionsAreSkipped(t *testing.T) {
	w := browsertest.NewWindow(1000, "/")
	w.AddSection("hero", 1200)
	w.AddSection("projects", 1200)
	tr := New(DefaultConfig(sections), w)
	defer tr.Close()
	mount(w, tr)

	w.ScrollTo(w.Top("projects"))
	assert.Equal(t, "projects", tr.Active())
}

func TestTiesGoToDocumentOrder(t *testing.T) {
	w, tr := newPage(t, "/")
	mount(w, tr)

	// the skills and experience boundary sits on the middle of the band
	w.ScrollSilently(w.Top("experience") - 500)
	tr.Observe([]browser.Intersection{
		{ID: "experience", Intersecting: true, Coverage: 0.5},
		{ID: "skills", Intersecting: true, Coverage: 0.5},
		{ID: "hero", Intersecting: false},
	})
	assert.Equal(t, "skills", tr.Active())

	// delivery order and stale coverage do not matter, the layout does
	w.ScrollSilently(w.Top("experience") - 420)
	tr.Observe([]browser.Intersection{
		{ID: "experience", Intersecting: true, Coverage: 0.1},
		{ID: "skills", Intersecting: true, Coverage: 0.9},
	})
	assert.Equal(t, "experience", tr.Active())
}

func TestSwitchesAtBandMidpointWithCoarseCallbacks(t *testing.T) {
	ids := []string{"hero", "a", "b"}
	w := browsertest.NewWindow(1000, "/")
	w.ReportRatioSteps(20)
	w.AddSection("hero", 1000)
	w.AddSection("a", 1500)
	w.AddSection("b", 1500)
	tr := New(DefaultConfig(ids), w)
	t.Cleanup(tr.Close)
	mount(w, tr)

	// boundary is where b starts inside the viewport
	boundary := func(px float64) { w.ScrollTo(w.Top("b") - px) }
	for px := 700.0; px > 505; px -= 5 {
		boundary(px)
		require.Equal(t, "a", tr.Active(), "boundary at %.0f", px)
	}
	boundary(505)
	assert.Equal(t, "a", tr.Active())
	boundary(495)
	assert.Equal(t, "b", tr.Active())
	assert.Equal(t, "/#b", w.URL())

	// and back
	boundary(505)
	assert.Equal(t, "a", tr.Active())
}

func TestInitialFragmentHeldDuringSmoothScroll(t *testing.T) {
	w, tr := newPage(t, "/#projects")
	w.HoldSmoothScroll = true
	mount(w, tr)
	w.Advance(100 * time.Millisecond)
	require.Len(t, w.SmoothScrolls, 1)

	// the sections passed on the way do not take over the url
	for _, id := range []string{"about", "skills", "experience"} {
		w.ScrollTo(w.Top(id) + 100)
		assert.Equal(t, "/#projects", w.URL(), id)
		assert.Equal(t, "", tr.Active(), id)
	}

	w.ScrollTo(w.Top("projects"))
	assert.Equal(t, "projects", tr.Active())

	// once arrived, tracking is back to normal
	w.ScrollTo(w.Top("skills") + 100)
	assert.Equal(t, "skills", tr.Active())
	assert.Equal(t, "/#skills", w.URL())
}

func TestInitialFragmentHoldExpires(t *testing.T) {
	w, tr := newPage(t, "/#projects")
	w.HoldSmoothScroll = true
	mount(w, tr)
	w.Advance(100 * time.Millisecond)

	// the visitor scrolled elsewhere and the target is never reached
	w.ScrollTo(w.Top("about") + 100)
	require.Equal(t, "/#projects", w.URL())

	w.Advance(time.Second)
	assert.Equal(t, "about", tr.Active())
	assert.Equal(t, "/#about", w.URL())
}

func TestMountOptsOutOfScrollRestoration(t *testing.T) {
	w, tr := newPage(t, "/")
	assert.Empty(t, w.ScrollRestoration)
	mount(w, tr)
	assert.Equal(t, "manual", w.ScrollRestoration)
}

func TestUnknownIDsIgnored(t *testing.T) {
	w, tr := newPage(t, "/")
	mount(w, tr)

	tr.Observe([]browser.Intersection{{ID: "sidebar", Intersecting: true, Coverage: 1}})
	assert.Equal(t, "", tr.Active())
	assert.Equal(t, "/", w.URL())
}

func TestCloseDetachesEverything(t *testing.T) {
	w, tr := newPage(t, "/#skills")
	tr.Mount()

	assert.Equal(t, 1, w.Observers())
	assert.Equal(t, 1, w.Listeners("scroll"))
	assert.Equal(t, 2, w.PendingTimers())

	tr.Close()
	assert.Equal(t, 0, w.Observers())
	assert.Equal(t, 0, w.Listeners("scroll"))
	assert.Equal(t, 0, w.PendingTimers())

	w.Advance(time.Second)
	w.ScrollTo(w.Top("contact"))
	assert.Empty(t, w.SmoothScrolls)
	assert.Equal(t, "", tr.Active())
}

func TestSingleActiveSectionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	const vh = 800.0

	properties.Property("exactly one section, or none for hero, after callbacks settle", prop.ForAll(
		func(heights []int, frac float64) bool {
			w := browsertest.NewWindow(vh, "/")
			total := 0.0
			for i, id := range sections {
				w.AddSection(id, float64(heights[i]))
				total += float64(heights[i])
			}
			tr := New(DefaultConfig(sections), w)
			defer tr.Close()
			mount(w, tr)

			y := frac * (total - vh)
			w.ScrollTo(y)

			want := expectedActive(w, y)
			if tr.Active() != want {
				t.Logf("y=%.1f heights=%v got %q want %q", y, heights, tr.Active(), want)
				return false
			}
			if want == "" {
				return w.URL() == "/"
			}
			return w.URL() == "/#"+want
		},
		gen.SliceOfN(len(sections), gen.IntRange(200, 1500)),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

func expectedActive(w *browsertest.Window, y float64) string {
	if y < 50 {
		return ""
	}
	band := browser.NewBand(w.Height(), 0.4)
	best, bestCov := "", -1.0
	for _, id := range sections {
		el, _ := w.Element(id)
		hit, cov := band.Intersect(el.Rect())
		if hit && cov > bestCov {
			best, bestCov = id, cov
		}
	}
	if best == "hero" {
		return ""
	}
	return best
}
