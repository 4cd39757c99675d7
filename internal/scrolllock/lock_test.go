package scrolllock

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/nibin-org/portfolio/internal/browser/browsertest"
)

func TestNestedOverlays(t *testing.T) {
	style := &browsertest.Style{}
	l := New(style)

	releaseMenu := l.Acquire("menu")
	assert.Equal(t, "hidden", style.Overflow)

	releaseDrawer := l.Acquire("resume")
	assert.Equal(t, []string{"menu", "resume"}, l.Holders())

	// closing the menu while the drawer is open keeps the page locked
	releaseMenu()
	assert.True(t, l.Held())
	assert.Equal(t, "hidden", style.Overflow)

	releaseDrawer()
	assert.False(t, l.Held())
	assert.Equal(t, "", style.Overflow)
	assert.Empty(t, l.Holders())
}

func TestReleaseIsIdempotent(t *testing.T) {
	style := &browsertest.Style{}
	l := New(style)

	a := l.Acquire("a")
	b := l.Acquire("b")
	a()
	a()
	a()
	assert.Equal(t, 1, l.Count())
	assert.Equal(t, "hidden", style.Overflow)

	b()
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, 2, style.Writes, "only the first acquire and the last release touch the style")
}

func TestLockBalanceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// ops: true acquires a new hold, false releases the oldest outstanding one
	properties.Property("locked exactly while holds are outstanding", prop.ForAll(
		func(ops []bool) bool {
			style := &browsertest.Style{}
			l := New(style)
			var open []Release
			for _, acquire := range ops {
				if acquire {
					open = append(open, l.Acquire("o"))
				} else if len(open) > 0 {
					open[0]()
					open[0]() // double release must not unbalance the count
					open = open[1:]
				}
				if l.Count() != len(open) {
					return false
				}
				if (len(open) > 0) != (style.Overflow == "hidden") {
					return false
				}
			}
			for _, r := range open {
				r()
			}
			return style.Overflow == "" && !l.Held()
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
