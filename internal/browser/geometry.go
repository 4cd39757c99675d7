package browser

// Band is the horizontal strip of the viewport sections are tested against
type Band struct {
	Top    float64
	Bottom float64
}

// NewBand insets the viewport symmetrically by margin*height on each side.
// A margin of 0.4 leaves the middle 20%.
func NewBand(height, margin float64) Band {
	if margin < 0 {
		margin = 0
	}
	if margin > 0.5 {
		margin = 0.5
	}
	return Band{Top: height * margin, Bottom: height * (1 - margin)}
}

// Height of the band
func (b Band) Height() float64 {
	return b.Bottom - b.Top
}

// Intersect returns whether r overlaps the band and the covered fraction of it
func (b Band) Intersect(r Rect) (bool, float64) {
	top := max(r.Top, b.Top)
	bottom := min(r.Bottom, b.Bottom)
	if bottom <= top {
		return false, 0
	}
	h := b.Height()
	if h <= 0 {
		// degenerate band: any crossing counts as full coverage
		return true, 1
	}
	return true, (bottom - top) / h
}
