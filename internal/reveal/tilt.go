package reveal

// Tilt is the 3D rotation of the about terminal for a pointer at (x, y)
// relative to its box of w×h. The centre is flat and each 20px off centre
// adds a degree.
func Tilt(x, y, w, h float64) (rotateX, rotateY float64) {
	return (y - h/2) / 20, (w/2 - x) / 20
}
