package camera

// Rect is a screen-space rectangle, used to keep clicks on UI panels from
// reaching the world.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r. An empty rect contains
// nothing, so hidden panels can report a zero Rect.
func (r Rect) Contains(x, y float32) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Hit reports whether any of rects contains (x, y).
func Hit(x, y float32, rects ...Rect) bool {
	for _, r := range rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
