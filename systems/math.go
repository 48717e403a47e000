package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// distance returns the Euclidean distance between two points.
func distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// unitOrZero normalizes v, returning the zero vector when v has no length.
func unitOrZero(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// uniform returns a sample in [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// SignedArea returns the shoelace area of a closed polygon. Positive when
// the vertices run counter-clockwise in a y-up frame.
func SignedArea(pts []r2.Vec) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area * 0.5
}

// outwardNormal returns the unit normal of edge p1->p2 pointing away from the
// polygon interior. orientation is the sign of the polygon's signed area.
// A zero-length edge yields the zero vector.
func outwardNormal(p1, p2 r2.Vec, orientation float64) r2.Vec {
	edge := r2.Sub(p2, p1)
	n := r2.Vec{X: edge.Y, Y: -edge.X}
	if orientation < 0 {
		n = r2.Scale(-1, n)
	}
	return unitOrZero(n)
}

// RegularPolygonArea is the area of a regular n-gon with circumradius r.
func RegularPolygonArea(n int, r float64) float64 {
	return float64(n) * r * r * math.Sin(2*math.Pi/float64(n)) / 2
}
