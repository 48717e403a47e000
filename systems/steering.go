package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// steerAndMove steers each body toward its nearest food, or wanders when
// there is none, then runs the body's own physics.
func (w *World) steerAndMove(dt float64) {
	for _, b := range w.bodies {
		if target, ok := w.nearestFood(b.centroid); ok {
			dir := unitOrZero(r2.Sub(target, b.centroid))
			b.Nudge(r2.Scale(w.params.Motility*dt, dir))
		} else {
			j := w.params.Jitter
			for i := range b.nodes {
				dv := r2.Vec{X: uniform(w.rng, -j, j), Y: uniform(w.rng, -j, j)}
				b.nodes[i].Vel = r2.Add(b.nodes[i].Vel, r2.Scale(dt, dv))
			}
		}

		b.Update(dt, w.Width, w.Height)
	}
}

// nearestFood returns the position of the food closest to from. Ties go to
// the earliest item.
func (w *World) nearestFood(from r2.Vec) (r2.Vec, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i := range w.foods {
		d := distance(from, w.foods[i].Pos)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return r2.Vec{}, false
	}
	return w.foods[best].Pos, true
}
