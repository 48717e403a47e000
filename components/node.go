// Package components holds the plain state shared by the simulation core:
// point masses, springs, food and colors.
package components

import "gonum.org/v1/gonum/spatial/r2"

// MinSpringLength is the distance below which a spring's direction is
// undefined and it contributes no force.
const MinSpringLength = 1e-3

// Node is a point mass in a body's ring.
type Node struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Mass   float64
	Radius float64 // collision radius
}

// Spring connects two nodes of the same body by index.
type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// Force returns the Hooke plus damping force acting on endpoint A.
// Endpoint B receives the negation. A spring shorter than MinSpringLength
// yields the zero vector.
func (s *Spring) Force(pa, pb, va, vb r2.Vec) r2.Vec {
	delta := r2.Sub(pb, pa)
	dist := r2.Norm(delta)
	if dist <= MinSpringLength {
		return r2.Vec{}
	}
	dir := r2.Scale(1/dist, delta)

	stretch := (dist - s.RestLength) * s.Stiffness
	damping := r2.Dot(r2.Sub(vb, va), dir) * s.Damping

	return r2.Scale(stretch+damping, dir)
}
