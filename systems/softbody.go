package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

// Body is a closed ring of point masses held together by perimeter and
// diagonal springs, inflated by an area-restoring pressure force.
//
// Node order is the angular order around the ring and never changes after
// construction; springs refer to nodes by index.
type Body struct {
	nodes      []components.Node
	springs    []components.Spring
	color      components.Color
	centroid   r2.Vec
	baseRadius float64
	params     BodyParams

	// Per-tick scratch
	forces  []r2.Vec
	outline []r2.Vec

	// Feeding history
	eaten    int
	consumed float64
}

// NewBody builds a body of n nodes evenly spaced on a circle of the given
// radius around center. Springs start at their rest lengths.
func NewBody(center r2.Vec, radius float64, n int, color components.Color, p BodyParams) (*Body, error) {
	if n < 3 {
		return nil, fmt.Errorf("body needs at least 3 nodes, got %d", n)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("body radius must be positive, got %v", radius)
	}
	if p.NodeMass <= 0 {
		return nil, fmt.Errorf("node mass must be positive, got %v", p.NodeMass)
	}

	b := &Body{
		nodes:      make([]components.Node, n),
		springs:    make([]components.Spring, 0, n+n/2),
		color:      color,
		centroid:   center,
		baseRadius: radius,
		params:     p,
		forces:     make([]r2.Vec, n),
		outline:    make([]r2.Vec, n),
	}

	for i := range b.nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		b.nodes[i] = components.Node{
			Pos: r2.Vec{
				X: center.X + math.Cos(angle)*radius,
				Y: center.Y + math.Sin(angle)*radius,
			},
			Mass:   p.NodeMass,
			Radius: p.NodeRadius,
		}
	}

	// Perimeter
	for i := 0; i < n; i++ {
		b.addSpring(i, (i+1)%n, p.PerimeterStiffness, p.PerimeterDamping)
	}

	// Diagonals to the opposite node, once per pair
	for i := 0; i < n; i++ {
		opposite := (i + n/2) % n
		if i < opposite {
			b.addSpring(i, opposite, p.DiagonalStiffness, p.DiagonalDamping)
		}
	}

	return b, nil
}

func (b *Body) addSpring(i, j int, stiffness, damping float64) {
	b.springs = append(b.springs, components.Spring{
		A:          i,
		B:          j,
		RestLength: distance(b.nodes[i].Pos, b.nodes[j].Pos),
		Stiffness:  stiffness,
		Damping:    damping,
	})
}

// Update advances the body by dt inside a width x height box.
func (b *Body) Update(dt, width, height float64) {
	for i := range b.forces {
		b.forces[i] = r2.Vec{}
	}

	b.accumulateSpringForces()
	b.accumulatePressure(dt)
	b.integrate(dt, width, height)
}

// accumulateSpringForces applies every spring's force, equal and opposite on
// its two endpoints.
func (b *Body) accumulateSpringForces() {
	for i := range b.springs {
		s := &b.springs[i]
		na, nb := &b.nodes[s.A], &b.nodes[s.B]

		f := s.Force(na.Pos, nb.Pos, na.Vel, nb.Vel)
		b.forces[s.A] = r2.Add(b.forces[s.A], f)
		b.forces[s.B] = r2.Sub(b.forces[s.B], f)
	}
}

// accumulatePressure pushes every edge along its outward normal in
// proportion to the gap between target and current area.
func (b *Body) accumulatePressure(dt float64) {
	b.refreshOutline()
	signed := SignedArea(b.outline)
	current := math.Abs(signed)
	pressure := (b.TargetVolume() - current) * b.params.PressureConstant

	orientation := 1.0
	if signed < 0 {
		orientation = -1.0
	}

	n := len(b.nodes)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		normal := outwardNormal(b.outline[i], b.outline[j], orientation)
		f := r2.Scale(pressure*dt, normal)
		b.forces[i] = r2.Add(b.forces[i], f)
		b.forces[j] = r2.Add(b.forces[j], f)
	}
}

// integrate applies semi-implicit Euler, wall collisions and drag, then
// recomputes the centroid.
func (b *Body) integrate(dt, width, height float64) {
	var sum r2.Vec
	for i := range b.nodes {
		node := &b.nodes[i]

		accel := r2.Scale(1/node.Mass, b.forces[i])
		node.Vel = r2.Add(node.Vel, r2.Scale(dt, accel))
		node.Pos = r2.Add(node.Pos, r2.Scale(dt, node.Vel))

		ResolveBounds(node, width, height, b.params.Restitution)

		node.Vel = r2.Scale(b.params.Drag, node.Vel)
		sum = r2.Add(sum, node.Pos)
	}
	b.centroid = r2.Scale(1/float64(len(b.nodes)), sum)
}

// ResolveBounds clamps a node into [0,width] x [0,height]. Each clamped axis
// has its velocity reversed and scaled by restitution. Reports whether the
// node touched a wall.
func ResolveBounds(n *components.Node, width, height, restitution float64) bool {
	hit := false
	if n.Pos.X < 0 {
		n.Pos.X = 0
		n.Vel.X *= -restitution
		hit = true
	}
	if n.Pos.X > width {
		n.Pos.X = width
		n.Vel.X *= -restitution
		hit = true
	}
	if n.Pos.Y < 0 {
		n.Pos.Y = 0
		n.Vel.Y *= -restitution
		hit = true
	}
	if n.Pos.Y > height {
		n.Pos.Y = height
		n.Vel.Y *= -restitution
		hit = true
	}
	return hit
}

func (b *Body) refreshOutline() {
	for i := range b.nodes {
		b.outline[i] = b.nodes[i].Pos
	}
}

// Nudge adds dv to the velocity of every node.
func (b *Body) Nudge(dv r2.Vec) {
	for i := range b.nodes {
		b.nodes[i].Vel = r2.Add(b.nodes[i].Vel, dv)
	}
}

// Grow enlarges the body: the target radius increases by radiusDelta and
// every spring rest length is multiplied by restScale.
func (b *Body) Grow(radiusDelta, restScale float64) {
	b.baseRadius += radiusDelta
	for i := range b.springs {
		b.springs[i].RestLength *= restScale
	}
}

// feed records a meal and grows the body.
func (b *Body) feed(f components.Food, p WorldParams) {
	b.eaten++
	b.consumed += f.Value
	b.Grow(p.GrowthRadius, p.GrowthRestScale)
}

// Nodes returns the node ring. Callers must not modify it.
func (b *Body) Nodes() []components.Node { return b.nodes }

// Springs returns the spring set. Callers must not modify it.
func (b *Body) Springs() []components.Spring { return b.springs }

// Centroid returns the mean node position as of the last update.
func (b *Body) Centroid() r2.Vec { return b.centroid }

// Radius returns the base radius that sets the target area.
func (b *Body) Radius() float64 { return b.baseRadius }

// Color returns the body color.
func (b *Body) Color() components.Color { return b.color }

// Tint implements Renderable.
func (b *Body) Tint() components.Color { return b.color }

// Outline returns a copy of the node positions in ring order.
func (b *Body) Outline() []r2.Vec {
	out := make([]r2.Vec, len(b.nodes))
	for i := range b.nodes {
		out[i] = b.nodes[i].Pos
	}
	return out
}

// Volume returns the current absolute polygon area.
func (b *Body) Volume() float64 {
	b.refreshOutline()
	return math.Abs(SignedArea(b.outline))
}

// TargetVolume returns the area the pressure force relaxes toward.
func (b *Body) TargetVolume() float64 {
	return math.Pi * b.baseRadius * b.baseRadius
}

// KineticEnergy returns the total kinetic energy of the nodes.
func (b *Body) KineticEnergy() float64 {
	var ke float64
	for i := range b.nodes {
		ke += 0.5 * b.nodes[i].Mass * r2.Norm2(b.nodes[i].Vel)
	}
	return ke
}

// MeanSpeed returns the average node speed.
func (b *Body) MeanSpeed() float64 {
	var sum float64
	for i := range b.nodes {
		sum += r2.Norm(b.nodes[i].Vel)
	}
	return sum / float64(len(b.nodes))
}

// Eaten returns how many food items this body has consumed.
func (b *Body) Eaten() int { return b.eaten }

// Consumed returns the total nutritional value this body has consumed.
func (b *Body) Consumed() float64 { return b.consumed }
