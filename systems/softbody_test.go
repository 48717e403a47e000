package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

func newTestBody(t *testing.T, center r2.Vec, radius float64, n int, p BodyParams) *Body {
	t.Helper()
	b, err := NewBody(center, radius, n, components.Blue, p)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestNewBodyTopology(t *testing.T) {
	tests := []struct {
		nodes         int
		wantDiagonals int
	}{
		{3, 2},
		{5, 3},
		{12, 6},
		{16, 8},
	}

	for _, tt := range tests {
		b := newTestBody(t, r2.Vec{X: 100, Y: 100}, 30, tt.nodes, DefaultBodyParams())

		if len(b.Nodes()) != tt.nodes {
			t.Errorf("n=%d: got %d nodes", tt.nodes, len(b.Nodes()))
		}
		if got := len(b.Springs()); got != tt.nodes+tt.wantDiagonals {
			t.Errorf("n=%d: got %d springs, want %d", tt.nodes, got, tt.nodes+tt.wantDiagonals)
		}

		for i, s := range b.Springs() {
			if s.A < 0 || s.A >= tt.nodes || s.B < 0 || s.B >= tt.nodes {
				t.Fatalf("n=%d: spring %d has invalid indices %d-%d", tt.nodes, i, s.A, s.B)
			}
			d := distance(b.nodes[s.A].Pos, b.nodes[s.B].Pos)
			if math.Abs(d-s.RestLength) > 1e-9 {
				t.Errorf("n=%d: spring %d rest %v, initial length %v", tt.nodes, i, s.RestLength, d)
			}
			wantK := 100.0
			if i >= tt.nodes {
				wantK = 50.0
			}
			if s.Stiffness != wantK || s.Damping != 2.0 {
				t.Errorf("n=%d: spring %d k=%v c=%v", tt.nodes, i, s.Stiffness, s.Damping)
			}
		}
	}
}

func TestNewBodyRejectsInvalid(t *testing.T) {
	if _, err := NewBody(r2.Vec{}, 30, 2, components.Blue, DefaultBodyParams()); err == nil {
		t.Error("expected error for 2 nodes")
	}
	if _, err := NewBody(r2.Vec{}, 0, 12, components.Blue, DefaultBodyParams()); err == nil {
		t.Error("expected error for zero radius")
	}
	p := DefaultBodyParams()
	p.NodeMass = 0
	if _, err := NewBody(r2.Vec{}, 30, 12, components.Blue, p); err == nil {
		t.Error("expected error for zero node mass")
	}
}

func TestInitialVolumeIsRegularPolygonArea(t *testing.T) {
	for _, n := range []int{3, 6, 12, 16, 64} {
		b := newTestBody(t, r2.Vec{X: 400, Y: 300}, 30, n, DefaultBodyParams())
		want := RegularPolygonArea(n, 30)
		if got := b.Volume(); math.Abs(got-want) > 1e-6 {
			t.Errorf("n=%d: volume %v, want %v", n, got, want)
		}
	}
}

func TestSpringsStartUnstressed(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 50, Y: 50}, 20, 12, DefaultBodyParams())
	b.accumulateSpringForces()
	for i, f := range b.forces {
		if r2.Norm(f) > 1e-9 {
			t.Errorf("node %d has spring force %v at construction", i, f)
		}
	}
}

func TestResolveBoundsReflects(t *testing.T) {
	n := components.Node{Pos: r2.Vec{X: -5, Y: 10}, Vel: r2.Vec{X: 3, Y: 1}, Mass: 1}
	if !ResolveBounds(&n, 100, 100, 0.5) {
		t.Fatal("expected a wall hit")
	}
	if n.Pos.X != 0 {
		t.Errorf("x = %v, want 0", n.Pos.X)
	}
	if n.Vel.X != -1.5 {
		t.Errorf("vx = %v, want -1.5", n.Vel.X)
	}
	if n.Vel.Y != 1 || n.Pos.Y != 10 {
		t.Errorf("y axis should be untouched, got pos %v vel %v", n.Pos, n.Vel)
	}

	n = components.Node{Pos: r2.Vec{X: 120, Y: 130}, Vel: r2.Vec{X: 4, Y: 2}}
	ResolveBounds(&n, 100, 100, 0.5)
	if n.Pos != (r2.Vec{X: 100, Y: 100}) || n.Vel != (r2.Vec{X: -2, Y: -1}) {
		t.Errorf("far corner: pos %v vel %v", n.Pos, n.Vel)
	}

	n = components.Node{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 4, Y: 2}}
	if ResolveBounds(&n, 100, 100, 0.5) {
		t.Error("interior node should not hit a wall")
	}
}

func TestPressureRelaxesTowardTargetArea(t *testing.T) {
	p := DefaultBodyParams()
	p.PerimeterStiffness = 0
	p.DiagonalStiffness = 0
	p.PerimeterDamping = 0
	p.DiagonalDamping = 0
	p.Drag = 1

	center := r2.Vec{X: 500, Y: 500}

	// A regular 12-gon is smaller than the circle it is inscribed in, so it
	// has lost volume and must inflate.
	b := newTestBody(t, center, 30, 12, p)
	b.Update(0.01, 1000, 1000)
	for i, n := range b.Nodes() {
		if d := distance(n.Pos, center); d <= 30 {
			t.Errorf("node %d moved inward to %v under positive pressure", i, d)
		}
	}

	// Shrinking the target below the current area must pull nodes inward.
	b = newTestBody(t, center, 30, 12, p)
	b.Grow(-10, 1)
	b.Update(0.01, 1000, 1000)
	for i, n := range b.Nodes() {
		if d := distance(n.Pos, center); d >= 30 {
			t.Errorf("node %d moved outward to %v under negative pressure", i, d)
		}
	}
}

func TestPressureOrientationIndependent(t *testing.T) {
	p := DefaultBodyParams()
	p.PerimeterStiffness = 0
	p.DiagonalStiffness = 0
	p.Drag = 1

	center := r2.Vec{X: 500, Y: 500}
	b := newTestBody(t, center, 30, 12, p)

	// Mirror the ring so it winds the other way.
	for i := range b.nodes {
		b.nodes[i].Pos.Y = 2*center.Y - b.nodes[i].Pos.Y
	}
	b.Update(0.01, 1000, 1000)
	for i, n := range b.Nodes() {
		if d := distance(n.Pos, center); d <= 30 {
			t.Errorf("mirrored ring: node %d moved inward to %v", i, d)
		}
	}
}

func TestUpdateDegenerateGeometryStaysFinite(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 100, Y: 100}, 30, 12, DefaultBodyParams())

	// Collapse two neighbours onto each other: zero-length perimeter spring and edge.
	b.nodes[1].Pos = b.nodes[0].Pos
	// Collapse everything onto one point.
	b.Update(1.0/60, 800, 600)

	for i := range b.nodes {
		b.nodes[i].Pos = r2.Vec{X: 100, Y: 100}
	}
	b.Update(1.0/60, 800, 600)

	for i, n := range b.Nodes() {
		if math.IsNaN(n.Pos.X) || math.IsNaN(n.Pos.Y) || math.IsNaN(n.Vel.X) || math.IsNaN(n.Vel.Y) ||
			math.IsInf(n.Pos.X, 0) || math.IsInf(n.Pos.Y, 0) {
			t.Fatalf("node %d not finite: %+v", i, n)
		}
	}
}

func TestUpdateKeepsNodesInBounds(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 35, Y: 35}, 30, 12, DefaultBodyParams())
	b.Nudge(r2.Vec{X: -400, Y: -400})

	for tick := 0; tick < 300; tick++ {
		b.Update(1.0/60, 200, 150)
		for i, n := range b.Nodes() {
			if n.Pos.X < 0 || n.Pos.X > 200 || n.Pos.Y < 0 || n.Pos.Y > 150 {
				t.Fatalf("tick %d: node %d escaped to %v", tick, i, n.Pos)
			}
		}
	}
}

func TestCentroidIsMeanOfNodes(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 300, Y: 200}, 25, 10, DefaultBodyParams())
	b.Nudge(r2.Vec{X: 40, Y: -15})
	b.Update(1.0/60, 800, 600)

	var sum r2.Vec
	for _, n := range b.Nodes() {
		sum = r2.Add(sum, n.Pos)
	}
	want := r2.Scale(1.0/10, sum)
	if distance(b.Centroid(), want) > 1e-9 {
		t.Errorf("centroid %v, want %v", b.Centroid(), want)
	}
}

func TestDragDecaysVelocity(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 400, Y: 300}, 30, 12, DefaultBodyParams())
	b.Nudge(r2.Vec{X: 20})
	before := b.KineticEnergy()

	for i := 0; i < 600; i++ {
		b.Update(1.0/60, 800, 600)
	}

	if after := b.KineticEnergy(); after >= before {
		t.Errorf("kinetic energy grew from %v to %v", before, after)
	}
}

func TestGrowScalesRestLengths(t *testing.T) {
	b := newTestBody(t, r2.Vec{X: 100, Y: 100}, 30, 12, DefaultBodyParams())
	rest := make([]float64, len(b.Springs()))
	for i, s := range b.Springs() {
		rest[i] = s.RestLength
	}

	b.Grow(1.0, 1.02)

	if b.Radius() != 31 {
		t.Errorf("radius = %v, want 31", b.Radius())
	}
	for i, s := range b.Springs() {
		if math.Abs(s.RestLength-rest[i]*1.02) > 1e-12 {
			t.Errorf("spring %d rest %v, want %v", i, s.RestLength, rest[i]*1.02)
		}
	}
}
