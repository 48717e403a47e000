package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

// Simulatable is anything that advances its own physics inside the world box.
type Simulatable interface {
	Update(dt, width, height float64)
}

// Renderable exposes what a renderer needs to draw a body: the ordered ring
// for the outline and triangle fan, the fan's hub and a fill color.
type Renderable interface {
	Outline() []r2.Vec
	Centroid() r2.Vec
	Tint() components.Color
}

var (
	_ Simulatable = (*Body)(nil)
	_ Renderable  = (*Body)(nil)
)

// BodyView is a read-only copy of a body's render state.
type BodyView struct {
	Outline  []r2.Vec
	Centroid r2.Vec
	Color    components.Color
	Radius   float64

	// Target is the food the body is steering toward, valid when HasTarget.
	Target    r2.Vec
	HasTarget bool
}

// Snapshot is the per-frame render input. It shares no memory with the
// world, so drawing can never mutate simulation state.
type Snapshot struct {
	Bodies      []BodyView
	Foods       []components.Food
	Temperature float64
	Width       float64
	Height      float64
	Tick        uint64
}

// ViewOf copies a renderable into a BodyView.
func ViewOf(r Renderable, radius float64) BodyView {
	return BodyView{
		Outline:  r.Outline(),
		Centroid: r.Centroid(),
		Color:    r.Tint(),
		Radius:   radius,
	}
}
