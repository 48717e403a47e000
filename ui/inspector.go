package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/systems"
)

const previewHeight = 100

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Index int
	Body  *systems.Body
}

// Inspector renders the body inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

func (ins *Inspector) height() int32 {
	t := ins.renderer.Theme
	return t.Padding*2 + previewHeight + 8 + t.LineHeight*13
}

// Bounds returns the screen area the panel covers.
func (ins *Inspector) Bounds() camera.Rect {
	return camera.Rect{X: float32(ins.x), Y: float32(ins.y), W: float32(ins.width), H: float32(ins.height())}
}

// Draw renders the inspector panel for the given data and returns the
// bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height())

	y := ins.y + padding
	y = ins.drawOutlinePreview(ins.x+padding, y, contentWidth, previewHeight, data.Body)
	y += 8

	y = r.DrawSectionHeader(ins.x+padding, y, fmt.Sprintf("Body #%d", data.Index))
	y = ins.drawShapeSection(ins.x+padding, y, data.Body)
	y = ins.drawMotionSection(ins.x+padding, y, data.Body)
	return y
}

// drawOutlinePreview draws the body's ring scaled to fit the preview box.
func (ins *Inspector) drawOutlinePreview(x, y, width, height int32, b *systems.Body) int32 {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	outline := b.Outline()
	c := b.Centroid()
	var extent float64
	for _, p := range outline {
		d := r2.Sub(p, c)
		extent = max(extent, abs(d.X), abs(d.Y))
	}
	if extent == 0 {
		return y + height
	}

	padding := float32(10)
	scale := (float32(min(width, height))/2 - padding) / float32(extent)
	cx := float32(x) + float32(width)/2
	cy := float32(y) + float32(height)/2

	tint := b.Color()
	color := rl.Color{R: tint.R, G: tint.G, B: tint.B, A: 255}
	for i := range outline {
		a := r2.Sub(outline[i], c)
		n := r2.Sub(outline[(i+1)%len(outline)], c)
		rl.DrawLineEx(
			rl.Vector2{X: cx + float32(a.X)*scale, Y: cy + float32(a.Y)*scale},
			rl.Vector2{X: cx + float32(n.X)*scale, Y: cy + float32(n.Y)*scale},
			2, color,
		)
		rl.DrawCircleV(rl.Vector2{X: cx + float32(a.X)*scale, Y: cy + float32(a.Y)*scale}, 2, rl.White)
	}
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, 2, rl.Gray)

	return y + height
}

// drawShapeSection renders mesh size and area.
func (ins *Inspector) drawShapeSection(x, y int32, b *systems.Body) int32 {
	r := ins.renderer
	y = r.DrawSectionHeader(x, y, "Shape")

	volume, target := b.Volume(), b.TargetVolume()
	y = r.DrawLabelValue(x, y, "Nodes", fmt.Sprintf("%d", len(b.Nodes())))
	y = r.DrawLabelValue(x, y, "Springs", fmt.Sprintf("%d", len(b.Springs())))
	y = r.DrawLabelValue(x, y, "Radius", fmt.Sprintf("%.1f", b.Radius()))
	y = r.DrawLabelValue(x, y, "Area", fmt.Sprintf("%.0f / %.0f", volume, target))
	if target > 0 {
		y = r.DrawLabelValue(x, y, "Area error", fmt.Sprintf("%+.1f%%", (volume-target)/target*100))
	}
	return y + 6
}

// drawMotionSection renders position, speed and feeding history.
func (ins *Inspector) drawMotionSection(x, y int32, b *systems.Body) int32 {
	r := ins.renderer
	y = r.DrawSectionHeader(x, y, "Motion")

	c := b.Centroid()
	y = r.DrawLabelValue(x, y, "Centroid", fmt.Sprintf("%.0f, %.0f", c.X, c.Y))
	y = r.DrawLabelValue(x, y, "Mean speed", fmt.Sprintf("%.2f", b.MeanSpeed()))
	y = r.DrawLabelValue(x, y, "Kinetic", fmt.Sprintf("%.1f", b.KineticEnergy()))
	y = r.DrawLabelValue(x, y, "Eaten", fmt.Sprintf("%d (%.1f)", b.Eaten(), b.Consumed()))
	return y
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
