package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/systems"
)

// WorldRenderer draws bodies and food from a snapshot through a camera.
type WorldRenderer struct {
	cam *camera.Camera

	OutlineColor     rl.Color
	OutlineThickness float32
	FillAlpha        float32
	FoodRadius       float32
	ShowNodes        bool

	// scratch
	screen []rl.Vector2
}

// NewWorldRenderer creates a renderer bound to cam.
func NewWorldRenderer(cam *camera.Camera) *WorldRenderer {
	return &WorldRenderer{
		cam:              cam,
		OutlineColor:     rl.White,
		OutlineThickness: 2,
		FillAlpha:        1,
		FoodRadius:       5,
	}
}

// DrawBounds draws the world box.
func (r *WorldRenderer) DrawBounds(s systems.Snapshot) {
	x0, y0 := r.cam.WorldToScreen(0, 0)
	x1, y1 := r.cam.WorldToScreen(float32(s.Width), float32(s.Height))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, rl.DarkGray)
}

// DrawBodies fills each body as a triangle fan around its centroid and
// strokes the closed outline.
func (r *WorldRenderer) DrawBodies(s systems.Snapshot) {
	for i := range s.Bodies {
		b := &s.Bodies[i]
		n := len(b.Outline)
		if n < 3 {
			continue
		}
		if !r.cam.IsVisible(float32(b.Centroid.X), float32(b.Centroid.Y), float32(b.Radius)*2) {
			continue
		}

		r.screen = r.screen[:0]
		for _, p := range b.Outline {
			sx, sy := r.cam.WorldToScreen(float32(p.X), float32(p.Y))
			r.screen = append(r.screen, rl.Vector2{X: sx, Y: sy})
		}
		cx, cy := r.cam.WorldToScreen(float32(b.Centroid.X), float32(b.Centroid.Y))
		hub := rl.Vector2{X: cx, Y: cy}

		fill := withAlpha(toRL(b.Color), r.FillAlpha)
		for j := 0; j < n; j++ {
			a, c := r.screen[j], r.screen[(j+1)%n]
			// raylib culls clockwise triangles; the ring may wind either way
			if cross(hub, a, c) > 0 {
				a, c = c, a
			}
			rl.DrawTriangle(hub, a, c, fill)
		}

		thick := r.OutlineThickness * r.cam.Zoom
		if thick < 1 {
			thick = 1
		}
		for j := 0; j < n; j++ {
			rl.DrawLineEx(r.screen[j], r.screen[(j+1)%n], thick, r.OutlineColor)
		}

		if r.ShowNodes {
			for _, p := range r.screen {
				rl.DrawCircleV(p, 2, r.OutlineColor)
			}
		}
	}
}

// DrawFood draws each food item as a small filled circle.
func (r *WorldRenderer) DrawFood(s systems.Snapshot) {
	radius := r.FoodRadius * r.cam.Zoom
	for _, f := range s.Foods {
		if !r.cam.IsVisible(float32(f.Pos.X), float32(f.Pos.Y), r.FoodRadius) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(float32(f.Pos.X), float32(f.Pos.Y))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, toRL(f.Color))
	}
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b rl.Vector2) float32 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// DrawTargets draws a line from each body to the food it is chasing.
func (r *WorldRenderer) DrawTargets(s systems.Snapshot) {
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if !b.HasTarget {
			continue
		}
		cx, cy := r.cam.WorldToScreen(float32(b.Centroid.X), float32(b.Centroid.Y))
		tx, ty := r.cam.WorldToScreen(float32(b.Target.X), float32(b.Target.Y))
		rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: tx, Y: ty}, withAlpha(toRL(b.Color), 0.5))
	}
}

// DrawHighlight rings the body at index i.
func (r *WorldRenderer) DrawHighlight(s systems.Snapshot, i int) {
	if i < 0 || i >= len(s.Bodies) {
		return
	}
	b := &s.Bodies[i]
	cx, cy := r.cam.WorldToScreen(float32(b.Centroid.X), float32(b.Centroid.Y))
	rl.DrawCircleLines(int32(cx), int32(cy), float32(b.Radius*1.4)*r.cam.Zoom, rl.Yellow)
}
