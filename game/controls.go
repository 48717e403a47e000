package game

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

// MaxSpeed is the largest tick multiplier.
const MaxSpeed = 10

// bodyColors cycles through the palette for bodies added at runtime.
var bodyColors = []components.Color{
	components.Green, components.Orange, components.Purple, components.Red, components.Yellow, components.Blue,
}

// Paused reports whether Advance is suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes Advance.
func (g *Game) SetPaused(p bool) { g.paused = p }

// TogglePause flips the pause state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// Speed returns the tick multiplier.
func (g *Game) Speed() int { return g.speed }

// SetSpeed sets the tick multiplier, clamped to [1, MaxSpeed].
func (g *Game) SetSpeed(s int) {
	g.speed = max(1, min(s, MaxSpeed))
}

// PinTemperature holds the temperature at t regardless of the weather feed.
func (g *Game) PinTemperature(t float64) {
	g.weather.Override(t)
}

// UnpinTemperature hands the temperature back to the weather feed.
func (g *Game) UnpinTemperature() {
	g.weather.ClearOverride()
}

// Resize follows the window size on every axis whose world size is not
// fixed in the config.
func (g *Game) Resize(screenW, screenH float64) {
	var w, h float64
	if g.cfg.World.Width == 0 {
		w = screenW
	}
	if g.cfg.World.Height == 0 {
		h = screenH
	}
	g.world.SetBounds(w, h)
}

// AddBody places a new body shaped like the first seed at world position
// (x, y). Colors cycle through the palette.
func (g *Game) AddBody(x, y float64) error {
	seed := g.cfg.Seeds[0]
	color := bodyColors[g.nextColor%len(bodyColors)]
	b, err := systems.NewBody(r2.Vec{X: x, Y: y}, seed.Radius, seed.Nodes, color, g.cfg.BodyParams())
	if err != nil {
		return fmt.Errorf("adding body: %w", err)
	}
	g.nextColor++
	g.world.AddBody(b)
	return nil
}

// DropFood places a food item at world position (x, y).
func (g *Game) DropFood(x, y float64) {
	g.world.AddFood(r2.Vec{X: x, Y: y})
}

// BodyAt returns the index of the body whose centroid is nearest to world
// position (x, y) and no further than its radius, or -1.
func (g *Game) BodyAt(x, y float64) int {
	p := r2.Vec{X: x, Y: y}
	best, bestDist := -1, 0.0
	for i, b := range g.world.Bodies() {
		d := r2.Norm(r2.Sub(b.Centroid(), p))
		if d > b.Radius() {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
