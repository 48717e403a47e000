package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/components"
)

// toRL converts a simulation color to a raylib color.
func toRL(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// withAlpha returns c with its alpha scaled by f in [0, 1].
func withAlpha(c rl.Color, f float32) rl.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(float32(c.A) * f)
	return c
}
