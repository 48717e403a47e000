package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
)

// BackgroundRenderer clears the frame with a temperature-tinted base color
// and draws a world-space grid.
type BackgroundRenderer struct {
	cam *camera.Camera

	baseColor rl.Color
	gridStep  float32
	gridColor rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(cam *camera.Camera, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		cam:       cam,
		baseColor: rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		gridStep:  50,
		gridColor: rl.Color{R: 255, G: 255, B: 255, A: 12},
	}
}

// Draw clears the screen and draws the grid. temperature shifts the base
// color from blue (0 °C and below) to red (40 °C and above).
func (b *BackgroundRenderer) Draw(temperature, worldW, worldH float64) {
	rl.ClearBackground(b.tint(temperature))

	x0, y0 := b.cam.WorldToScreen(0, 0)
	x1, y1 := b.cam.WorldToScreen(float32(worldW), float32(worldH))
	for x := float32(0); x <= float32(worldW); x += b.gridStep {
		sx, _ := b.cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: y0}, rl.Vector2{X: sx, Y: y1}, b.gridColor)
	}
	for y := float32(0); y <= float32(worldH); y += b.gridStep {
		_, sy := b.cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: x0, Y: sy}, rl.Vector2{X: x1, Y: sy}, b.gridColor)
	}
}

func (b *BackgroundRenderer) tint(temperature float64) rl.Color {
	t := float32(temperature / 40)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	c := b.baseColor
	c.R = uint8(min(255, float32(c.R)+24*t))
	c.B = uint8(min(255, float32(c.B)+24*(1-t)))
	return c
}
