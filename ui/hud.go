package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Bodies      int
	Foods       int
	Particles   int
	Temperature float64
	Pinned      bool // temperature is a manual override
	Tick        uint64
	Speed       int
	FPS         int32
	Paused      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Bodies: %d | Food: %d | Particles: %d", data.Bodies, data.Foods, data.Particles),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	temp := fmt.Sprintf("Temperature: %.1f°C", data.Temperature)
	if data.Pinned {
		temp += " (pinned)"
	}
	rl.DrawText(temp, 10, 75, 16, rl.LightGray)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

const perfPanelWidth = 240

func (p *PerfPanel) height(phases int) int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight*int32(phases+3)
}

// Bounds returns the screen area the panel covers when it lists the given
// number of phases.
func (p *PerfPanel) Bounds(phases int) camera.Rect {
	return camera.Rect{X: float32(p.x), Y: float32(p.y), W: perfPanelWidth, H: float32(p.height(phases))}
}

// Draw renders the performance panel, phases listed in tick order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	r.DrawPanel(p.x, p.y, perfPanelWidth, p.height(len(phases)))

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Tick Timing")
	y = r.DrawLabelValue(x, y, "Mean tick", stats.MeanTick.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "p95 tick", stats.P95Tick.Round(time.Microsecond).String())

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(name, x, y, r.Theme.FontSize, color)
		rl.DrawText(fmt.Sprintf("%5.1f%%", pct), x+r.Theme.LabelWidth+40, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}
}
