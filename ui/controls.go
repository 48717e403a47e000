package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
)

// ControlState is the user-adjustable simulation state shown in the panel.
type ControlState struct {
	Paused      bool
	Speed       int
	PinTemp     bool
	Temperature float64 // override value while PinTemp is set
	Fetched     float64 // last value from the weather feed
	ShowNodes   bool
	ResetCamera bool // one-shot, set when the button is pressed
	AddBody     bool // one-shot
}

// Speed and temperature slider ranges.
const (
	MaxSpeed = 10
	MinTemp  = -20.0
	MaxTemp  = 45.0
)

// ControlsPanel renders the raygui control panel on the right edge.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), width: width, visible: true}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Bounds returns the screen area the panel covers, empty while hidden.
func (c *ControlsPanel) Bounds(screenW int32) camera.Rect {
	if !c.visible {
		return camera.Rect{}
	}
	return camera.Rect{X: float32(screenW - c.width), Y: 0, W: float32(c.width), H: float32(c.height())}
}

func (c *ControlsPanel) height() int32 {
	return c.renderer.Theme.Padding*2 + 300
}

// Draw renders the panel and returns the state after user interaction.
func (c *ControlsPanel) Draw(screenW int32, s ControlState) ControlState {
	s.ResetCamera = false
	s.AddBody = false
	if !c.visible {
		return s
	}

	r := c.renderer
	pad := r.Theme.Padding
	x0 := screenW - c.width
	r.DrawPanel(x0, 0, c.width, c.height())

	x := float32(x0 + pad)
	y := float32(pad)
	w := float32(c.width - pad*2)

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Simulation"))
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, pick(s.Paused, "Resume", "Pause")) {
		s.Paused = !s.Paused
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 4, Y: y, Width: w/2 - 4, Height: 24}, "Add Body") {
		s.AddBody = true
	}
	y += 32

	rl.DrawText(fmt.Sprintf("Speed: %dx", s.Speed), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	speed := gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: w - 50, Height: 16}, "1", fmt.Sprint(MaxSpeed), float32(s.Speed), 1, MaxSpeed)
	s.Speed = int(speed + 0.5)
	y += 28

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Temperature"))
	y = float32(r.DrawTemperatureBar(int32(x), int32(y), "Feed", float32(s.Fetched), MinTemp, MaxTemp, int32(w)))
	y += 4
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, pick(s.PinTemp, "Unpin temperature", "Pin temperature")) {
		s.PinTemp = !s.PinTemp
		if s.PinTemp {
			s.Temperature = s.Fetched
		}
	}
	y += 32
	if s.PinTemp {
		rl.DrawText(fmt.Sprintf("Pinned: %.1f°C", s.Temperature), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 16
		s.Temperature = float64(gui.SliderBar(rl.Rectangle{X: x + 30, Y: y, Width: w - 60, Height: 16},
			fmt.Sprint(MinTemp), fmt.Sprint(MaxTemp), float32(s.Temperature), MinTemp, MaxTemp))
		y += 28
	}

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "View"))
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, pick(s.ShowNodes, "Hide nodes", "Show nodes")) {
		s.ShowNodes = !s.ShowNodes
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 4, Y: y, Width: w/2 - 4, Height: 24}, "Fit view") {
		s.ResetCamera = true
	}

	return s
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
