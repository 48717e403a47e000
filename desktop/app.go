// Package desktop is the raylib window frontend: it draws a game through a
// camera and turns keyboard, mouse and raygui input into game commands.
// raylib must be initialised (rl.InitWindow) before New is called.
package desktop

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/game"
	"github.com/pthm-cable/amoeba/renderer"
	"github.com/pthm-cable/amoeba/ui"
)

const (
	title          = "Amoeba"
	controlsHelp   = "[Space] pause  [,/.] speed  [click] food/select  [right click] body  [Backspace] deselect  [wheel] zoom  [Home] fit  [Tab] panel"
	panelWidth     = 220
	inspectorWidth = 240
)

// App holds the window-side state around a game.
type App struct {
	game *game.Game

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	bodies     *renderer.WorldRenderer
	particles  *renderer.ParticleRenderer

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector
	overlays  *ui.OverlayRegistry
	state     ui.ControlState
	selected  int // body index, -1 for none

	screenWidth  float32
	screenHeight float32
}

// New creates the window frontend for g, sized to the current window.
func New(g *game.Game) *App {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	g.Resize(float64(w), float64(h))
	world := g.World()
	cam := camera.New(w, h, float32(world.Width), float32(world.Height))

	return &App{
		game:         g,
		camera:       cam,
		background:   renderer.NewBackgroundRenderer(cam, 18, 22, 30),
		bodies:       renderer.NewWorldRenderer(cam),
		particles:    renderer.NewParticleRenderer(cam),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(panelWidth),
		perfPanel:    ui.NewPerfPanel(10, 125),
		inspector:    ui.NewInspector(int32(w)-panelWidth-inspectorWidth-20, 10, inspectorWidth),
		overlays:     ui.NewOverlayRegistry(),
		selected:     -1,
		state:        ui.ControlState{Speed: g.Speed(), Temperature: world.Temperature},
		screenWidth:  w,
		screenHeight: h,
	}
}

// Update handles input and advances the game by the last frame time.
func (a *App) Update() {
	a.handleInput()
	a.game.Advance(float64(rl.GetFrameTime()))
	a.game.RecordFrame()
}

// applyControls pushes panel changes into the game.
func (a *App) applyControls(s ui.ControlState) {
	if s.Paused != a.game.Paused() {
		a.game.SetPaused(s.Paused)
	}
	if s.Speed != a.game.Speed() {
		a.game.SetSpeed(s.Speed)
	}

	switch {
	case s.PinTemp:
		a.game.PinTemperature(s.Temperature)
	case a.state.PinTemp:
		a.game.UnpinTemperature()
	}

	a.overlays.SetEnabled(ui.OverlayNodes, s.ShowNodes)

	if s.ResetCamera {
		a.camera.Reset()
	}
	if s.AddBody {
		a.addBodyAt(a.camera.X, a.camera.Y)
	}

	a.state = s
}

// syncControls refreshes panel state that the game or keyboard may have
// changed since the last frame.
func (a *App) syncControls() {
	a.state.Paused = a.game.Paused()
	a.state.Speed = a.game.Speed()
	a.state.Fetched = a.game.Weather().Fetched()
	a.state.ShowNodes = a.overlays.IsEnabled(ui.OverlayNodes)
}
