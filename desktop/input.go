package desktop

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/telemetry"
	"github.com/pthm-cable/amoeba/ui"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.game.TogglePause()
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		a.game.SetSpeed(a.game.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.game.SetSpeed(a.game.Speed() + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		a.selected = -1
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		a.overlays.HandleKeyPress(key)
	}

	a.handleCameraInput()
	a.handleMouse()
}

// handleResize follows the window size with the camera and, unless the
// world size is fixed, the world bounds.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.game.Resize(float64(w), float64(h))
	world := a.game.World()
	a.camera.Resize(w, h)
	a.camera.SetWorld(float32(world.Width), float32(world.Height))
	a.inspector.SetPosition(int32(w)-panelWidth-inspectorWidth-20, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / a.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}

	// Mouse wheel zooms toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		a.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// handleMouse selects the body under a left click, or drops food when
// there is none, and adds a body on right click. Clicks on a visible panel
// never reach the world.
func (a *App) handleMouse() {
	mouse := rl.GetMousePosition()
	if camera.Hit(mouse.X, mouse.Y, a.panelBounds()...) {
		return
	}

	wx, wy := a.camera.ScreenToWorld(mouse.X, mouse.Y)
	world := a.game.World()
	if wx < 0 || wy < 0 || float64(wx) > world.Width || float64(wy) > world.Height {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if i := a.game.BodyAt(float64(wx), float64(wy)); i >= 0 {
			a.selected = i
		} else {
			a.game.DropFood(float64(wx), float64(wy))
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.addBodyAt(wx, wy)
	}
}

// panelBounds returns the screen areas of the panels drawn this frame.
func (a *App) panelBounds() []camera.Rect {
	rects := []camera.Rect{a.controls.Bounds(int32(a.screenWidth))}
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		rects = append(rects, a.perfPanel.Bounds(len(telemetry.Phases())))
	}
	if a.inspectorVisible() {
		rects = append(rects, a.inspector.Bounds())
	}
	return rects
}

func (a *App) addBodyAt(wx, wy float32) {
	if err := a.game.AddBody(float64(wx), float64(wy)); err != nil {
		slog.Warn("could not add body", "error", err)
	}
}
