package desktop

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/telemetry"
	"github.com/pthm-cable/amoeba/ui"
)

// Draw renders one frame: background, food, bodies, splashes, then the
// HUD and control panel on top.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	snap := a.game.Snapshot()

	a.background.Draw(snap.Temperature, snap.Width, snap.Height)
	a.bodies.DrawBounds(snap)
	a.bodies.DrawFood(snap)
	a.bodies.ShowNodes = a.overlays.IsEnabled(ui.OverlayNodes)
	a.bodies.DrawBodies(snap)
	if a.overlays.IsEnabled(ui.OverlayTargets) {
		a.bodies.DrawTargets(snap)
	}
	a.bodies.DrawHighlight(snap, a.selected)
	particles := 0
	if fx := a.game.Effects(); fx != nil {
		a.particles.Draw(fx)
		particles = fx.Count()
	}

	a.hud.Draw(ui.HUDData{
		Title:       title,
		Bodies:      len(snap.Bodies),
		Foods:       len(snap.Foods),
		Particles:   particles,
		Temperature: snap.Temperature,
		Pinned:      a.game.Weather().Overridden(),
		Tick:        snap.Tick,
		Speed:       a.game.Speed(),
		FPS:         rl.GetFPS(),
		Paused:      a.game.Paused(),
	})
	a.hud.DrawControls(int32(a.screenHeight), controlsHelp+"  "+a.overlays.HelpText())

	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perfPanel.Draw(a.game.Perf(), telemetry.Phases())
	}
	if a.inspectorVisible() {
		a.inspector.Draw(ui.InspectorData{Index: a.selected, Body: a.game.World().Bodies()[a.selected]})
	}

	a.syncControls()
	a.applyControls(a.controls.Draw(int32(a.screenWidth), a.state))
}

// inspectorVisible reports whether the inspector panel is drawn this frame.
func (a *App) inspectorVisible() bool {
	return a.overlays.IsEnabled(ui.OverlayInspector) && a.selected >= 0 && a.selected < len(a.game.World().Bodies())
}
