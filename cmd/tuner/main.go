// Soft-body tuner - a single body in a box with sliders for the mesh
// constants. Click to drop food, the body chases it.
//
// Usage: go run ./cmd/tuner [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/renderer"
	"github.com/pthm-cable/amoeba/systems"
	"github.com/pthm-cable/amoeba/telemetry"
	"github.com/pthm-cable/amoeba/weather"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// slider describes one adjustable body parameter.
type slider struct {
	label    string
	min, max float32
	value    *float64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// One body in a square box regardless of the configured seeds.
	cfg.Seeds = cfg.Seeds[:1]
	cfg.Seeds[0].X, cfg.Seeds[0].Y = 0.5, 0.5
	cfg.Spawn.BaseChance = 0

	rl.InitWindow(windowWidth, windowHeight, "Amoeba Tuner")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	body := &cfg.Body
	sliders := []slider{
		{"Perimeter stiffness", 10, 500, &body.PerimeterStiffness},
		{"Diagonal stiffness", 0, 300, &body.DiagonalStiffness},
		{"Perimeter damping", 0, 10, &body.PerimeterDamping},
		{"Diagonal damping", 0, 10, &body.DiagonalDamping},
		{"Pressure constant", 0, 100, &body.PressureConstant},
		{"Drag", 0.9, 1, &body.Drag},
		{"Restitution", 0, 1, &body.Restitution},
	}

	cam := camera.New(previewSize, previewSize, previewSize, previewSize)
	preview := renderer.NewWorldRenderer(cam)
	preview.OutlineColor = rl.DarkGray
	preview.ShowNodes = true

	world := rebuild(cfg)
	paused := false

	for !rl.WindowShouldClose() {
		if !paused {
			dt := min(float64(rl.GetFrameTime()), cfg.Loop.MaxDT)
			if dt > 0 {
				world.Tick(dt)
			}
		}

		mouse := rl.GetMousePosition()
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && mouse.X <= previewSize && mouse.Y <= previewSize {
			wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
			world.AddFood(r2.Vec{X: float64(wx), Y: float64(wy)})
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		snap := world.Snapshot()
		preview.DrawBounds(snap)
		preview.DrawFood(snap)
		preview.DrawBodies(snap)

		b := world.Bodies()[0]
		_, kinetic, volErr := telemetry.MeshStats(world.Bodies())
		statsY := int32(previewSize + 12)
		rl.DrawText(fmt.Sprintf("Area: %.0f / %.0f  (err %.1f%%)  KE: %.1f  Radius: %.1f",
			b.Volume(), b.TargetVolume(), volErr*100, kinetic, b.Radius()), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Body Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprint(s.min), fmt.Sprint(s.max),
				float32(*s.value), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf("%.2f", *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != float32(*s.value) {
				*s.value = float64(v)
				changed = true
			}
			panelY += 35
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		btnW := float32(panelWidth-40) / 3
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: btnW, Height: 30}, "Kick") {
			angle := rand.Float64() * 2 * math.Pi
			b.Nudge(r2.Scale(150, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
		}
		if gui.Button(rl.Rectangle{X: panelX + btnW + 10, Y: panelY, Width: btnW, Height: 30}, "Reset") {
			changed = true
		}
		pauseLabel := "Pause"
		if paused {
			pauseLabel = "Resume"
		}
		if gui.Button(rl.Rectangle{X: panelX + 2*(btnW+10), Y: panelY, Width: btnW, Height: 30}, pauseLabel) {
			paused = !paused
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 20), Height: 30}, "Print YAML") {
			fmt.Printf("body:\n  perimeter_stiffness: %.2f\n  diagonal_stiffness: %.2f\n  perimeter_damping: %.2f\n"+
				"  diagonal_damping: %.2f\n  pressure_constant: %.2f\n  drag: %.4f\n  restitution: %.2f\n",
				body.PerimeterStiffness, body.DiagonalStiffness, body.PerimeterDamping,
				body.DiagonalDamping, body.PressureConstant, body.Drag, body.Restitution)
		}

		rl.EndDrawing()

		// Spring constants are baked in at construction, so any change
		// restarts the body.
		if changed {
			world = rebuild(cfg)
		}
	}
}

// rebuild creates a fresh single-body world from cfg.
func rebuild(cfg *config.Config) *systems.World {
	w, err := systems.NewWorld(previewSize, previewSize, cfg.WorldParams(), rand.New(rand.NewSource(1)), weather.Fixed(cfg.Weather.DefaultTemperature))
	if err != nil {
		log.Fatalf("failed to build world: %v", err)
	}
	return w
}
