package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/systems"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 1e9, 3, 10})
	want := []float64{20, 200, 3, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s clamped to %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	pv.ApplyToConfig(cfg, pv.DefaultVector())

	def, _ := config.Load("")
	if cfg.Body != def.Body {
		t.Errorf("applying defaults changed the body section: %+v vs %+v", cfg.Body, def.Body)
	}
}

func TestShapeErrorOfFreshBody(t *testing.T) {
	b, err := systems.NewBody(r2.Vec{X: 100, Y: 100}, 30, 12, components.Blue, systems.DefaultBodyParams())
	if err != nil {
		t.Fatal(err)
	}
	area, distortion, ok := shapeError(b)
	if !ok {
		t.Fatal("fresh body reported as exploded")
	}
	// A regular 12-gon covers 3/pi of its circumscribed circle.
	if want := 1 - 3/math.Pi; math.Abs(area-want) > 1e-9 {
		t.Errorf("area error = %v, want %v", area, want)
	}
	if distortion > 1e-9 {
		t.Errorf("distortion = %v, want 0 for a regular ring", distortion)
	}
}

func TestEvaluateIsFinite(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	e := NewEvaluator(pv, 120, []int64{1, 2}, cfg)

	fit := e.Evaluate(pv.DefaultVector())
	last := e.Last()
	if last.Exploded || math.IsNaN(fit) || fit >= explodedFitness {
		t.Fatalf("default parameters scored %v (%+v)", fit, last)
	}
	if last.AreaError <= 0 || last.AreaError > 0.5 {
		t.Errorf("area error %v out of the plausible range", last.AreaError)
	}
}
