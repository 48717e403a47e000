package systems

import (
	"math"
	"testing"
)

func TestSpawnProbability(t *testing.T) {
	p := DefaultWorldParams()
	tests := []struct {
		temp float64
		want float64
	}{
		{20, 0.01},
		{0, 0.001},
		{200, 0.1},
		{-15, 0.001},
		{1, 0.001},
		{40, 0.02},
	}

	for _, tt := range tests {
		if got := p.SpawnProbability(tt.temp); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SpawnProbability(%v) = %v, want %v", tt.temp, got, tt.want)
		}
	}
}

func TestSpawnPlacesOneFoodInBounds(t *testing.T) {
	rng := &SequenceRand{Values: []float64{0.0, 0.25, 0.75}}
	w := newTestWorld(t, DefaultWorldParams(), rng)
	obs := &recordingObserver{}
	w.SetObserver(obs)

	w.spawn()

	if len(w.Foods()) != 1 {
		t.Fatalf("expected one food, got %d", len(w.Foods()))
	}
	f := w.Foods()[0]
	if f.Pos.X != 200 || f.Pos.Y != 450 {
		t.Errorf("food at %v, want (200, 450)", f.Pos)
	}
	if obs.spawned != 1 {
		t.Errorf("observer saw %d spawns", obs.spawned)
	}
}

func TestSpawnTrialFails(t *testing.T) {
	// 0.01 is not below the 0.01 probability at 20 C.
	w := newTestWorld(t, DefaultWorldParams(), &SequenceRand{Values: []float64{0.01}})
	w.spawn()
	if len(w.Foods()) != 0 {
		t.Errorf("no food expected, got %d", len(w.Foods()))
	}
}

func TestWarmWorldSpawnsMoreFood(t *testing.T) {
	count := func(temp float64) int {
		w := newTestWorld(t, DefaultWorldParams(), newSeededRand(7))
		w.Temperature = temp
		for i := 0; i < 20000; i++ {
			w.spawn()
		}
		return len(w.Foods())
	}

	cold, warm := count(0), count(60)
	if warm <= cold {
		t.Errorf("warm world spawned %d, cold %d", warm, cold)
	}
}
