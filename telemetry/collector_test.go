package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

func newWorld(t *testing.T) *systems.World {
	t.Helper()
	w, err := systems.NewWorld(800, 600, systems.DefaultWorldParams(), &systems.SequenceRand{Values: []float64{0.5}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("window ticks = %d, want 4", c.WindowDurationTicks())
	}
	if c.ShouldFlush(3) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(4) {
		t.Error("should flush at the window end")
	}
}

func TestCollectorCountsWorldEvents(t *testing.T) {
	w := newWorld(t)
	c := NewCollector(10, 1.0/60)
	w.SetObserver(c)

	// Food under the seed body is eaten on the next tick.
	w.AddFood(r2.Vec{X: 400, Y: 300})
	w.Tick(1.0 / 60)
	c.FoodSpawned(components.NewFood(1, 1))

	s := c.Flush(w)
	if s.FoodEaten != 1 || s.FoodSpawned != 1 {
		t.Errorf("eaten %d spawned %d", s.FoodEaten, s.FoodSpawned)
	}
	if s.Nutrition != components.DefaultFoodValue {
		t.Errorf("nutrition = %v", s.Nutrition)
	}
	if s.Bodies != 1 || s.Foods != 0 || s.Temperature != 20 {
		t.Errorf("state = %+v", s)
	}
	if s.RadiusMean != 31 || s.RadiusP50 != 31 || s.RadiusMax != 31 {
		t.Errorf("radius stats = %v %v %v", s.RadiusMean, s.RadiusP50, s.RadiusMax)
	}
	if s.WindowEndTick != 1 || math.Abs(s.SimTimeSec-1.0/60) > 1e-12 {
		t.Errorf("window end %d sim time %v", s.WindowEndTick, s.SimTimeSec)
	}

	// Counters reset after a flush.
	s = c.Flush(w)
	if s.FoodEaten != 0 || s.FoodSpawned != 0 || s.Nutrition != 0 {
		t.Errorf("counters not reset: %+v", s)
	}
	if s.WindowStartTick != 1 {
		t.Errorf("window start = %d", s.WindowStartTick)
	}
}

func TestMeshStatsOfRestingBody(t *testing.T) {
	w := newWorld(t)
	speed, ke, volErr := MeshStats(w.Bodies())
	if speed != 0 || ke != 0 {
		t.Errorf("resting body: speed %v ke %v", speed, ke)
	}
	// A 12-gon inscribed in r=30 has about 4.5% less area than the circle.
	if volErr < 0.04 || volErr > 0.05 {
		t.Errorf("volume error = %v", volErr)
	}

	if s, k, v := MeshStats(nil); s != 0 || k != 0 || v != 0 {
		t.Error("no bodies should give zeros")
	}
}
