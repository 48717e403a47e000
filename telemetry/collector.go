package telemetry

import (
	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
// It implements systems.Observer.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float64

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	foodEaten   int
	foodSpawned int
	nutrition   float64
}

var _ systems.Observer = (*Collector)(nil)

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := uint64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// FoodEaten records a feeding event.
func (c *Collector) FoodEaten(_ int, food components.Food) {
	c.foodEaten++
	c.nutrition += food.Value
}

// FoodSpawned records a spawn event.
func (c *Collector) FoodSpawned(components.Food) {
	c.foodSpawned++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the world state and resets counters for
// the next window.
func (c *Collector) Flush(w *systems.World) WindowStats {
	currentTick := w.TickCount()
	bodies := w.Bodies()

	radii := make([]float64, len(bodies))
	for i, b := range bodies {
		radii[i] = b.Radius()
	}
	mean, std, p50, maxR := ComputeSizeStats(radii)
	speed, ke, volErr := MeshStats(bodies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Bodies:      len(bodies),
		Foods:       len(w.Foods()),
		Temperature: w.Temperature,

		FoodEaten:   c.foodEaten,
		FoodSpawned: c.foodSpawned,
		Nutrition:   c.nutrition,

		RadiusMean: mean,
		RadiusStd:  std,
		RadiusP50:  p50,
		RadiusMax:  maxR,

		MeanSpeed:     speed,
		KineticEnergy: ke,
		VolumeError:   volErr,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.foodEaten = 0
	c.foodSpawned = 0
	c.nutrition = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
