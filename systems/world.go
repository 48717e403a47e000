package systems

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

// TemperatureSource supplies the ambient temperature. Implementations must
// return immediately with the last known value.
type TemperatureSource interface {
	Temperature() float64
}

// Observer is notified of feeding and spawning as they happen in a tick.
type Observer interface {
	FoodEaten(body int, food components.Food)
	FoodSpawned(food components.Food)
}

// PhaseTimer receives the wall time spent in each tick phase.
type PhaseTimer interface {
	Record(name string, d time.Duration)
}

// Tick phase names reported to a PhaseTimer.
const (
	PhaseSteer = "steer+physics"
	PhaseFeed  = "feed"
	PhaseSpawn = "spawn"
)

// World owns the bodies and food and runs the per-tick update order:
// steering and physics, feeding, then food spawning.
type World struct {
	bodies []*Body
	foods  []components.Food

	// Temperature is refreshed from the attached source each tick.
	Temperature float64
	Width       float64
	Height      float64

	params   WorldParams
	rng      Rand
	source   TemperatureSource
	observer Observer
	timer    PhaseTimer

	eaten []int
	tick  uint64
}

// NewWorld creates a world of the given size seeded with p.Seeds.
// source may be nil, in which case Temperature stays at its default unless
// set directly.
func NewWorld(width, height float64, p WorldParams, rng Rand, source TemperatureSource) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("world size must be positive, got %vx%v", width, height)
	}
	if rng == nil {
		return nil, errors.New("world needs a random source")
	}
	if len(p.Seeds) == 0 {
		return nil, errors.New("world needs at least one seed body")
	}

	w := &World{
		Temperature: p.DefaultTemperature,
		Width:       width,
		Height:      height,
		params:      p,
		rng:         rng,
		source:      source,
	}

	for i, seed := range p.Seeds {
		center := r2.Vec{X: seed.X * width, Y: seed.Y * height}
		b, err := NewBody(center, seed.Radius, seed.Nodes, seed.Color, p.Body)
		if err != nil {
			return nil, fmt.Errorf("seed body %d: %w", i, err)
		}
		w.bodies = append(w.bodies, b)
	}

	return w, nil
}

// SetObserver attaches an event observer (nil detaches).
func (w *World) SetObserver(o Observer) { w.observer = o }

// SetPhaseTimer attaches a phase timer (nil detaches).
func (w *World) SetPhaseTimer(t PhaseTimer) { w.timer = t }

// SetBounds resizes the world box. Bodies are clamped on their next update.
func (w *World) SetBounds(width, height float64) {
	if width > 0 {
		w.Width = width
	}
	if height > 0 {
		w.Height = height
	}
}

// Tick advances the world by dt seconds.
func (w *World) Tick(dt float64) {
	if w.source != nil {
		w.Temperature = w.source.Temperature()
	}

	start := time.Now()
	w.steerAndMove(dt)
	start = w.record(PhaseSteer, start)

	w.feed()
	start = w.record(PhaseFeed, start)

	w.spawn()
	w.record(PhaseSpawn, start)

	w.tick++
}

func (w *World) record(name string, start time.Time) time.Time {
	if w.timer == nil {
		return start
	}
	now := time.Now()
	w.timer.Record(name, now.Sub(start))
	return now
}

// Bodies returns the bodies in update order. Callers must not modify it.
func (w *World) Bodies() []*Body { return w.bodies }

// Foods returns the active food items. Callers must not modify it.
func (w *World) Foods() []components.Food { return w.foods }

// Params returns the world constants.
func (w *World) Params() WorldParams { return w.params }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 { return w.tick }

// AddBody appends a body to the update order.
func (w *World) AddBody(b *Body) { w.bodies = append(w.bodies, b) }

// AddFood places a default food item at pos.
func (w *World) AddFood(pos r2.Vec) {
	w.foods = append(w.foods, components.NewFood(pos.X, pos.Y))
}

// Snapshot copies the render state of the world.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Bodies:      make([]BodyView, len(w.bodies)),
		Foods:       make([]components.Food, len(w.foods)),
		Temperature: w.Temperature,
		Width:       w.Width,
		Height:      w.Height,
		Tick:        w.tick,
	}
	for i, b := range w.bodies {
		s.Bodies[i] = ViewOf(b, b.Radius())
		s.Bodies[i].Target, s.Bodies[i].HasTarget = w.nearestFood(b.centroid)
	}
	copy(s.Foods, w.foods)
	return s
}
