package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

// EffectParams controls feeding splash particles.
type EffectParams struct {
	PerBurst int     // particles per eaten food
	Speed    float64 // initial particle speed, world units per second
	Life     float64 // seconds
	Size     float64
	Drag     float64 // per-second velocity retention
}

// DefaultEffectParams returns the reference splash settings.
func DefaultEffectParams() EffectParams {
	return EffectParams{
		PerBurst: 8,
		Speed:    60,
		Life:     0.6,
		Size:     3,
		Drag:     0.05,
	}
}

// EffectSystem keeps splash particles as ECS entities. It is purely visual
// and never feeds back into the simulation.
type EffectSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Particle]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Particle]

	rng    Rand
	params EffectParams
	dead   []ecs.Entity
	count  int
}

// NewEffectSystem creates an empty effect system.
func NewEffectSystem(rng Rand, p EffectParams) *EffectSystem {
	w := ecs.NewWorld()
	return &EffectSystem{
		world:  w,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Particle](w),
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Particle](w),
		rng:    rng,
		params: p,
	}
}

// Burst emits a ring of particles at pos.
func (s *EffectSystem) Burst(pos r2.Vec, color components.Color) {
	for i := 0; i < s.params.PerBurst; i++ {
		angle := 2*math.Pi*float64(i)/float64(s.params.PerBurst) + uniform(s.rng, -0.3, 0.3)
		speed := s.params.Speed * uniform(s.rng, 0.5, 1.0)

		p := components.Position{X: pos.X, Y: pos.Y}
		v := components.Velocity{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
		part := components.Particle{
			Life:    s.params.Life,
			MaxLife: s.params.Life,
			Size:    s.params.Size,
			Color:   color,
		}
		s.mapper.NewEntity(&p, &v, &part)
		s.count++
	}
}

// Update ages, moves and expires particles.
func (s *EffectSystem) Update(dt float64) {
	retain := math.Pow(s.params.Drag, dt)
	s.dead = s.dead[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, part := query.Get()

		part.Life -= dt
		if part.Life <= 0 {
			s.dead = append(s.dead, query.Entity())
			continue
		}

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		vel.X *= retain
		vel.Y *= retain
	}

	// Remove after the query has released the world
	for _, e := range s.dead {
		s.world.RemoveEntity(e)
		s.count--
	}
}

// Each calls fn for every live particle.
func (s *EffectSystem) Each(fn func(pos components.Position, p components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		pos, _, part := query.Get()
		fn(*pos, *part)
	}
}

// Count returns the number of live particles.
func (s *EffectSystem) Count() int { return s.count }

// FoodEaten implements Observer.
func (s *EffectSystem) FoodEaten(_ int, food components.Food) {
	s.Burst(food.Pos, food.Color)
}

// FoodSpawned implements Observer.
func (s *EffectSystem) FoodSpawned(components.Food) {}

// Observers fans events out to several observers in order.
type Observers []Observer

// FoodEaten implements Observer.
func (os Observers) FoodEaten(body int, food components.Food) {
	for _, o := range os {
		if o != nil {
			o.FoodEaten(body, food)
		}
	}
}

// FoodSpawned implements Observer.
func (os Observers) FoodSpawned(food components.Food) {
	for _, o := range os {
		if o != nil {
			o.FoodSpawned(food)
		}
	}
}
