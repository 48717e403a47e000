package systems

import (
	"math"

	"github.com/pthm-cable/amoeba/components"
)

// BodyParams holds the mass-spring constants shared by every body.
type BodyParams struct {
	NodeMass   float64
	NodeRadius float64

	PerimeterStiffness float64
	PerimeterDamping   float64
	DiagonalStiffness  float64
	DiagonalDamping    float64

	PressureConstant float64
	Restitution      float64 // fraction of velocity kept (and reversed) on a wall hit
	Drag             float64 // per-tick velocity multiplier
}

// DefaultBodyParams returns the reference mesh constants.
func DefaultBodyParams() BodyParams {
	return BodyParams{
		NodeMass:           1.0,
		NodeRadius:         5.0,
		PerimeterStiffness: 100.0,
		PerimeterDamping:   2.0,
		DiagonalStiffness:  50.0,
		DiagonalDamping:    2.0,
		PressureConstant:   10.0,
		Restitution:        0.5,
		Drag:               0.99,
	}
}

// SeedParams describes a body created at world start.
// X and Y are fractions of the world size.
type SeedParams struct {
	X, Y   float64
	Radius float64
	Nodes  int
	Color  components.Color
}

// WorldParams holds steering, feeding and spawning constants.
type WorldParams struct {
	Body BodyParams

	Motility float64 // velocity gain toward the nearest food, per second
	Jitter   float64 // half-width of the uniform wander range, per second

	GrowthRadius    float64 // radius added per food eaten
	GrowthRestScale float64 // spring rest length multiplier per food eaten

	SpawnBase           float64
	SpawnRefTemperature float64
	SpawnFloor          float64

	DefaultTemperature float64

	Seeds []SeedParams
}

// DefaultWorldParams returns the reference world constants with a single
// blue seed body in the centre.
func DefaultWorldParams() WorldParams {
	return WorldParams{
		Body:                DefaultBodyParams(),
		Motility:            50.0,
		Jitter:              10.0,
		GrowthRadius:        1.0,
		GrowthRestScale:     1.02,
		SpawnBase:           0.01,
		SpawnRefTemperature: 20.0,
		SpawnFloor:          0.1,
		DefaultTemperature:  20.0,
		Seeds: []SeedParams{
			{X: 0.5, Y: 0.5, Radius: 30, Nodes: 12, Color: components.Blue},
		},
	}
}

// SpawnProbability returns the per-tick chance of a new food item at the
// given ambient temperature. Warmer is richer; the floor keeps spawning alive
// at or below freezing.
func (p WorldParams) SpawnProbability(temperature float64) float64 {
	return p.SpawnBase * math.Max(temperature/p.SpawnRefTemperature, p.SpawnFloor)
}
