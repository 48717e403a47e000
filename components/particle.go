package components

// Position is an effect particle's world position.
type Position struct {
	X, Y float64
}

// Velocity is an effect particle's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Particle is a short-lived visual effect spawned by feeding.
type Particle struct {
	Life    float64 // seconds remaining
	MaxLife float64
	Size    float64
	Color   Color
}

// Fade returns the remaining life fraction in [0, 1].
func (p *Particle) Fade() float64 {
	if p.MaxLife <= 0 || p.Life <= 0 {
		return 0
	}
	if p.Life >= p.MaxLife {
		return 1
	}
	return p.Life / p.MaxLife
}
