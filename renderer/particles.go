package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

// ParticleRenderer renders feeding splash particles.
type ParticleRenderer struct {
	cam *camera.Camera
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(cam *camera.Camera) *ParticleRenderer {
	return &ParticleRenderer{cam: cam}
}

// Draw renders all live particles, shrinking and fading them as they age.
func (r *ParticleRenderer) Draw(fx *systems.EffectSystem) {
	if fx == nil {
		return
	}
	fx.Each(func(pos components.Position, p components.Particle) {
		fade := float32(p.Fade())

		size := float32(p.Size) * fade * r.cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := r.cam.WorldToScreen(float32(pos.X), float32(pos.Y))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, withAlpha(toRL(p.Color), fade))
	})
}
