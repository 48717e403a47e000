package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

func newSeededRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func TestEffectBurstAndExpiry(t *testing.T) {
	p := DefaultEffectParams()
	fx := NewEffectSystem(newSeededRand(1), p)

	fx.Burst(r2.Vec{X: 100, Y: 100}, components.Green)
	if fx.Count() != p.PerBurst {
		t.Fatalf("count = %d, want %d", fx.Count(), p.PerBurst)
	}

	fx.Update(p.Life / 2)
	seen := 0
	fx.Each(func(pos components.Position, part components.Particle) {
		seen++
		if pos.X == 100 && pos.Y == 100 {
			t.Error("particle did not move")
		}
		if f := part.Fade(); f <= 0 || f >= 1 {
			t.Errorf("fade = %v mid-life", f)
		}
	})
	if seen != p.PerBurst {
		t.Errorf("Each visited %d particles", seen)
	}

	fx.Update(p.Life)
	if fx.Count() != 0 {
		t.Errorf("particles should expire, %d left", fx.Count())
	}
}

func TestEffectsObserveFeeding(t *testing.T) {
	fx := NewEffectSystem(newSeededRand(2), DefaultEffectParams())
	rec := &recordingObserver{}
	obs := Observers{fx, rec, nil}

	obs.FoodEaten(3, components.NewFood(5, 5))
	obs.FoodSpawned(components.NewFood(1, 1))

	if fx.Count() != DefaultEffectParams().PerBurst {
		t.Errorf("effect count = %d", fx.Count())
	}
	if len(rec.eaten) != 1 || rec.eaten[0] != 3 || rec.spawned != 1 {
		t.Errorf("recording observer: %+v", rec)
	}
}
