package systems

import "github.com/pthm-cable/amoeba/components"

// spawn places at most one food item per tick, with a probability that
// scales with the ambient temperature.
func (w *World) spawn() {
	if w.rng.Float64() >= w.params.SpawnProbability(w.Temperature) {
		return
	}

	food := components.NewFood(
		uniform(w.rng, 0, w.Width),
		uniform(w.rng, 0, w.Height),
	)
	w.foods = append(w.foods, food)
	if w.observer != nil {
		w.observer.FoodSpawned(food)
	}
}
