package systems

import "slices"

// feed lets bodies eat food inside their radius. Each food goes to the first
// body in update order that reaches it, and is removed exactly once.
func (w *World) feed() {
	w.eaten = w.eaten[:0]

	for fi := range w.foods {
		food := w.foods[fi]
		for bi, b := range w.bodies {
			if distance(b.centroid, food.Pos) < b.baseRadius {
				w.eaten = append(w.eaten, fi)
				b.feed(food, w.params)
				if w.observer != nil {
					w.observer.FoodEaten(bi, food)
				}
				break
			}
		}
	}

	if len(w.eaten) > 0 {
		w.foods = RemoveIndices(w.foods, w.eaten)
	}
}

// RemoveIndices deletes the elements at the given indices, preserving the
// order of the rest. Indices are sorted and de-duplicated in place and
// removed from the highest down so earlier removals never shift later ones.
func RemoveIndices[T any](s []T, indices []int) []T {
	slices.Sort(indices)
	indices = slices.Compact(indices)
	for i := len(indices) - 1; i >= 0; i-- {
		idx := indices[i]
		if idx < 0 || idx >= len(s) {
			continue
		}
		s = slices.Delete(s, idx, idx+1)
	}
	return s
}
