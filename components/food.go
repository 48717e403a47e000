package components

import "gonum.org/v1/gonum/spatial/r2"

// DefaultFoodValue is the nutritional value of a freshly spawned food item.
const DefaultFoodValue = 10.0

// Food is a static nutrient point.
type Food struct {
	Pos   r2.Vec
	Value float64
	Color Color
}

// NewFood creates a food item at (x, y) with the default value and color.
func NewFood(x, y float64) Food {
	return Food{
		Pos:   r2.Vec{X: x, Y: y},
		Value: DefaultFoodValue,
		Color: Green,
	}
}
