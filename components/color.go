package components

import "fmt"

// Color is an 8-bit RGBA color. Renderers convert it to their own type.
type Color struct {
	R, G, B, A uint8
}

// Palette used by bodies and food.
var (
	White  = Color{R: 255, G: 255, B: 255, A: 255}
	Green  = Color{R: 0, G: 228, B: 48, A: 255}
	Blue   = Color{R: 0, G: 121, B: 241, A: 255}
	Red    = Color{R: 230, G: 41, B: 55, A: 255}
	Orange = Color{R: 255, G: 161, B: 0, A: 255}
	Purple = Color{R: 200, G: 122, B: 255, A: 255}
	Yellow = Color{R: 253, G: 249, B: 0, A: 255}
)

var namedColors = map[string]Color{
	"white":  White,
	"green":  Green,
	"blue":   Blue,
	"red":    Red,
	"orange": Orange,
	"purple": Purple,
	"yellow": Yellow,
}

// ParseColor resolves a palette name or a "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	var c Color
	if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	c.A = 255
	return c, nil
}
