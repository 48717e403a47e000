package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSpringForceCoincidentEndpoints(t *testing.T) {
	s := Spring{A: 0, B: 1, RestLength: 10, Stiffness: 100, Damping: 2}
	p := r2.Vec{X: 3, Y: 4}

	f := s.Force(p, p, r2.Vec{X: 1}, r2.Vec{Y: -1})
	if f != (r2.Vec{}) {
		t.Errorf("coincident endpoints should give zero force, got %v", f)
	}
	if math.IsNaN(f.X) || math.IsNaN(f.Y) || math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
		t.Errorf("force must be finite, got %v", f)
	}
}

func TestSpringForce(t *testing.T) {
	tests := []struct {
		name   string
		spring Spring
		pa, pb r2.Vec
		va, vb r2.Vec
		want   r2.Vec
	}{
		{
			name:   "at rest",
			spring: Spring{RestLength: 10, Stiffness: 100, Damping: 2},
			pa:     r2.Vec{X: 0}, pb: r2.Vec{X: 10},
			want: r2.Vec{},
		},
		{
			name:   "stretched pulls A toward B",
			spring: Spring{RestLength: 10, Stiffness: 100, Damping: 2},
			pa:     r2.Vec{X: 0}, pb: r2.Vec{X: 12},
			want: r2.Vec{X: 200},
		},
		{
			name:   "compressed pushes A away from B",
			spring: Spring{RestLength: 10, Stiffness: 50, Damping: 0},
			pa:     r2.Vec{Y: 0}, pb: r2.Vec{Y: 8},
			want: r2.Vec{Y: -100},
		},
		{
			name:   "separating endpoints add damping",
			spring: Spring{RestLength: 10, Stiffness: 100, Damping: 2},
			pa:     r2.Vec{X: 0}, pb: r2.Vec{X: 10},
			va: r2.Vec{X: -1}, vb: r2.Vec{X: 2},
			want: r2.Vec{X: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spring.Force(tt.pa, tt.pb, tt.va, tt.vb)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Force() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("blue")
	if err != nil || c != Blue {
		t.Errorf("ParseColor(blue) = %v, %v", c, err)
	}

	c, err = ParseColor("#102030")
	if err != nil {
		t.Fatalf("ParseColor hex: %v", err)
	}
	if c != (Color{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Errorf("ParseColor(#102030) = %v", c)
	}

	if _, err := ParseColor("mauve"); err == nil {
		t.Error("expected error for unknown color")
	}
}
