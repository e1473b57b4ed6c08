package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"unit east", Point{0, 0}, Point{0, 1}, 1},
		{"unit north", Point{0, 0}, Point{1, 0}, 1},
		{"pythagorean", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{0, -0.1}, Point{0, 0.1}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{1.5, -2.25}
	b := Point{-0.75, 3.5}
	if Distance(a, b) != Distance(b, a) {
		t.Errorf("Distance(a, b) = %v, Distance(b, a) = %v", Distance(a, b), Distance(b, a))
	}
}
