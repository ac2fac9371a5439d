package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %v", norm)
	}

	// Zero vector is left unchanged.
	z := []float32{0, 0, 0}
	NormalizeL2(z)
	for i, x := range z {
		if x != 0 {
			t.Errorf("zero vector changed at %d: %v", i, x)
		}
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.8, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
