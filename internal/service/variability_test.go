package service

import (
	"math"
	"testing"
)

// Expected values follow the documented contract: MD5 of the id as an
// unsigned big-endian integer, (digest mod 71 + 30) / 100.
func TestVariabilityFactorContract(t *testing.T) {
	cases := map[string]float64{
		"123_456":    0.92,
		"987_654":    0.93,
		"seg-0001":   0.51,
		"A1":         0.63,
		"42":         0.65,
		"mock-seg-3": 0.89,
		"mock-seg-7": 0.32,
	}
	for id, want := range cases {
		if got := VariabilityFactor(id); math.Abs(got-want) > 1e-9 {
			t.Fatalf("VariabilityFactor(%q) = %.4f, want %.4f", id, got, want)
		}
	}
}

func TestVariabilityFactorStable(t *testing.T) {
	first := VariabilityFactor("some-segment-id")
	for i := 0; i < 100; i++ {
		if got := VariabilityFactor("some-segment-id"); got != first {
			t.Fatalf("call %d returned %.6f, first call returned %.6f", i, got, first)
		}
	}
}

func TestVariabilityFactorRange(t *testing.T) {
	ids := []string{"", "a", "b", "12_34", "98765_43210", "x_y_z", "segment", "0"}
	for _, id := range ids {
		got := VariabilityFactor(id)
		if got < 0.30 || got > 1.00 {
			t.Fatalf("VariabilityFactor(%q) = %.4f outside [0.30, 1.00]", id, got)
		}
	}
}
