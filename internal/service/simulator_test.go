package service

import (
	"math"
	"testing"

	"github.com/sitetraffic/backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestTimeFactorBaseCurve(t *testing.T) {
	sim := NewSimulator()
	cases := []struct {
		hour int
		want float64
	}{
		{8, 0.80},  // morning peak
		{17, 0.75}, // evening peak
		{12, 0.40}, // midday plateau
		{3, 0.25},  // night
		{22, 0.25},
	}
	for _, tc := range cases {
		if got := sim.TimeFactor(tc.hour, 0, false); !almostEqual(got, tc.want) {
			t.Fatalf("TimeFactor(%d) = %.4f, want %.4f", tc.hour, got, tc.want)
		}
	}
}

func TestTimeFactorCounterBlendAndClamp(t *testing.T) {
	sim := NewSimulator()

	// Midday: 0.40 + 0.5*0.25 = 0.525
	if got := sim.TimeFactor(12, 0.5, true); !almostEqual(got, 0.525) {
		t.Fatalf("expected 0.525, got %.4f", got)
	}
	// Morning peak saturates: 0.80 + 1.0*0.40 clamped to 0.95
	if got := sim.TimeFactor(8, 1.0, true); !almostEqual(got, 0.95) {
		t.Fatalf("expected clamp at 0.95, got %.4f", got)
	}
	// Zero counter congestion equals the base curve
	if got := sim.TimeFactor(8, 0, true); !almostEqual(got, 0.80) {
		t.Fatalf("expected base curve at zero congestion, got %.4f", got)
	}
}

func TestSimulateVolumePrimaryPeak(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "123_456", HighwayType: "primary", Capacity: 1500}

	// timeFactor(17) = 0.75, band (0.30, 0.85) -> driven 0.7125,
	// variability("123_456") = 0.92 -> scaled 0.6555, volume 983.25
	got := sim.SimulateVolume(seg, 17, 0, false, 0)
	if !almostEqual(got, 983.25) {
		t.Fatalf("expected 983.25, got %.4f", got)
	}

	cong, ok := sim.Congestion(got, seg.Capacity)
	if !ok {
		t.Fatal("expected defined congestion")
	}
	if !almostEqual(cong, 983.25/1500) {
		t.Fatalf("expected %.4f, got %.4f", 983.25/1500, cong)
	}
}

func TestSimulateVolumeResidentialOverride(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "seg-0001", HighwayType: "residential", Capacity: 400}

	// timeFactor(8) = 0.80, band (0.03, 0.25) -> driven 0.206,
	// variability("seg-0001") = 0.51 -> capacity-based 42.024,
	// absolute ceiling 30 * 0.51 * 0.80 = 12.24 wins.
	got := sim.SimulateVolume(seg, 8, 0, false, 0)
	if !almostEqual(got, 12.24) {
		t.Fatalf("expected absolute-flow override 12.24, got %.4f", got)
	}
}

func TestSimulateVolumeHardCap(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "seg-0001", HighwayType: "residential", Capacity: 400}

	got := sim.SimulateVolume(seg, 8, 0, false, 10000)
	if !almostEqual(got, 600) { // 1.5 x 400
		t.Fatalf("expected hard cap 600, got %.4f", got)
	}
}

func TestSimulateVolumeZeroCapacity(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "A1", HighwayType: "footway", Capacity: 0}

	if got := sim.SimulateVolume(seg, 8, 0, false, 0); got != 0 {
		t.Fatalf("expected zero volume for zero capacity, got %.4f", got)
	}
	if _, ok := sim.Congestion(0, 0); ok {
		t.Fatal("congestion must be undefined for zero capacity")
	}
}

func TestSimulateVolumeUnknownTypeFallsBack(t *testing.T) {
	sim := NewSimulator()
	unknown := domain.RoadSegment{ID: "42", HighwayType: "flugpiste", Capacity: 400}
	residential := domain.RoadSegment{ID: "42", HighwayType: "residential", Capacity: 400}

	got := sim.SimulateVolume(unknown, 8, 0, false, 0)
	want := sim.SimulateVolume(residential, 8, 0, false, 0)
	if !almostEqual(got, want) {
		t.Fatalf("unknown type should follow the residential band: got %.4f, want %.4f", got, want)
	}
}

func TestSimulateVolumeMonotonicInCounterCongestion(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "987_654", HighwayType: "secondary", Capacity: 1000}

	for hour := 0; hour < 24; hour++ {
		prev := -1.0
		for _, cc := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
			got := sim.SimulateVolume(seg, hour, cc, true, 0)
			if got < prev {
				t.Fatalf("hour %d: volume decreased from %.4f to %.4f as counter congestion rose to %.2f", hour, prev, got, cc)
			}
			prev = got
		}
	}
}

func TestSimulateVolumeFallbackEqualsBaseCurve(t *testing.T) {
	sim := NewSimulator()
	seg := domain.RoadSegment{ID: "seg-0002", HighwayType: "tertiary", Capacity: 700}

	for hour := 0; hour < 24; hour++ {
		withIgnored := sim.SimulateVolume(seg, hour, 0.42, false, 0)
		base := sim.SimulateVolume(seg, hour, 0, false, 0)
		if withIgnored != base {
			t.Fatalf("hour %d: counter value leaked into fallback path", hour)
		}
	}
}

func TestSimulateVolumeBounds(t *testing.T) {
	sim := NewSimulator()
	types := []string{"motorway", "primary", "secondary", "residential", "service", "living_street", "unclassified", "weird_type"}
	for _, ht := range types {
		seg := domain.RoadSegment{ID: "bounds-" + ht, HighwayType: ht, Capacity: domain.CapacityFor(ht)}
		for hour := 0; hour < 24; hour++ {
			vol := sim.SimulateVolume(seg, hour, 0.8, true, 3)
			if vol < 0 || vol > seg.Capacity*1.5+1e-9 {
				t.Fatalf("%s hour %d: volume %.2f outside [0, %.2f]", ht, hour, vol, seg.Capacity*1.5)
			}
			cong, ok := sim.Congestion(vol, seg.Capacity)
			if ok && (cong < 0 || cong > 1) {
				t.Fatalf("%s hour %d: congestion %.4f outside [0,1]", ht, hour, cong)
			}
		}
	}
}
