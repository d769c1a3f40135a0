package service

import (
	"math"
	"testing"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
)

func testProfiles() []domain.CounterProfile {
	primary := domain.NewCounterProfile("Z401", domain.RolePrimary)
	primary.Add(time.Monday, 8, 400)
	primary.Add(time.Monday, 17, 500) // historical max

	secondary := domain.NewCounterProfile("Z417", domain.RoleSecondary)
	secondary.Add(time.Monday, 8, 150)
	secondary.Add(time.Monday, 17, 300) // historical max
	secondary.Add(time.Tuesday, 8, 240)

	return []domain.CounterProfile{primary, secondary}
}

func TestAverageCongestionWeighted(t *testing.T) {
	set := NewCounterSet(testProfiles())

	// primary ratio 400/500 = 0.8 at weight 2, secondary 150/300 = 0.5 at
	// weight 1 -> (1.6 + 0.5) / 3 = 0.7
	got, ok := set.AverageCongestion(time.Monday, 8)
	if !ok {
		t.Fatal("expected data for Monday 08:00")
	}
	if math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("expected 0.7, got %.6f", got)
	}
}

func TestAverageCongestionSkipsMissingStation(t *testing.T) {
	set := NewCounterSet(testProfiles())

	// Only the secondary station has a Tuesday 08:00 row: 240/300 = 0.8.
	got, ok := set.AverageCongestion(time.Tuesday, 8)
	if !ok {
		t.Fatal("expected data for Tuesday 08:00")
	}
	if math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("expected 0.8, got %.6f", got)
	}
}

func TestAverageCongestionNoData(t *testing.T) {
	set := NewCounterSet(testProfiles())
	if _, ok := set.AverageCongestion(time.Wednesday, 3); ok {
		t.Fatal("expected no data for an unobserved slot")
	}

	empty := NewCounterSet(nil)
	if _, ok := empty.AverageCongestion(time.Monday, 8); ok {
		t.Fatal("expected no data with no stations selected")
	}
}

func TestAverageCongestionBounded(t *testing.T) {
	spiky := domain.NewCounterProfile("Z9", domain.RolePrimary)
	spiky.Add(time.Monday, 8, 100)
	set := NewCounterSet([]domain.CounterProfile{spiky})

	got, ok := set.AverageCongestion(time.Monday, 8)
	if !ok {
		t.Fatal("expected data")
	}
	if got < 0 || got > 1 {
		t.Fatalf("ratio %.4f outside [0,1]", got)
	}
}

func TestFingerprintOrderIndependent(t *testing.T) {
	profiles := testProfiles()
	a := NewCounterSet(profiles).Fingerprint()
	b := NewCounterSet([]domain.CounterProfile{profiles[1], profiles[0]}).Fingerprint()
	if a != b {
		t.Fatalf("fingerprint depends on station order: %s vs %s", a, b)
	}
}

func TestFingerprintChangesWithSelection(t *testing.T) {
	profiles := testProfiles()
	full := NewCounterSet(profiles).Fingerprint()
	reduced := NewCounterSet(profiles[:1]).Fingerprint()
	none := NewCounterSet(nil).Fingerprint()

	if full == reduced {
		t.Fatal("removing a station did not change the fingerprint")
	}
	if reduced == none || full == none {
		t.Fatal("empty selection must have a distinct fingerprint")
	}
}
