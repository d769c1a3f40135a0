package service

import (
	"testing"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
)

func TestDeliveriesForEntry(t *testing.T) {
	cases := []struct {
		kg   float64
		want int
	}{
		{0, 1},   // every active entry gets at least the base delivery
		{5, 2},   // 1 + ceil(0.5)
		{25, 4},  // 1 + ceil(2.5)
		{40, 5},  // 1 + 4
		{100, 11},
		{-3, 0}, // malformed rows contribute nothing
	}
	for _, tc := range cases {
		got := DeliveriesForEntry(domain.ScheduleEntry{MaterialKG: tc.kg})
		if got != tc.want {
			t.Fatalf("DeliveriesForEntry(%.1f kg) = %d, want %d", tc.kg, got, tc.want)
		}
	}
}

func TestDailyDeliveriesFiltersByDate(t *testing.T) {
	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	schedule := []domain.ScheduleEntry{
		{Date: monday, MaterialKG: 40},                  // 5
		{Date: monday, MaterialKG: 25},                  // 4
		{Date: monday.AddDate(0, 0, 1), MaterialKG: 90}, // other day
	}

	if got := DailyDeliveries(schedule, monday); got != 9 {
		t.Fatalf("expected 9 deliveries on Monday, got %d", got)
	}
	if got := DailyDeliveries(schedule, monday.AddDate(0, 0, 2)); got != 0 {
		t.Fatalf("expected no deliveries on an empty day, got %d", got)
	}
}

func TestHourlyDeliveriesWeights(t *testing.T) {
	// Weight sum is 29; a daily total of 29 makes expectations exact.
	if got := HourlyDeliveries(29, 9); !almostEqual(got, 5) {
		t.Fatalf("expected 5 deliveries at 09:00, got %.4f", got)
	}
	if got := HourlyDeliveries(29, 7); !almostEqual(got, 1) {
		t.Fatalf("expected 1 delivery at 07:00, got %.4f", got)
	}
	if got := HourlyDeliveries(29, 12); got != 0 {
		t.Fatalf("expected lunch break to carry no deliveries, got %.4f", got)
	}
	if got := HourlyDeliveries(29, 3); got != 0 {
		t.Fatalf("expected nothing outside the working day, got %.4f", got)
	}

	var total float64
	for hour := 0; hour < 24; hour++ {
		total += HourlyDeliveries(29, hour)
	}
	if !almostEqual(total, 29) {
		t.Fatalf("hourly distribution does not preserve the daily total: %.4f", total)
	}
}

func TestAccessSegmentIDs(t *testing.T) {
	project := domain.Project{
		AccessRoutes: [][][]float64{
			{{7.5900, 47.5600}, {7.5910, 47.5610}},
		},
	}
	segments := []domain.RoadSegment{
		{ID: "on-route", Coordinates: [][]float64{{7.5900, 47.5600}, {7.5905, 47.5605}}},
		{ID: "far-away", Coordinates: [][]float64{{7.6100, 47.5800}, {7.6110, 47.5810}}},
	}

	ids := AccessSegmentIDs(project, segments)
	if !ids["on-route"] {
		t.Fatal("segment on the access route was not tagged")
	}
	if ids["far-away"] {
		t.Fatal("distant segment wrongly tagged as access route")
	}

	none := AccessSegmentIDs(domain.Project{}, segments)
	if len(none) != 0 {
		t.Fatalf("expected no access segments without routes, got %d", len(none))
	}
}
