package service

import (
	"math"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
	"github.com/sitetraffic/backend/pkg/utils"
)

// Fixed hourly delivery weights for the working day. Two peaks at 09-10 and
// 14-15, lunch break at 12-13. The distribution is deterministic: the daily
// total is split proportionally, never drawn at random.
var hourlyDeliveryWeights = map[int]float64{
	7:  1,
	8:  2,
	9:  5,
	10: 5,
	11: 3,
	12: 0,
	13: 0,
	14: 5,
	15: 5,
	16: 2,
	17: 1,
}

var deliveryWeightSum = func() float64 {
	var sum float64
	for _, w := range hourlyDeliveryWeights {
		sum += w
	}
	return sum
}()

// accessRouteToleranceKM is how close (haversine) a segment vertex must be to
// an access-route vertex to count the segment as part of the route.
const accessRouteToleranceKM = 0.05

// DeliveriesForEntry applies the demand rule to one schedule row:
// 1 + ceil(material_kg / 10) deliveries on the entry's date.
func DeliveriesForEntry(entry domain.ScheduleEntry) int {
	if entry.MaterialKG < 0 {
		return 0
	}
	return 1 + int(math.Ceil(entry.MaterialKG/10))
}

// DailyDeliveries sums the delivery demand of every schedule entry active on
// the given date.
func DailyDeliveries(schedule []domain.ScheduleEntry, date time.Time) int {
	y, m, d := date.Date()
	total := 0
	for _, entry := range schedule {
		ey, em, ed := entry.Date.Date()
		if ey == y && em == m && ed == d {
			total += DeliveriesForEntry(entry)
		}
	}
	return total
}

// HourlyDeliveries distributes a daily delivery total over the hour using the
// fixed weight table. Hours outside the working day get zero.
func HourlyDeliveries(dailyTotal int, hour int) float64 {
	w, ok := hourlyDeliveryWeights[hour]
	if !ok || dailyTotal == 0 {
		return 0
	}
	return float64(dailyTotal) * w / deliveryWeightSum
}

// AccessSegmentIDs resolves which road segments carry the project's delivery
// traffic, by haversine proximity of segment geometry to the access-route
// polylines.
func AccessSegmentIDs(project domain.Project, segments []domain.RoadSegment) map[string]bool {
	ids := make(map[string]bool)
	if len(project.AccessRoutes) == 0 {
		return ids
	}
	for _, seg := range segments {
		if segmentOnAccessRoute(seg, project.AccessRoutes) {
			ids[seg.ID] = true
		}
	}
	return ids
}

func segmentOnAccessRoute(seg domain.RoadSegment, routes [][][]float64) bool {
	for _, point := range seg.Coordinates {
		if len(point) < 2 {
			continue
		}
		for _, route := range routes {
			for _, rp := range route {
				if len(rp) < 2 {
					continue
				}
				// Coordinates are [lon, lat]; Haversine takes lat first.
				if utils.Haversine(point[1], point[0], rp[1], rp[0]) <= accessRouteToleranceKM {
					return true
				}
			}
		}
	}
	return false
}
