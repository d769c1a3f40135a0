package service

import (
	"github.com/sitetraffic/backend/internal/domain"
	"github.com/sitetraffic/backend/pkg/utils"
)

// Diurnal base curve: a flat base plus per-band bonuses, with counter
// observations blended in at a per-band weight. Versioned configuration:
// tune here, never inline.
const (
	timeFactorBase = 0.15

	bonusMorning = 0.65 // 07:00-09:00
	bonusEvening = 0.60 // 16:00-18:00
	bonusMidday  = 0.25 // 10:00-15:00
	bonusNight   = 0.10

	blendPeak   = 0.40
	blendMidday = 0.25
	blendNight  = 0.15

	timeFactorMin = 0.05
	timeFactorMax = 0.95

	utilizationFloor = 0.005
	volumeCapFactor  = 1.5
)

// Simulator is the deterministic hourly traffic volume engine. It is
// stateless and safe to call concurrently.
type Simulator struct{}

// NewSimulator creates a new simulator
func NewSimulator() Simulator {
	return Simulator{}
}

// TimeFactor returns the hour-of-day busyness scalar in [0.05, 0.95].
// When a counter congestion ratio is available it raises or lowers the base
// curve everywhere in the project, so hours with observed real-world
// congestion produce systematically higher simulated volume.
func (Simulator) TimeFactor(hour int, counterCong float64, hasCounter bool) float64 {
	var bonus, blend float64
	switch {
	case hour >= 7 && hour <= 9:
		bonus, blend = bonusMorning, blendPeak
	case hour >= 16 && hour <= 18:
		bonus, blend = bonusEvening, blendPeak
	case hour >= 10 && hour <= 15:
		bonus, blend = bonusMidday, blendMidday
	default:
		bonus, blend = bonusNight, blendNight
	}

	factor := timeFactorBase + bonus
	if hasCounter {
		factor += counterCong * blend
	}
	return utils.Clamp(factor, timeFactorMin, timeFactorMax)
}

// SimulateVolume computes the simulated hourly volume for one segment.
// extraVolume is delivery-induced demand already resolved for this segment
// and hour (zero for segments off the access routes); it is added before the
// hard cap so 1.5x capacity holds unconditionally. Zero-capacity segments
// always yield zero volume.
func (s Simulator) SimulateVolume(seg domain.RoadSegment, hour int, counterCong float64, hasCounter bool, extraVolume float64) float64 {
	if seg.Capacity <= 0 {
		return 0
	}

	timeFactor := s.TimeFactor(hour, counterCong, hasCounter)
	variability := VariabilityFactor(seg.ID)

	band := domain.BandFor(seg.HighwayType)
	drivenUtil := utils.Lerp(band.Min, band.Max, timeFactor)
	scaledUtil := utils.Clamp(drivenUtil*variability, utilizationFloor, 1.0)
	volume := seg.Capacity * scaledUtil

	if ceiling, ok := domain.AbsoluteFlowCeiling(seg.HighwayType); ok {
		absVolume := ceiling * variability * timeFactor
		if absVolume < volume {
			volume = absVolume
		}
	}

	volume += extraVolume
	return utils.Clamp(volume, 0, seg.Capacity*volumeCapFactor)
}

// Congestion is volume over capacity clamped to [0,1]. ok is false when
// capacity is not positive: congestion is undefined there, not zero.
func (Simulator) Congestion(volume, capacity float64) (float64, bool) {
	if capacity <= 0 {
		return 0, false
	}
	level := volume / capacity
	if level > 1 {
		level = 1
	}
	return level, true
}
