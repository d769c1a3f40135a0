package service

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
)

// Station weights for the aggregate: primary counters count double.
const (
	weightPrimary   = 2.0
	weightSecondary = 1.0
)

// CounterSet reduces the profiles of a project's selected counting stations
// into one hourly congestion-ratio curve. Read-only after construction.
type CounterSet struct {
	profiles []domain.CounterProfile
	maxima   []float64
}

// NewCounterSet precomputes each station's historical maximum so per-hour
// lookups stay cheap during the week build.
func NewCounterSet(profiles []domain.CounterProfile) *CounterSet {
	s := &CounterSet{
		profiles: profiles,
		maxima:   make([]float64, len(profiles)),
	}
	for i, p := range profiles {
		s.maxima[i] = p.MaxCount()
	}
	return s
}

// AverageCongestion computes the weighted average congestion ratio observed
// across the stations for a (weekday, hour). Each station's count is
// normalized against its own historical maximum; stations without a matching
// observation are skipped. ok is false when no station contributes, in which
// case the caller falls back to the diurnal base curve alone.
func (s *CounterSet) AverageCongestion(weekday time.Weekday, hour int) (float64, bool) {
	if s == nil || len(s.profiles) == 0 {
		return 0, false
	}

	var weightedSum, weightSum float64
	for i, p := range s.profiles {
		count, ok := p.CountAt(weekday, hour)
		if !ok || s.maxima[i] <= 0 {
			continue
		}
		ratio := count / s.maxima[i]
		if ratio > 1 {
			ratio = 1
		}
		w := weightSecondary
		if p.Role == domain.RolePrimary {
			w = weightPrimary
		}
		weightedSum += ratio * w
		weightSum += w
	}

	if weightSum == 0 {
		return 0, false
	}
	return weightedSum / weightSum, true
}

// Fingerprint identifies the counter selection for cache keying: MD5 over
// the sorted station ids and roles. Changing the selection changes the key.
func (s *CounterSet) Fingerprint() string {
	if s == nil || len(s.profiles) == 0 {
		return "none"
	}
	parts := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		parts[i] = p.StationID + ":" + string(p.Role)
	}
	sort.Strings(parts)
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
