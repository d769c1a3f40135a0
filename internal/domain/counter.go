package domain

import "time"

// CounterRole distinguishes how heavily a station weighs in the aggregate.
type CounterRole string

const (
	RolePrimary   CounterRole = "primary"
	RoleSecondary CounterRole = "secondary"
)

// SlotKey addresses one observed hour of a counter profile.
type SlotKey struct {
	Weekday time.Weekday
	Hour    int
}

// CounterProfile is the hourly observation profile of one real-world counting
// station. Profiles are loaded once per project and read-only afterwards.
type CounterProfile struct {
	StationID string              `json:"station_id"`
	Role      CounterRole         `json:"role"`
	Counts    map[SlotKey]float64 `json:"-"`
}

// NewCounterProfile creates an empty profile for a station.
func NewCounterProfile(stationID string, role CounterRole) CounterProfile {
	return CounterProfile{
		StationID: stationID,
		Role:      role,
		Counts:    make(map[SlotKey]float64),
	}
}

// Add records an observed vehicle count for a (weekday, hour) slot.
func (p CounterProfile) Add(weekday time.Weekday, hour int, count float64) {
	p.Counts[SlotKey{Weekday: weekday, Hour: hour}] = count
}

// CountAt returns the observed count for a slot, if the station has one.
func (p CounterProfile) CountAt(weekday time.Weekday, hour int) (float64, bool) {
	c, ok := p.Counts[SlotKey{Weekday: weekday, Hour: hour}]
	return c, ok
}

// MaxCount is the station's historical maximum across its whole profile,
// used to normalize observations into a [0,1] congestion ratio.
func (p CounterProfile) MaxCount() float64 {
	var max float64
	for _, c := range p.Counts {
		if c > max {
			max = c
		}
	}
	return max
}
