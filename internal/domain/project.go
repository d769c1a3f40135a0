package domain

import "time"

// Bounds is the geographic bounding box a project's road network was
// prepared for.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// ScheduleEntry is one row of the construction schedule. MaterialKG drives
// the delivery demand via the 1 + ceil(kg/10) rule.
type ScheduleEntry struct {
	Date       time.Time `json:"date"`
	Phase      string    `json:"phase"`
	MaterialKG float64   `json:"material_kg"`
	Persons    float64   `json:"persons,omitempty"`
}

// Project describes one construction site: its bounds, the counting stations
// selected as ground truth, and the access routes delivery traffic funnels
// through.
type Project struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Bounds           Bounds        `json:"bounds"`
	SelectedStations []string      `json:"selected_stations"`
	AccessRoutes     [][][]float64 `json:"access_routes,omitempty"` // polylines of [lon, lat]
	CreatedAt        time.Time     `json:"created_at"`
}
