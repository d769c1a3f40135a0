package domain

import "fmt"

// RoadSegment is an atomic stretch of road with a fixed type and capacity.
// Segments are prepared once per project (network preparation happens in the
// geodata layer) and are read-only inputs for the simulation engine.
type RoadSegment struct {
	ID          string      `json:"segment_id"`
	Name        string      `json:"name,omitempty"`
	HighwayType string      `json:"highway_type"`
	Capacity    float64     `json:"capacity"`
	Coordinates [][]float64 `json:"coordinates,omitempty"` // [[lon, lat], ...]
}

// Base hourly capacity (vehicles/hour) per OSM highway type.
var capacityTable = map[string]float64{
	"motorway": 2000, "trunk": 1800, "primary": 1500,
	"secondary": 1000, "tertiary": 700,
	"motorway_link": 1000, "trunk_link": 900, "primary_link": 750,
	"secondary_link": 500, "tertiary_link": 350,
	"residential": 400, "unclassified": 300, "road": 300,
	"living_street": 100, "service": 150, "track": 50, "path": 30,
	"cycleway": 50, "footway": 20, "pedestrian": 20, "steps": 10,
}

// DefaultCapacity is the conservative fallback for unrecognized highway types.
const DefaultCapacity = 200

// CapacityFor maps a highway type to its base hourly capacity. Unknown types
// degrade to DefaultCapacity instead of failing the pipeline.
func CapacityFor(highwayType string) float64 {
	if c, ok := capacityTable[highwayType]; ok {
		return c
	}
	return DefaultCapacity
}

// UtilizationBand is the [Min, Max] fraction of capacity a road type
// typically carries over a day.
type UtilizationBand struct {
	Min float64
	Max float64
}

var utilizationBands = map[string]UtilizationBand{
	"motorway":      {0.30, 0.85},
	"trunk":         {0.30, 0.85},
	"primary":       {0.30, 0.85},
	"secondary":     {0.20, 0.70},
	"tertiary":      {0.20, 0.70},
	"residential":   {0.03, 0.25},
	"living_street": {0.01, 0.15},
	"service":       {0.02, 0.20},
	"unclassified":  {0.10, 0.40},
	"road":          {0.10, 0.40},
}

// residentialBand doubles as the fallback for unknown highway types.
var residentialBand = UtilizationBand{0.03, 0.25}

// BandFor returns the utilization band for a highway type. Unknown types fall
// back to the residential band.
func BandFor(highwayType string) UtilizationBand {
	if b, ok := utilizationBands[highwayType]; ok {
		return b
	}
	return residentialBand
}

// Absolute hourly flow ceilings for low-capacity road types. These keep small
// streets from being driven unrealistically high by the capacity-percentage
// formula alone.
const (
	MaxFlowResidential = 30
	MaxFlowNarrow      = 15
)

// AbsoluteFlowCeiling returns the per-type absolute flow ceiling and whether
// the type is subject to the override. Unknown types are treated like
// residential streets.
func AbsoluteFlowCeiling(highwayType string) (float64, bool) {
	switch highwayType {
	case "residential":
		return MaxFlowResidential, true
	case "service", "living_street", "track", "path":
		return MaxFlowNarrow, true
	}
	if _, known := capacityTable[highwayType]; !known {
		return MaxFlowResidential, true
	}
	return 0, false
}

// ValidateSegment rejects segments the engine must never compute with.
// Missing-data conditions (zero capacity, unknown type) are not errors; they
// have deterministic fallbacks downstream.
func ValidateSegment(seg RoadSegment) error {
	if seg.ID == "" {
		return fmt.Errorf("segment: missing id (highway_type=%q)", seg.HighwayType)
	}
	if seg.Capacity < 0 {
		return fmt.Errorf("segment %s: negative capacity %.1f", seg.ID, seg.Capacity)
	}
	return nil
}
