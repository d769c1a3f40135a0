package domain

import "time"

// SegmentResult is the engine's output for one (segment, hour): a simulated
// volume and, where capacity allows, a congestion level in [0,1].
type SegmentResult struct {
	SegmentID           string      `json:"segment_id"`
	Name                string      `json:"name,omitempty"`
	HighwayType         string      `json:"highway_type"`
	Capacity            float64     `json:"capacity"`
	Volume              float64     `json:"traffic_volume"`
	Congestion          float64     `json:"congestion_level"`
	CongestionDefined   bool        `json:"congestion_defined"`
	ConstructionTraffic float64     `json:"construction_traffic,omitempty"`
	Coordinates         [][]float64 `json:"coordinates,omitempty"`
}

// HourStats summarizes one simulated hour across all segments.
type HourStats struct {
	TotalTraffic         float64 `json:"total_traffic"`
	AverageCongestion    float64 `json:"average_congestion"`
	Deliveries           float64 `json:"deliveries_count"`
	AccessTraffic        float64 `json:"access_traffic"`
	ConstructionTraffic  float64 `json:"construction_traffic"`
	ConstructionSharePct float64 `json:"construction_share_pct"`
}

// HourResult is the full segment table plus stats for one hour of one day.
type HourResult struct {
	Date     time.Time       `json:"date"`
	Hour     int             `json:"hour"`
	Segments []SegmentResult `json:"traffic_segments"`
	Stats    HourStats       `json:"stats"`
}

// SegmentFailure reports a segment rejected by boundary validation. Batch
// computation partially succeeds; failures ride along on the table.
type SegmentFailure struct {
	SegmentID string `json:"segment_id"`
	Reason    string `json:"reason"`
}

// WeekTable holds every (segment, weekday, hour) result for one project-week.
// Tables are immutable once published; a parameter change produces a fresh
// table under a fresh key instead of mutating this one.
type WeekTable struct {
	ProjectID string            `json:"project_id"`
	Year      int               `json:"year"`
	Week      int               `json:"week"`
	Days      [7][24]HourResult `json:"days"` // index 0 = Monday (ISO)
	Failures  []SegmentFailure  `json:"failures,omitempty"`
}

// HourAt returns the result for an ISO day index (0 = Monday) and hour.
func (t *WeekTable) HourAt(day, hour int) (HourResult, bool) {
	if t == nil || day < 0 || day > 6 || hour < 0 || hour > 23 {
		return HourResult{}, false
	}
	return t.Days[day][hour], true
}
