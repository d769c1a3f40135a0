package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitetraffic/backend/internal/domain"
	"github.com/sitetraffic/backend/pkg/utils"
)

// SimulationService orchestrates the engine: it loads the read-only inputs,
// builds full project-week tables and serves single hours out of the cache.
type SimulationService struct {
	repo         DataRepository
	bridge       *NetworkBridge
	cache        *WeekCache
	sim          Simulator
	counterBlend bool
}

// NewSimulationService creates a new simulation service. bridge may be nil;
// the stored network is used then. counterBlend disabled runs every project
// on the diurnal base curve alone.
func NewSimulationService(repo DataRepository, bridge *NetworkBridge, cache *WeekCache, counterBlend bool) *SimulationService {
	return &SimulationService{
		repo:         repo,
		bridge:       bridge,
		cache:        cache,
		sim:          NewSimulator(),
		counterBlend: counterBlend,
	}
}

// GetWeek returns the full result table for a project and ISO week, serving
// it from the cache when the inputs are unchanged.
func (s *SimulationService) GetWeek(ctx context.Context, projectID string, year, week int) (*domain.WeekTable, error) {
	if week < 1 || week > 53 {
		return nil, fmt.Errorf("simulation: invalid ISO week %d", week)
	}

	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to load project %s: %w", projectID, err)
	}
	var profiles []domain.CounterProfile
	if s.counterBlend {
		profiles, err = s.repo.GetCounterProfiles(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("simulation: failed to load counter profiles: %w", err)
		}
	}
	schedule, err := s.repo.GetSchedule(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to load schedule: %w", err)
	}
	segments, err := s.loadSegments(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to load road network: %w", err)
	}

	counters := NewCounterSet(profiles)
	key := WeekKey{
		ProjectID:   projectID,
		Year:        year,
		Week:        week,
		Fingerprint: counters.Fingerprint(),
	}

	return s.cache.GetOrCompute(key, func() (*domain.WeekTable, error) {
		return s.buildWeek(project, segments, counters, schedule, year, week)
	})
}

// GetHour returns one hour's segment table for a date, computing the week on
// demand. Scrubbing across hours of an already-computed week is a pure cache
// read.
func (s *SimulationService) GetHour(ctx context.Context, projectID string, date time.Time, hour int) (domain.HourResult, error) {
	if hour < 0 || hour > 23 {
		return domain.HourResult{}, fmt.Errorf("simulation: hour must be between 0 and 23, got %d", hour)
	}

	year, week := date.ISOWeek()
	table, err := s.GetWeek(ctx, projectID, year, week)
	if err != nil {
		return domain.HourResult{}, err
	}

	result, ok := table.HourAt(isoDayIndex(date), hour)
	if !ok {
		return domain.HourResult{}, fmt.Errorf("simulation: no result for %s hour %d", date.Format("2006-01-02"), hour)
	}
	return result, nil
}

// GetDaily returns the 24 hourly stat summaries for one date.
func (s *SimulationService) GetDaily(ctx context.Context, projectID string, date time.Time) ([]domain.HourStats, error) {
	year, week := date.ISOWeek()
	table, err := s.GetWeek(ctx, projectID, year, week)
	if err != nil {
		return nil, err
	}

	day := isoDayIndex(date)
	stats := make([]domain.HourStats, 24)
	for hour := 0; hour < 24; hour++ {
		result, _ := table.HourAt(day, hour)
		stats[hour] = result.Stats
	}
	return stats, nil
}

// Invalidate drops the cached tables for a project-week. Returns the number
// of dropped entries.
func (s *SimulationService) Invalidate(projectID string, year, week int) int {
	return s.cache.Invalidate(projectID, year, week)
}

func (s *SimulationService) loadSegments(ctx context.Context, project domain.Project) ([]domain.RoadSegment, error) {
	if s.bridge != nil {
		segments, err := s.bridge.FetchSegments(ctx, project.Bounds)
		if err == nil && len(segments) > 0 {
			return segments, nil
		}
		if err != nil {
			log.Printf("simulation: geodata service unavailable, using stored network: %v", err)
		}
	}
	return s.repo.GetSegments(ctx, project.ID)
}

// buildWeek computes every (segment, weekday, hour) result for the week in
// one pass. Days are independent, so the build fans out across them; each
// goroutine writes only its own day slot.
func (s *SimulationService) buildWeek(
	project domain.Project,
	segments []domain.RoadSegment,
	counters *CounterSet,
	schedule []domain.ScheduleEntry,
	year, week int,
) (*domain.WeekTable, error) {
	valid := make([]domain.RoadSegment, 0, len(segments))
	var failures []domain.SegmentFailure
	for _, seg := range segments {
		if err := domain.ValidateSegment(seg); err != nil {
			failures = append(failures, domain.SegmentFailure{SegmentID: seg.ID, Reason: err.Error()})
			continue
		}
		valid = append(valid, seg)
	}

	accessIDs := AccessSegmentIDs(project, valid)
	monday := isoWeekStart(year, week)

	table := &domain.WeekTable{
		ProjectID: project.ID,
		Year:      year,
		Week:      week,
		Failures:  failures,
	}

	var g errgroup.Group
	for day := 0; day < 7; day++ {
		day := day
		g.Go(func() error {
			date := monday.AddDate(0, 0, day)
			dailyDeliveries := DailyDeliveries(schedule, date)
			for hour := 0; hour < 24; hour++ {
				table.Days[day][hour] = s.simulateHour(valid, counters, accessIDs, date, hour, dailyDeliveries)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *SimulationService) simulateHour(
	segments []domain.RoadSegment,
	counters *CounterSet,
	accessIDs map[string]bool,
	date time.Time,
	hour int,
	dailyDeliveries int,
) domain.HourResult {
	counterCong, hasCounter := counters.AverageCongestion(date.Weekday(), hour)
	deliveries := HourlyDeliveries(dailyDeliveries, hour)

	// Each delivery is an entry plus an exit, split across the access route.
	var extraPerSegment float64
	if len(accessIDs) > 0 {
		extraPerSegment = deliveries * 2 / float64(len(accessIDs))
	}

	results := make([]domain.SegmentResult, 0, len(segments))
	var stats domain.HourStats
	var congestionSum float64
	congestionCount := 0

	for _, seg := range segments {
		var extra float64
		if accessIDs[seg.ID] {
			extra = extraPerSegment
		}

		volume := s.sim.SimulateVolume(seg, hour, counterCong, hasCounter, extra)
		congestion, defined := s.sim.Congestion(volume, seg.Capacity)

		results = append(results, domain.SegmentResult{
			SegmentID:           seg.ID,
			Name:                seg.Name,
			HighwayType:         seg.HighwayType,
			Capacity:            seg.Capacity,
			Volume:              utils.RoundTo(volume, 2),
			Congestion:          utils.RoundTo(congestion, 4),
			CongestionDefined:   defined,
			ConstructionTraffic: utils.RoundTo(extra, 2),
			Coordinates:         seg.Coordinates,
		})

		stats.TotalTraffic += volume
		if defined {
			congestionSum += congestion
			congestionCount++
		}
		if accessIDs[seg.ID] {
			stats.AccessTraffic += volume
		}
	}

	if congestionCount > 0 {
		stats.AverageCongestion = utils.RoundTo(congestionSum/float64(congestionCount), 4)
	}
	stats.TotalTraffic = utils.RoundTo(stats.TotalTraffic, 1)
	stats.AccessTraffic = utils.RoundTo(stats.AccessTraffic, 1)
	stats.Deliveries = utils.RoundTo(deliveries, 2)
	stats.ConstructionTraffic = utils.RoundTo(deliveries*2, 2)
	if stats.AccessTraffic > 0 {
		stats.ConstructionSharePct = utils.RoundTo(deliveries*2/stats.AccessTraffic*100, 1)
	}

	return domain.HourResult{
		Date:     date,
		Hour:     hour,
		Segments: results,
		Stats:    stats,
	}
}

// isoWeekStart returns the Monday of an ISO week, in UTC.
func isoWeekStart(year, week int) time.Time {
	// Jan 4 is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -isoDayIndex(jan4))
	return monday.AddDate(0, 0, (week-1)*7)
}

// isoDayIndex maps a date to 0..6 with Monday = 0.
func isoDayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
