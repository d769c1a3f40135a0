package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
)

// MockRepository implements domain.DataRepository for testing/demo mode.
// All data is generated deterministically so simulation output stays
// reproducible across runs.
type MockRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

// DemoProjectID is the project the mock repository seeds on startup.
const DemoProjectID = "demo-project"

// NewMockRepository creates a new mock repository seeded with a demo project
func NewMockRepository() *MockRepository {
	r := &MockRepository{projects: make(map[string]domain.Project)}
	r.projects[DemoProjectID] = domain.Project{
		ID:   DemoProjectID,
		Name: "Demo construction site",
		Bounds: domain.Bounds{
			North: 47.570, South: 47.550, East: 7.610, West: 7.580,
		},
		SelectedStations: []string{"Z401", "Z417"},
		AccessRoutes: [][][]float64{
			{{7.5900, 47.5600}, {7.5910, 47.5610}, {7.5920, 47.5620}},
		},
		CreatedAt: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
	return r
}

// CreateProject stores a project in memory
func (r *MockRepository) CreateProject(ctx context.Context, project domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return nil
}

// GetProject retrieves a stored project
func (r *MockRepository) GetProject(ctx context.Context, id string) (domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return domain.Project{}, fmt.Errorf("mock: project %s not found", id)
	}
	return p, nil
}

// ListProjects retrieves all stored projects
func (r *MockRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		results = append(results, p)
	}
	return results, nil
}

// GetSegments returns a small deterministic sample network covering every
// capacity class the simulator distinguishes.
func (r *MockRepository) GetSegments(ctx context.Context, projectID string) ([]domain.RoadSegment, error) {
	types := []string{
		"primary", "primary", "secondary", "tertiary",
		"residential", "residential", "residential",
		"service", "living_street", "unclassified",
	}
	segments := make([]domain.RoadSegment, 0, len(types))
	for i, ht := range types {
		lon := 7.5880 + float64(i)*0.0010
		segments = append(segments, domain.RoadSegment{
			ID:          fmt.Sprintf("mock-seg-%d", i),
			Name:        fmt.Sprintf("Mockstrasse %d", i),
			HighwayType: ht,
			Capacity:    domain.CapacityFor(ht),
			Coordinates: [][]float64{{lon, 47.5600}, {lon + 0.0008, 47.5608}},
		})
	}
	return segments, nil
}

// Hourly shape of the mock counter curve, vehicles at a mid-size station.
var mockCounterShape = [24]float64{
	12, 8, 5, 4, 6, 20, 80, 210, 260, 180,
	140, 150, 160, 150, 155, 190, 240, 280, 220, 140,
	90, 60, 40, 20,
}

// GetCounterProfiles returns two deterministic station profiles, one primary
// and one secondary, with reduced weekend traffic.
func (r *MockRepository) GetCounterProfiles(ctx context.Context, projectID string) ([]domain.CounterProfile, error) {
	primary := domain.NewCounterProfile("Z401", domain.RolePrimary)
	secondary := domain.NewCounterProfile("Z417", domain.RoleSecondary)

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		dayScale := 1.0
		if wd == time.Saturday || wd == time.Sunday {
			dayScale = 0.55
		}
		for hour := 0; hour < 24; hour++ {
			primary.Add(wd, hour, mockCounterShape[hour]*dayScale)
			secondary.Add(wd, hour, mockCounterShape[hour]*dayScale*0.7)
		}
	}
	return []domain.CounterProfile{primary, secondary}, nil
}

// GetSchedule returns a fixed two-week construction schedule.
func (r *MockRepository) GetSchedule(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC) // a Monday
	for day := 0; day < 14; day++ {
		date := start.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		entries = append(entries, domain.ScheduleEntry{
			Date:       date,
			Phase:      "Rohbau",
			MaterialKG: 40 + float64(day%5)*15,
			Persons:    8,
		})
	}
	return entries, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
