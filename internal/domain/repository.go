package domain

import "context"

// DataRepository defines the interface for project input persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type DataRepository interface {
	// CreateProject persists a new project record
	CreateProject(ctx context.Context, project Project) error

	// GetProject retrieves a project by id
	GetProject(ctx context.Context, id string) (Project, error)

	// ListProjects retrieves all project records
	ListProjects(ctx context.Context) ([]Project, error)

	// GetSegments retrieves the prepared road network for a project
	GetSegments(ctx context.Context, projectID string) ([]RoadSegment, error)

	// GetCounterProfiles retrieves the profiles of the project's selected stations
	GetCounterProfiles(ctx context.Context, projectID string) ([]CounterProfile, error)

	// GetSchedule retrieves the project's construction schedule
	GetSchedule(ctx context.Context, projectID string) ([]ScheduleEntry, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
