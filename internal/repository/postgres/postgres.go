package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitetraffic/backend/internal/domain"
)

// PostgresRepository implements domain.DataRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateProject persists a new project record
func (r *PostgresRepository) CreateProject(ctx context.Context, project domain.Project) error {
	routes, err := json.Marshal(project.AccessRoutes)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode access routes: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, name, north, south, east, west, selected_stations, access_routes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		project.ID, project.Name,
		project.Bounds.North, project.Bounds.South, project.Bounds.East, project.Bounds.West,
		project.SelectedStations, routes, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by id
func (r *PostgresRepository) GetProject(ctx context.Context, id string) (domain.Project, error) {
	query := `
		SELECT id, name, north, south, east, west, selected_stations, access_routes, created_at
		FROM projects
		WHERE id = $1
	`
	var p domain.Project
	var routes []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name,
		&p.Bounds.North, &p.Bounds.South, &p.Bounds.East, &p.Bounds.West,
		&p.SelectedStations, &routes, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Project{}, fmt.Errorf("postgres: project %s not found", id)
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("postgres: failed to load project: %w", err)
	}
	if len(routes) > 0 {
		if err := json.Unmarshal(routes, &p.AccessRoutes); err != nil {
			return domain.Project{}, fmt.Errorf("postgres: failed to decode access routes: %w", err)
		}
	}
	return p, nil
}

// ListProjects retrieves all project records
func (r *PostgresRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	query := `
		SELECT id, name, north, south, east, west, selected_stations, access_routes, created_at
		FROM projects
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query projects: %w", err)
	}
	defer rows.Close()

	var results []domain.Project
	for rows.Next() {
		var p domain.Project
		var routes []byte
		err := rows.Scan(
			&p.ID, &p.Name,
			&p.Bounds.North, &p.Bounds.South, &p.Bounds.East, &p.Bounds.West,
			&p.SelectedStations, &routes, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan project row: %w", err)
		}
		if len(routes) > 0 {
			if err := json.Unmarshal(routes, &p.AccessRoutes); err != nil {
				return nil, fmt.Errorf("postgres: failed to decode access routes: %w", err)
			}
		}
		results = append(results, p)
	}
	return results, nil
}

// GetSegments retrieves the prepared road network for a project
func (r *PostgresRepository) GetSegments(ctx context.Context, projectID string) ([]domain.RoadSegment, error) {
	query := `
		SELECT segment_id, name, highway_type, capacity, coordinates
		FROM road_segments
		WHERE project_id = $1
		ORDER BY segment_id
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query segments: %w", err)
	}
	defer rows.Close()

	var results []domain.RoadSegment
	for rows.Next() {
		var s domain.RoadSegment
		var coords []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.HighwayType, &s.Capacity, &coords); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan segment row: %w", err)
		}
		if len(coords) > 0 {
			if err := json.Unmarshal(coords, &s.Coordinates); err != nil {
				return nil, fmt.Errorf("postgres: failed to decode segment geometry: %w", err)
			}
		}
		results = append(results, s)
	}
	return results, nil
}

// GetCounterProfiles retrieves the profiles of the project's selected stations
func (r *PostgresRepository) GetCounterProfiles(ctx context.Context, projectID string) ([]domain.CounterProfile, error) {
	query := `
		SELECT station_id, role, weekday, hour, vehicle_count
		FROM counter_profiles
		WHERE project_id = $1
		ORDER BY station_id, weekday, hour
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query counter profiles: %w", err)
	}
	defer rows.Close()

	byStation := make(map[string]domain.CounterProfile)
	var order []string
	for rows.Next() {
		var stationID, role string
		var weekday, hour int
		var count float64
		if err := rows.Scan(&stationID, &role, &weekday, &hour, &count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan counter row: %w", err)
		}
		profile, ok := byStation[stationID]
		if !ok {
			profile = domain.NewCounterProfile(stationID, domain.CounterRole(role))
			byStation[stationID] = profile
			order = append(order, stationID)
		}
		profile.Add(time.Weekday(weekday), hour, count)
	}

	results := make([]domain.CounterProfile, 0, len(order))
	for _, id := range order {
		results = append(results, byStation[id])
	}
	return results, nil
}

// GetSchedule retrieves the project's construction schedule
func (r *PostgresRepository) GetSchedule(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	query := `
		SELECT date, phase, material_kg, persons
		FROM delivery_schedule
		WHERE project_id = $1
		ORDER BY date
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query schedule: %w", err)
	}
	defer rows.Close()

	var results []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.Date, &e.Phase, &e.MaterialKG, &e.Persons); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan schedule row: %w", err)
		}
		results = append(results, e)
	}
	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
