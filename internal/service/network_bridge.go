package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sitetraffic/backend/internal/domain"
)

// NetworkBridge talks to the external geodata service that prepares road
// networks for a bounding box. The fetch itself is not part of the engine;
// this is only the boundary adapter, and callers fall back to the stored
// network when the service is unreachable.
type NetworkBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewNetworkBridge creates a new geodata bridge
func NewNetworkBridge(serviceURL string) *NetworkBridge {
	return &NetworkBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchSegments retrieves the prepared road segments for a bounding box.
func (b *NetworkBridge) FetchSegments(ctx context.Context, bounds domain.Bounds) ([]domain.RoadSegment, error) {
	url := fmt.Sprintf(
		"%s/segments?north=%f&south=%f&east=%f&west=%f",
		b.serviceURL, bounds.North, bounds.South, bounds.East, bounds.West,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("network_bridge: failed to create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network_bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("network_bridge: geodata service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Segments []domain.RoadSegment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("network_bridge: failed to decode response: %w", err)
	}

	// The engine only trusts capacities it assigned itself.
	for i := range payload.Segments {
		if payload.Segments[i].Capacity == 0 {
			payload.Segments[i].Capacity = domain.CapacityFor(payload.Segments[i].HighwayType)
		}
	}
	return payload.Segments, nil
}

// Health checks geodata service connectivity
func (b *NetworkBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("network_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("network_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}
