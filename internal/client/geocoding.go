package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// GeocodingClient implements agro.GeocodingClient.
type GeocodingClient struct {
	httpClient *http.Client
}

// NewGeocodingClient creates a new geocoding client.
func NewGeocodingClient(httpClient *http.Client) *GeocodingClient {
	return &GeocodingClient{httpClient: httpClient}
}

// Geocode implements agro.GeocodingClient.Geocode.
func (c *GeocodingClient) Geocode(ctx context.Context, address string) (*agro.Coordinates, error) {
	body := map[string]string{"address": address}

	resp, err := c.httpClient.Post(ctx, "/geocode/", body)
	if err != nil {
		return nil, fmt.Errorf("geocoding address: %w", err)
	}

	var coords agro.Coordinates
	if err := json.Unmarshal(resp.Body, &coords); err != nil {
		return nil, fmt.Errorf("parsing geocode response: %w", err)
	}

	return &coords, nil
}

// ReverseGeocode implements agro.GeocodingClient.ReverseGeocode.
func (c *GeocodingClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	body := map[string]float64{
		"latitude":  lat,
		"longitude": lng,
	}

	resp, err := c.httpClient.Post(ctx, "/reverse-geocode/", body)
	if err != nil {
		return "", fmt.Errorf("reverse geocoding: %w", err)
	}

	var result struct {
		Address string `json:"address"`
	}

	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return "", fmt.Errorf("parsing reverse geocode response: %w", err)
	}

	return result.Address, nil
}

// CalculateRoute implements agro.GeocodingClient.CalculateRoute.
func (c *GeocodingClient) CalculateRoute(ctx context.Context, origin, destination agro.Coordinates, waypoints []agro.Coordinates) (*agro.RoutePlan, error) {
	body := map[string]interface{}{
		"origin":      origin,
		"destination": destination,
		"waypoints":   waypoints,
	}

	resp, err := c.httpClient.Post(ctx, "/route/", body)
	if err != nil {
		return nil, fmt.Errorf("calculating route: %w", err)
	}

	var plan agro.RoutePlan
	if err := json.Unmarshal(resp.Body, &plan); err != nil {
		return nil, fmt.Errorf("parsing route response: %w", err)
	}

	return &plan, nil
}
