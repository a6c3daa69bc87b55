package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// DeliveryPointsClient implements agro.DeliveryPointsClient.
type DeliveryPointsClient struct {
	httpClient *http.Client
}

// NewDeliveryPointsClient creates a new delivery points client.
func NewDeliveryPointsClient(httpClient *http.Client) *DeliveryPointsClient {
	return &DeliveryPointsClient{httpClient: httpClient}
}

// List implements agro.DeliveryPointsClient.List.
func (c *DeliveryPointsClient) List(ctx context.Context, filter *agro.PointFilter) ([]agro.DeliveryPoint, error) {
	resp, err := c.httpClient.Get(ctx, "/delivery-points/", filter.Values())
	if err != nil {
		return nil, fmt.Errorf("listing delivery points: %w", err)
	}

	var points []agro.DeliveryPoint
	if err := json.Unmarshal(resp.Body, &points); err != nil {
		return nil, fmt.Errorf("parsing delivery points response: %w", err)
	}

	return points, nil
}

// Get implements agro.DeliveryPointsClient.Get.
func (c *DeliveryPointsClient) Get(ctx context.Context, id int) (*agro.DeliveryPoint, error) {
	path := fmt.Sprintf("/delivery-points/%d/", id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting delivery point: %w", err)
	}

	var point agro.DeliveryPoint
	if err := json.Unmarshal(resp.Body, &point); err != nil {
		return nil, fmt.Errorf("parsing delivery point response: %w", err)
	}

	return &point, nil
}
