package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// DeliveryRoutesClient implements agro.DeliveryRoutesClient.
type DeliveryRoutesClient struct {
	httpClient *http.Client
}

// NewDeliveryRoutesClient creates a new delivery routes client.
func NewDeliveryRoutesClient(httpClient *http.Client) *DeliveryRoutesClient {
	return &DeliveryRoutesClient{httpClient: httpClient}
}

// List implements agro.DeliveryRoutesClient.List.
func (c *DeliveryRoutesClient) List(ctx context.Context, filter *agro.RouteFilter) ([]agro.DeliveryRoute, error) {
	resp, err := c.httpClient.Get(ctx, "/delivery-routes/", filter.Values())
	if err != nil {
		return nil, fmt.Errorf("listing delivery routes: %w", err)
	}

	var routes []agro.DeliveryRoute
	if err := json.Unmarshal(resp.Body, &routes); err != nil {
		return nil, fmt.Errorf("parsing delivery routes response: %w", err)
	}

	return routes, nil
}

// Get implements agro.DeliveryRoutesClient.Get.
func (c *DeliveryRoutesClient) Get(ctx context.Context, id int) (*agro.DeliveryRoute, error) {
	path := fmt.Sprintf("/delivery-routes/%d/", id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting delivery route: %w", err)
	}

	var route agro.DeliveryRoute
	if err := json.Unmarshal(resp.Body, &route); err != nil {
		return nil, fmt.Errorf("parsing delivery route response: %w", err)
	}

	return &route, nil
}

// Start implements agro.DeliveryRoutesClient.Start.
func (c *DeliveryRoutesClient) Start(ctx context.Context, id int) (*agro.DeliveryRoute, error) {
	path := fmt.Sprintf("/delivery-routes/%d/start/", id)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("starting delivery route: %w", err)
	}

	var route agro.DeliveryRoute
	if err := json.Unmarshal(resp.Body, &route); err != nil {
		return nil, fmt.Errorf("parsing delivery route response: %w", err)
	}

	return &route, nil
}

// Complete implements agro.DeliveryRoutesClient.Complete.
func (c *DeliveryRoutesClient) Complete(ctx context.Context, id int) (*agro.DeliveryRoute, error) {
	path := fmt.Sprintf("/delivery-routes/%d/complete/", id)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("completing delivery route: %w", err)
	}

	var route agro.DeliveryRoute
	if err := json.Unmarshal(resp.Body, &route); err != nil {
		return nil, fmt.Errorf("parsing delivery route response: %w", err)
	}

	return &route, nil
}
