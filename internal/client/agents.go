package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// AgentsClient implements agro.AgentsClient.
type AgentsClient struct {
	httpClient *http.Client
}

// NewAgentsClient creates a new agents client.
func NewAgentsClient(httpClient *http.Client) *AgentsClient {
	return &AgentsClient{httpClient: httpClient}
}

// List implements agro.AgentsClient.List.
func (c *AgentsClient) List(ctx context.Context, filter *agro.AgentFilter) ([]agro.Agent, error) {
	resp, err := c.httpClient.Get(ctx, "/agents/", filter.Values())
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	var agents []agro.Agent
	if err := json.Unmarshal(resp.Body, &agents); err != nil {
		return nil, fmt.Errorf("parsing agents response: %w", err)
	}

	return agents, nil
}

// Get implements agro.AgentsClient.Get.
func (c *AgentsClient) Get(ctx context.Context, id int) (*agro.Agent, error) {
	path := fmt.Sprintf("/agents/%d/", id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting agent: %w", err)
	}

	var agent agro.Agent
	if err := json.Unmarshal(resp.Body, &agent); err != nil {
		return nil, fmt.Errorf("parsing agent response: %w", err)
	}

	return &agent, nil
}

// UpdateLocation implements agro.AgentsClient.UpdateLocation.
func (c *AgentsClient) UpdateLocation(ctx context.Context, id int, lat, lng float64) (*agro.Agent, error) {
	path := fmt.Sprintf("/agents/%d/", id)

	body := map[string]float64{
		"current_latitude":  lat,
		"current_longitude": lng,
	}

	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating agent location: %w", err)
	}

	var agent agro.Agent
	if err := json.Unmarshal(resp.Body, &agent); err != nil {
		return nil, fmt.Errorf("parsing agent response: %w", err)
	}

	return &agent, nil
}
