package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// SeedTypesClient implements agro.SeedTypesClient.
type SeedTypesClient struct {
	httpClient *http.Client
}

// NewSeedTypesClient creates a new seed types client.
func NewSeedTypesClient(httpClient *http.Client) *SeedTypesClient {
	return &SeedTypesClient{httpClient: httpClient}
}

// List implements agro.SeedTypesClient.List.
func (c *SeedTypesClient) List(ctx context.Context) ([]agro.SeedType, error) {
	resp, err := c.httpClient.Get(ctx, "/seed-types/", nil)
	if err != nil {
		return nil, fmt.Errorf("listing seed types: %w", err)
	}

	var types []agro.SeedType
	if err := json.Unmarshal(resp.Body, &types); err != nil {
		return nil, fmt.Errorf("parsing seed types response: %w", err)
	}

	return types, nil
}

// Get implements agro.SeedTypesClient.Get.
func (c *SeedTypesClient) Get(ctx context.Context, id int) (*agro.SeedType, error) {
	path := fmt.Sprintf("/seed-types/%d/", id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting seed type: %w", err)
	}

	var seedType agro.SeedType
	if err := json.Unmarshal(resp.Body, &seedType); err != nil {
		return nil, fmt.Errorf("parsing seed type response: %w", err)
	}

	return &seedType, nil
}
