package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// SeedRequestsClient implements agro.SeedRequestsClient.
type SeedRequestsClient struct {
	httpClient *http.Client
}

// NewSeedRequestsClient creates a new seed requests client.
func NewSeedRequestsClient(httpClient *http.Client) *SeedRequestsClient {
	return &SeedRequestsClient{httpClient: httpClient}
}

// List implements agro.SeedRequestsClient.List.
func (c *SeedRequestsClient) List(ctx context.Context, filter *agro.RequestFilter) ([]agro.SeedRequest, error) {
	resp, err := c.httpClient.Get(ctx, "/seed-requests/", filter.Values())
	if err != nil {
		return nil, fmt.Errorf("listing seed requests: %w", err)
	}

	var requests []agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &requests); err != nil {
		return nil, fmt.Errorf("parsing seed requests response: %w", err)
	}

	return requests, nil
}

// Get implements agro.SeedRequestsClient.Get.
func (c *SeedRequestsClient) Get(ctx context.Context, id int) (*agro.SeedRequest, error) {
	path := fmt.Sprintf("/seed-requests/%d/", id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting seed request: %w", err)
	}

	var request agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &request); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &request, nil
}

// Create implements agro.SeedRequestsClient.Create.
func (c *SeedRequestsClient) Create(ctx context.Context, request *agro.SeedRequestCreate) (*agro.SeedRequest, error) {
	resp, err := c.httpClient.Post(ctx, "/seed-requests/", request)
	if err != nil {
		return nil, fmt.Errorf("creating seed request: %w", err)
	}

	var created agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &created, nil
}

// Update implements agro.SeedRequestsClient.Update.
func (c *SeedRequestsClient) Update(ctx context.Context, id int, request *agro.SeedRequestUpdate) (*agro.SeedRequest, error) {
	path := fmt.Sprintf("/seed-requests/%d/", id)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating seed request: %w", err)
	}

	var updated agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &updated); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &updated, nil
}

// Delete implements agro.SeedRequestsClient.Delete.
func (c *SeedRequestsClient) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("/seed-requests/%d/", id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting seed request: %w", err)
	}

	return nil
}

// Approve implements agro.SeedRequestsClient.Approve.
func (c *SeedRequestsClient) Approve(ctx context.Context, id int) (*agro.SeedRequest, error) {
	path := fmt.Sprintf("/seed-requests/%d/approve/", id)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("approving seed request: %w", err)
	}

	var approved agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &approved); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &approved, nil
}

// Reject implements agro.SeedRequestsClient.Reject.
func (c *SeedRequestsClient) Reject(ctx context.Context, id int, reason string) (*agro.SeedRequest, error) {
	path := fmt.Sprintf("/seed-requests/%d/reject/", id)

	body := map[string]string{"reason": reason}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("rejecting seed request: %w", err)
	}

	var rejected agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &rejected); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &rejected, nil
}

// MarkDelivered implements agro.SeedRequestsClient.MarkDelivered.
func (c *SeedRequestsClient) MarkDelivered(ctx context.Context, id int) (*agro.SeedRequest, error) {
	path := fmt.Sprintf("/seed-requests/%d/mark_delivered/", id)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("marking seed request delivered: %w", err)
	}

	var delivered agro.SeedRequest
	if err := json.Unmarshal(resp.Body, &delivered); err != nil {
		return nil, fmt.Errorf("parsing seed request response: %w", err)
	}

	return &delivered, nil
}
