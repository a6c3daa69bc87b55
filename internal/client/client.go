// Package client implements the agro.Client interface over the HTTP adapter.
package client

import (
	"github.com/ppmalta/AgroIPA/internal/auth"
	"github.com/ppmalta/AgroIPA/internal/constants"
	"github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// Client implements the agro.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       agro.Logger

	deliveryPoints agro.DeliveryPointsClient
	deliveryRoutes agro.DeliveryRoutesClient
	agents         agro.AgentsClient
	seedRequests   agro.SeedRequestsClient
	seedTypes      agro.SeedTypesClient
	geocoding      agro.GeocodingClient
}

// httpClientOptions builds HTTP adapter options from config.
func httpClientOptions(config *agro.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client for the given base URL and token manager.
func New(baseURL string, tokenManager auth.TokenManager, config *agro.Config) *Client {
	httpClient := http.NewClient(baseURL, tokenManager, httpClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      baseURL,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// DeliveryPoints implements agro.Client.DeliveryPoints.
func (c *Client) DeliveryPoints() agro.DeliveryPointsClient {
	return c.deliveryPoints
}

// DeliveryRoutes implements agro.Client.DeliveryRoutes.
func (c *Client) DeliveryRoutes() agro.DeliveryRoutesClient {
	return c.deliveryRoutes
}

// Agents implements agro.Client.Agents.
func (c *Client) Agents() agro.AgentsClient {
	return c.agents
}

// SeedRequests implements agro.Client.SeedRequests.
func (c *Client) SeedRequests() agro.SeedRequestsClient {
	return c.seedRequests
}

// SeedTypes implements agro.Client.SeedTypes.
func (c *Client) SeedTypes() agro.SeedTypesClient {
	return c.seedTypes
}

// Geocoding implements agro.Client.Geocoding.
func (c *Client) Geocoding() agro.GeocodingClient {
	return c.geocoding
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.deliveryPoints = NewDeliveryPointsClient(c.httpClient)
	c.deliveryRoutes = NewDeliveryRoutesClient(c.httpClient)
	c.agents = NewAgentsClient(c.httpClient)
	c.seedRequests = NewSeedRequestsClient(c.httpClient)
	c.seedTypes = NewSeedTypesClient(c.httpClient)
	c.geocoding = NewGeocodingClient(c.httpClient)
}

// loggerAdapter adapts agro.Logger to http.Logger.
type loggerAdapter struct {
	logger agro.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
