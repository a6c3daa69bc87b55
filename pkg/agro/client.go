package agro

import (
	"context"
	"time"
)

// DeliveryPointsClient provides access to delivery point resources.
type DeliveryPointsClient interface {
	List(ctx context.Context, filter *PointFilter) ([]DeliveryPoint, error)
	Get(ctx context.Context, id int) (*DeliveryPoint, error)
}

// DeliveryRoutesClient provides access to delivery route resources.
type DeliveryRoutesClient interface {
	List(ctx context.Context, filter *RouteFilter) ([]DeliveryRoute, error)
	Get(ctx context.Context, id int) (*DeliveryRoute, error)
	Start(ctx context.Context, id int) (*DeliveryRoute, error)
	Complete(ctx context.Context, id int) (*DeliveryRoute, error)
}

// AgentsClient provides access to field agent resources.
type AgentsClient interface {
	List(ctx context.Context, filter *AgentFilter) ([]Agent, error)
	Get(ctx context.Context, id int) (*Agent, error)
	UpdateLocation(ctx context.Context, id int, lat, lng float64) (*Agent, error)
}

// SeedRequestsClient provides access to seed request resources.
type SeedRequestsClient interface {
	List(ctx context.Context, filter *RequestFilter) ([]SeedRequest, error)
	Get(ctx context.Context, id int) (*SeedRequest, error)
	Create(ctx context.Context, request *SeedRequestCreate) (*SeedRequest, error)
	Update(ctx context.Context, id int, request *SeedRequestUpdate) (*SeedRequest, error)
	Delete(ctx context.Context, id int) error
	Approve(ctx context.Context, id int) (*SeedRequest, error)
	Reject(ctx context.Context, id int, reason string) (*SeedRequest, error)
	MarkDelivered(ctx context.Context, id int) (*SeedRequest, error)
}

// SeedTypesClient provides access to seed type reference data.
type SeedTypesClient interface {
	List(ctx context.Context) ([]SeedType, error)
	Get(ctx context.Context, id int) (*SeedType, error)
}

// GeocodingClient provides address/coordinate resolution and route planning.
type GeocodingClient interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	CalculateRoute(ctx context.Context, origin, destination Coordinates, waypoints []Coordinates) (*RoutePlan, error)
}

// Client provides access to all AgroIPA resource clients.
type Client interface {
	DeliveryPoints() DeliveryPointsClient
	DeliveryRoutes() DeliveryRoutesClient
	Agents() AgentsClient
	SeedRequests() SeedRequestsClient
	SeedTypes() SeedTypesClient
	Geocoding() GeocodingClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an agro.Client.
//
// Authentication uses bearer access tokens with an offline refresh token. If
// AccessToken is empty but RefreshToken is set, the first 401 triggers a
// refresh against POST /token/refresh/ and a single replay of the failed
// request. With neither token, requests are sent unauthenticated and the
// server decides.
type Config struct {
	// APIEndpoint is the base URL for the AgroIPA API. agroclient.New
	// normalizes this value by trimming a trailing slash and adding "https://"
	// if no scheme is present.
	APIEndpoint string

	// AccessToken is the current bearer token, if any.
	AccessToken string
	// RefreshToken is the long-lived token exchanged for new access tokens.
	RefreshToken string

	// HTTPTimeout bounds individual requests. Context deadlines take
	// precedence.
	HTTPTimeout time.Duration
	// RetryMax is the maximum number of retries for transient failures
	// (>=500, 429, and connection errors). Zero uses the default.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// OnSessionExpired is invoked when a token refresh fails or a replayed
	// request is rejected again; the CLI uses it to clear persisted tokens
	// and point the user back to login.
	OnSessionExpired func()
}
