// Package constants centralizes tunables shared across the SDK and CLI.
package constants

import "time"

// HTTP client defaults.
const (
	DefaultHTTPTimeout = 30 * time.Second
	ShortHTTPTimeout   = 10 * time.Second

	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 30 * time.Second
)

// Token lifecycle.
const (
	// TokenExpiryBuffer treats tokens expiring within this window as invalid so
	// a refresh happens before the server rejects the request.
	TokenExpiryBuffer = 30 * time.Second
)

// Cache staleness windows per resource family. An entry older than its window
// is served stale while a background revalidation runs.
const (
	DeliveryPointStaleness = 30 * time.Second
	DeliveryRouteStaleness = 10 * time.Second
	AgentStaleness         = 5 * time.Second
	SeedRequestStaleness   = 30 * time.Second
	SeedTypeStaleness      = 5 * time.Minute
)

// Background refresh intervals. Zero means manual refresh only.
const (
	DeliveryPointRefreshInterval = 60 * time.Second
	DeliveryRouteRefreshInterval = 30 * time.Second
	AgentRefreshInterval         = 10 * time.Second
)

// Cache backend defaults.
const (
	DefaultCacheSize            = 1000
	DefaultCacheCleanupInterval = time.Minute
	DefaultCacheTTL             = 5 * time.Minute
)

// CLI output.
const (
	JSONIndentSize = 2
	TimeFormat     = "2006-01-02 15:04:05"
)
