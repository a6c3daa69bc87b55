// Package agroclient provides the main entry point for creating AgroIPA API
// clients.
package agroclient

import (
	"strings"

	"github.com/ppmalta/AgroIPA/internal/auth"
	"github.com/ppmalta/AgroIPA/internal/client"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// CredentialPersister saves refreshed tokens across processes. The CLI uses a
// config-file implementation; library callers may ignore it.
type CredentialPersister = auth.CredentialPersister

// New creates a new AgroIPA API client.
func New(config *agro.Config) (agro.Client, error) {
	return NewWithPersister(config, nil)
}

// NewWithPersister creates a client that writes refreshed tokens through the
// given persister. A nil persister keeps tokens in memory only.
func NewWithPersister(config *agro.Config, persister CredentialPersister) (agro.Client, error) {
	if config == nil {
		return nil, agro.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, agro.ErrEndpointRequired
	}

	endpoint := normalizeEndpoint(config.APIEndpoint)
	config.APIEndpoint = endpoint

	tokenManager := createTokenManager(config, endpoint, persister)

	return client.New(endpoint, tokenManager, config), nil
}

// NewWithEndpoint creates an unauthenticated client for the given endpoint.
func NewWithEndpoint(endpoint string) (agro.Client, error) {
	return New(&agro.Config{APIEndpoint: endpoint})
}

// NewWithTokens creates a client from an access/refresh token pair.
func NewWithTokens(endpoint, accessToken, refreshToken string) (agro.Client, error) {
	return New(&agro.Config{
		APIEndpoint:  endpoint,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to https.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// createTokenManager picks the token manager for the configured credentials.
// With a refresh token the manager renews access tokens through the API's
// token refresh endpoint; with only an access token the session lasts as long
// as the token; with neither, requests go out unauthenticated.
func createTokenManager(config *agro.Config, endpoint string, persister CredentialPersister) auth.TokenManager {
	if config.RefreshToken != "" {
		return auth.NewRefreshTokenManager(&auth.RefreshConfig{
			TokenURL:         endpoint + "/token/refresh/",
			AccessToken:      config.AccessToken,
			RefreshToken:     config.RefreshToken,
			Persister:        persister,
			OnSessionExpired: config.OnSessionExpired,
		})
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	return nil
}
