// Package auth manages access tokens and the refresh-token exchange.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ppmalta/AgroIPA/internal/constants"
)

// Static errors for the auth layer.
var (
	ErrNoRefreshToken           = errors.New("no refresh token available")
	ErrRefreshRejected          = errors.New("refresh token rejected")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// TokenManager supplies bearer tokens to the HTTP layer and refreshes them
// when the API signals expiry.
type TokenManager interface {
	// GetToken returns the current access token. An empty token with nil
	// error means the request proceeds unauthenticated.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken exchanges the refresh token for a new access token.
	RefreshToken(ctx context.Context) error
	// SetToken manually sets the access token.
	SetToken(token string, expiresAt time.Time)
	// InvalidateSession clears all tokens after a terminal auth failure.
	InvalidateSession()
}

// StaticTokenManager provides a fixed token and cannot refresh.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager around a fixed access token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken implements TokenManager.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

// RefreshToken implements TokenManager.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken implements TokenManager.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// InvalidateSession implements TokenManager.
func (m *StaticTokenManager) InvalidateSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
}

// CredentialPersister saves refreshed tokens so a new process starts
// authenticated, and clears them when the session dies.
type CredentialPersister interface {
	UpdateTokens(accessToken, refreshToken string) error
	ClearTokens() error
}

// RefreshTokenManager holds an access token and renews it through
// POST {tokenURL} with the persisted refresh token, matching the API's
// token/refresh contract. Refresh failure is terminal: tokens are cleared and
// the session-expired callback fires.
type RefreshTokenManager struct {
	tokenURL     string
	httpClient   *http.Client
	persister    CredentialPersister
	onExpired    func()
	store        *TokenStore
	mu           sync.Mutex
	refreshToken string
}

// RefreshConfig configures a RefreshTokenManager.
type RefreshConfig struct {
	// TokenURL is the full refresh endpoint, e.g. <base>/token/refresh/.
	TokenURL string
	// AccessToken optionally seeds the manager with a current token.
	AccessToken string
	// RefreshToken is the long-lived token exchanged for access tokens.
	RefreshToken string
	// Persister optionally persists refreshed tokens.
	Persister CredentialPersister
	// OnSessionExpired optionally observes terminal auth failures.
	OnSessionExpired func()
}

// NewRefreshTokenManager creates a refresh-grant token manager.
func NewRefreshTokenManager(config *RefreshConfig) *RefreshTokenManager {
	store := NewTokenStore()
	if config.AccessToken != "" {
		store.Set(&Token{AccessToken: config.AccessToken, TokenType: "bearer"})
	}

	return &RefreshTokenManager{
		tokenURL:     config.TokenURL,
		httpClient:   &http.Client{Timeout: constants.ShortHTTPTimeout},
		persister:    config.Persister,
		onExpired:    config.OnSessionExpired,
		store:        store,
		refreshToken: config.RefreshToken,
	}
}

// GetToken implements TokenManager. A missing token is not an error; the
// request proceeds unauthenticated and the server decides.
func (m *RefreshTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token == nil {
		return "", nil
	}

	return token.AccessToken, nil
}

// SetToken implements TokenManager.
func (m *RefreshTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

// InvalidateSession implements TokenManager.
func (m *RefreshTokenManager) InvalidateSession() {
	m.store.Clear()

	m.mu.Lock()
	m.refreshToken = ""
	m.mu.Unlock()

	if m.persister != nil {
		_ = m.persister.ClearTokens()
	}

	if m.onExpired != nil {
		m.onExpired()
	}
}

// RefreshToken implements TokenManager. It performs exactly one exchange; a
// rejected refresh token invalidates the whole session.
func (m *RefreshTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.refreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		m.InvalidateSession()

		return ErrNoRefreshToken
	}

	access, err := m.exchange(ctx, refreshToken)
	if err != nil {
		m.InvalidateSession()

		return err
	}

	m.store.Set(&Token{AccessToken: access, TokenType: "bearer"})

	if m.persister != nil {
		if persistErr := m.persister.UpdateTokens(access, refreshToken); persistErr != nil {
			// Persisting is best-effort; the in-memory session stays valid.
			return nil
		}
	}

	return nil
}

// exchange performs the POST {refresh} -> {access} call.
func (m *RefreshTokenManager) exchange(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("encoding refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating refresh request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing refresh response: %w", err)
	}

	if result.Access == "" {
		return "", ErrRefreshRejected
	}

	return result.Access, nil
}
