package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/auth"
)

type fakePersister struct {
	access  string
	refresh string
	cleared bool
}

func (p *fakePersister) UpdateTokens(accessToken, refreshToken string) error {
	p.access = accessToken
	p.refresh = refreshToken

	return nil
}

func (p *fakePersister) ClearTokens() error {
	p.cleared = true

	return nil
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("static-token")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static-token", token)

	err = manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrStaticTokenCannotRefresh)

	manager.InvalidateSession()

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRefreshTokenManager_Refresh(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)

		var body map[string]string

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "refresh-token", body["refresh"])

		_ = json.NewEncoder(writer).Encode(map[string]string{"access": "new-access"})
	}))
	defer server.Close()

	persister := &fakePersister{}
	manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
		TokenURL:     server.URL,
		AccessToken:  "old-access",
		RefreshToken: "refresh-token",
		Persister:    persister,
	})

	require.NoError(t, manager.RefreshToken(context.Background()))

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-access", token)

	assert.Equal(t, "new-access", persister.access)
	assert.Equal(t, "refresh-token", persister.refresh)
}

func TestRefreshTokenManager_RejectedRefreshInvalidatesSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(writer).Encode(map[string]string{"detail": "Token is invalid or expired"})
	}))
	defer server.Close()

	expired := false
	persister := &fakePersister{}
	manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
		TokenURL:         server.URL,
		AccessToken:      "old-access",
		RefreshToken:     "bad-refresh",
		Persister:        persister,
		OnSessionExpired: func() { expired = true },
	})

	err := manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrRefreshRejected)

	token, getErr := manager.GetToken(context.Background())
	require.NoError(t, getErr)
	assert.Empty(t, token)
	assert.True(t, persister.cleared)
	assert.True(t, expired)

	// The refresh token is gone too; the next refresh fails fast.
	err = manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrNoRefreshToken)
}

func TestRefreshTokenManager_NoRefreshToken(t *testing.T) {
	t.Parallel()

	expired := false
	manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
		TokenURL:         "http://localhost:0",
		OnSessionExpired: func() { expired = true },
	})

	err := manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrNoRefreshToken)
	assert.True(t, expired)
}

func TestRefreshTokenManager_EmptyAccessInResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(map[string]string{})
	}))
	defer server.Close()

	manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
		TokenURL:     server.URL,
		RefreshToken: "refresh-token",
	})

	err := manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, auth.ErrRefreshRejected)
}

func TestRefreshTokenManager_SetToken(t *testing.T) {
	t.Parallel()

	manager := auth.NewRefreshTokenManager(&auth.RefreshConfig{
		TokenURL:     "http://localhost:0",
		RefreshToken: "refresh-token",
	})

	manager.SetToken("manual-token", time.Time{})

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)
}
