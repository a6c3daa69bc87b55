package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agrohttp "github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token       string
	err         error
	refreshErr  error
	refreshes   atomic.Int64
	invalidated atomic.Bool
	// refreshedToken replaces token after a successful refresh.
	refreshedToken string
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	m.refreshes.Add(1)

	if m.refreshErr != nil {
		m.invalidated.Store(true)

		return m.refreshErr
	}

	if m.refreshedToken != "" {
		m.token = m.refreshedToken
	}

	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

func (m *MockTokenManager) InvalidateSession() {
	m.invalidated.Store(true)
	m.token = ""
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/delivery-points/", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := []map[string]interface{}{{"id": 1, "name": "Armazém Central"}}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := agrohttp.NewClient(server.URL, tokenManager)

		req := &agrohttp.Request{
			Method: "GET",
			Path:   "/delivery-points/",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result []map[string]interface{}

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Armazém Central", result[0]["name"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/delivery-routes/", request.URL.Path)
			assert.Equal(t, "status=in_progress", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil)

		req := &agrohttp.Request{
			Method: "GET",
			Path:   "/delivery-routes/",
			Query:  url.Values{"status": []string{"in_progress"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Estrada do Campo, km 12", body["address"])

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil)

		req := &agrohttp.Request{
			Method: "POST",
			Path:   "/geocode/",
			Body:   map[string]string{"address": "Estrada do Campo, km 12"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{"detail": "Não encontrado."})
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil)

		req := &agrohttp.Request{
			Method: "GET",
			Path:   "/seed-requests/9999/",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.True(t, agro.IsNotFound(err))

		respErr := &agro.ResponseError{}
		ok := errors.As(err, &respErr)
		require.True(t, ok)
		require.NotNil(t, respErr.FirstError())
		assert.Equal(t, "Não encontrado.", respErr.FirstError().Detail)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil)

		req := &agrohttp.Request{
			Method: "GET",
			Path:   "/agents/",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := agrohttp.NewClient(server.URL, nil, agrohttp.WithLogger(logger), agrohttp.WithDebug(true))

		req := &agrohttp.Request{
			Method: "GET",
			Path:   "/agents/",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*agrohttp.Client, context.Context) (*agrohttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *agrohttp.Client, ctx context.Context) (*agrohttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *agrohttp.Client, ctx context.Context) (*agrohttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *agrohttp.Client, ctx context.Context) (*agrohttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *agrohttp.Client, ctx context.Context) (*agrohttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *agrohttp.Client, ctx context.Context) (*agrohttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := agrohttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil, agrohttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int64(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil, agrohttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int64(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := agrohttp.NewClient(server.URL, nil, agrohttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int64(1), attempts.Load())
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_TokenRefresh(t *testing.T) {
	t.Parallel()
	t.Run("refreshes once and replays on 401", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("Authorization") != "Bearer fresh-token" {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			requests.Add(1)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "stale-token", refreshedToken: "fresh-token"}
		client := agrohttp.NewClient(server.URL, tokenManager)

		resp, err := client.Get(context.Background(), "/agents/", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int64(1), tokenManager.refreshes.Load())
		assert.Equal(t, int64(1), requests.Load())
		assert.False(t, tokenManager.invalidated.Load())
	})

	t.Run("second 401 invalidates the session", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "stale-token", refreshedToken: "still-rejected"}
		client := agrohttp.NewClient(server.URL, tokenManager)

		_, err := client.Get(context.Background(), "/agents/", nil)
		require.Error(t, err)
		assert.True(t, agro.IsUnauthorized(err))
		assert.Equal(t, int64(1), tokenManager.refreshes.Load())
		assert.Equal(t, int64(2), attempts.Load())
		assert.True(t, tokenManager.invalidated.Load())
	})

	t.Run("failed refresh returns the original 401", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "stale-token", refreshErr: errors.New("refresh rejected")}
		client := agrohttp.NewClient(server.URL, tokenManager)

		_, err := client.Get(context.Background(), "/agents/", nil)
		require.Error(t, err)
		assert.True(t, agro.IsUnauthorized(err))
		assert.Equal(t, int64(1), attempts.Load())
		assert.True(t, tokenManager.invalidated.Load())
	})
}
