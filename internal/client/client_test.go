package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/client"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

func TestClient_ResourceClientsWired(t *testing.T) {
	t.Parallel()

	apiClient := client.New("https://api.example.com/api", nil, &agro.Config{})

	assert.NotNil(t, apiClient.DeliveryPoints())
	assert.NotNil(t, apiClient.DeliveryRoutes())
	assert.NotNil(t, apiClient.Agents())
	assert.NotNil(t, apiClient.SeedRequests())
	assert.NotNil(t, apiClient.SeedTypes())
	assert.NotNil(t, apiClient.Geocoding())
}

func TestClient_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ agro.Client = client.New("https://api.example.com/api", nil, &agro.Config{})
}

func TestClient_PointsAndAgents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/delivery-points/":
			assert.Equal(t, "is_active=true&point_type=warehouse", request.URL.Query().Encode())
			_ = json.NewEncoder(writer).Encode([]agro.DeliveryPoint{
				{ID: 1, Name: "Armazém Central", PointType: agro.PointTypeWarehouse, IsActive: true},
			})
		case "/agents/4/":
			if request.Method == http.MethodPatch {
				var body map[string]float64

				require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.InDelta(t, -8.838, body["current_latitude"], 0.001)
				assert.InDelta(t, 13.234, body["current_longitude"], 0.001)

				lat, lng := body["current_latitude"], body["current_longitude"]
				_ = json.NewEncoder(writer).Encode(agro.Agent{
					ID:               4,
					Name:             "João",
					CurrentLatitude:  &lat,
					CurrentLongitude: &lng,
					IsActive:         true,
				})

				return
			}

			_ = json.NewEncoder(writer).Encode(agro.Agent{ID: 4, Name: "João", IsActive: true})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	apiClient := client.New(server.URL, nil, &agro.Config{})
	ctx := context.Background()

	active := true
	points, err := apiClient.DeliveryPoints().List(ctx, &agro.PointFilter{
		PointType: agro.PointTypeWarehouse,
		IsActive:  &active,
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "Armazém Central", points[0].Name)

	agent, err := apiClient.Agents().UpdateLocation(ctx, 4, -8.838, 13.234)
	require.NoError(t, err)
	require.NotNil(t, agent.CurrentLatitude)
	assert.InDelta(t, -8.838, *agent.CurrentLatitude, 0.001)
}
