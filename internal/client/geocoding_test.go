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
	agrohttp "github.com/ppmalta/AgroIPA/internal/http"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

func newGeocodingClient(t *testing.T, handler http.HandlerFunc) *client.GeocodingClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.NewGeocodingClient(agrohttp.NewClient(server.URL, nil))
}

func TestGeocodingClient_Geocode(t *testing.T) {
	t.Parallel()

	geocoding := newGeocodingClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/geocode/", request.URL.Path)

		var body map[string]string

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "Estrada do Campo, km 12", body["address"])

		_ = json.NewEncoder(writer).Encode(agro.Coordinates{Lat: -8.838, Lng: 13.234})
	})

	coords, err := geocoding.Geocode(context.Background(), "Estrada do Campo, km 12")
	require.NoError(t, err)
	assert.InDelta(t, -8.838, coords.Lat, 0.001)
	assert.InDelta(t, 13.234, coords.Lng, 0.001)
}

func TestGeocodingClient_ReverseGeocode(t *testing.T) {
	t.Parallel()

	geocoding := newGeocodingClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/reverse-geocode/", request.URL.Path)

		var body map[string]float64

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.InDelta(t, -8.838, body["latitude"], 0.001)
		assert.InDelta(t, 13.234, body["longitude"], 0.001)

		_ = json.NewEncoder(writer).Encode(map[string]string{"address": "Estrada do Campo, km 12"})
	})

	address, err := geocoding.ReverseGeocode(context.Background(), -8.838, 13.234)
	require.NoError(t, err)
	assert.Equal(t, "Estrada do Campo, km 12", address)
}

func TestGeocodingClient_CalculateRoute(t *testing.T) {
	t.Parallel()

	geocoding := newGeocodingClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/route/", request.URL.Path)

		var body struct {
			Origin      agro.Coordinates   `json:"origin"`
			Destination agro.Coordinates   `json:"destination"`
			Waypoints   []agro.Coordinates `json:"waypoints"`
		}

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Len(t, body.Waypoints, 1)

		_ = json.NewEncoder(writer).Encode(agro.RoutePlan{
			DistanceKm:      120.5,
			DurationMinutes: 95,
			Polyline:        []agro.Coordinates{body.Origin, body.Waypoints[0], body.Destination},
		})
	})

	plan, err := geocoding.CalculateRoute(context.Background(),
		agro.Coordinates{Lat: -8.8, Lng: 13.2},
		agro.Coordinates{Lat: -9.5, Lng: 14.1},
		[]agro.Coordinates{{Lat: -9.0, Lng: 13.6}},
	)
	require.NoError(t, err)
	assert.InDelta(t, 120.5, plan.DistanceKm, 0.001)
	assert.Len(t, plan.Polyline, 3)
}
