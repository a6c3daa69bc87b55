package agro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

func TestCoordinates_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		coords  agro.Coordinates
		wantErr bool
	}{
		{name: "valid", coords: agro.Coordinates{Lat: -8.838, Lng: 13.234}},
		{name: "boundary", coords: agro.Coordinates{Lat: 90, Lng: -180}},
		{name: "latitude too high", coords: agro.Coordinates{Lat: 90.1}, wantErr: true},
		{name: "latitude too low", coords: agro.Coordinates{Lat: -91}, wantErr: true},
		{name: "longitude too high", coords: agro.Coordinates{Lng: 181}, wantErr: true},
		{name: "longitude too low", coords: agro.Coordinates{Lng: -180.5}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.coords.Validate()
			if testCase.wantErr {
				require.ErrorIs(t, err, agro.ErrInvalidCoordinates)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestStatusDisplayRoundTrip(t *testing.T) {
	t.Parallel()

	statuses := map[agro.RequestStatus]string{
		agro.RequestStatusPending:     "Pendente",
		agro.RequestStatusUnderReview: "Em Análise",
		agro.RequestStatusApproved:    "Aprovado",
		agro.RequestStatusRejected:    "Rejeitado",
		agro.RequestStatusDelivered:   "Entregue",
	}

	for status, display := range statuses {
		assert.Equal(t, display, agro.MapStatusToDisplay(status))

		mapped, ok := agro.MapDisplayToStatus(display)
		require.True(t, ok)
		assert.Equal(t, status, mapped)
	}
}

func TestMapStatusToDisplay_Unknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "archived", agro.MapStatusToDisplay(agro.RequestStatus("archived")))

	_, ok := agro.MapDisplayToStatus("Arquivado")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to agro.RequestStatus }{
		{agro.RequestStatusPending, agro.RequestStatusUnderReview},
		{agro.RequestStatusPending, agro.RequestStatusApproved},
		{agro.RequestStatusPending, agro.RequestStatusRejected},
		{agro.RequestStatusUnderReview, agro.RequestStatusApproved},
		{agro.RequestStatusUnderReview, agro.RequestStatusRejected},
		{agro.RequestStatusApproved, agro.RequestStatusDelivered},
	}

	for _, transition := range allowed {
		assert.True(t, agro.CanTransition(transition.from, transition.to),
			"%s -> %s should be allowed", transition.from, transition.to)
	}

	denied := []struct{ from, to agro.RequestStatus }{
		{agro.RequestStatusUnderReview, agro.RequestStatusPending},
		{agro.RequestStatusApproved, agro.RequestStatusPending},
		{agro.RequestStatusApproved, agro.RequestStatusRejected},
		{agro.RequestStatusRejected, agro.RequestStatusApproved},
		{agro.RequestStatusRejected, agro.RequestStatusDelivered},
		{agro.RequestStatusDelivered, agro.RequestStatusPending},
		{agro.RequestStatusPending, agro.RequestStatusDelivered},
	}

	for _, transition := range denied {
		assert.False(t, agro.CanTransition(transition.from, transition.to),
			"%s -> %s should be denied", transition.from, transition.to)
	}
}

func TestDeliveryRoute_ValidateStops(t *testing.T) {
	t.Parallel()

	t.Run("contiguous from one", func(t *testing.T) {
		t.Parallel()

		route := &agro.DeliveryRoute{Stops: []agro.RouteStop{
			{Order: 3}, {Order: 1}, {Order: 2},
		}}
		require.NoError(t, route.ValidateStops())
	})

	t.Run("no stops", func(t *testing.T) {
		t.Parallel()

		route := &agro.DeliveryRoute{}
		require.NoError(t, route.ValidateStops())
	})

	t.Run("duplicate order", func(t *testing.T) {
		t.Parallel()

		route := &agro.DeliveryRoute{Stops: []agro.RouteStop{
			{Order: 1}, {Order: 1},
		}}
		require.ErrorIs(t, route.ValidateStops(), agro.ErrInvalidStopOrder)
	})

	t.Run("gap in order", func(t *testing.T) {
		t.Parallel()

		route := &agro.DeliveryRoute{Stops: []agro.RouteStop{
			{Order: 1}, {Order: 3},
		}}
		require.ErrorIs(t, route.ValidateStops(), agro.ErrInvalidStopOrder)
	})
}

func TestSeedRequestCreate_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *agro.SeedRequestCreate {
		return &agro.SeedRequestCreate{
			SeedTypeID:         1,
			Variety:            "BRS 1010",
			QuantityKg:         50,
			RequesterName:      "Cooperativa Monte Verde",
			DestinationAddress: "Estrada do Campo, km 12",
			NeededByDate:       "2026-10-01",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*agro.SeedRequestCreate)
	}{
		{name: "missing seed type", mutate: func(r *agro.SeedRequestCreate) { r.SeedTypeID = 0 }},
		{name: "missing variety", mutate: func(r *agro.SeedRequestCreate) { r.Variety = "" }},
		{name: "zero quantity", mutate: func(r *agro.SeedRequestCreate) { r.QuantityKg = 0 }},
		{name: "negative quantity", mutate: func(r *agro.SeedRequestCreate) { r.QuantityKg = -5 }},
		{name: "missing requester", mutate: func(r *agro.SeedRequestCreate) { r.RequesterName = "" }},
		{name: "missing destination", mutate: func(r *agro.SeedRequestCreate) { r.DestinationAddress = "" }},
		{name: "missing needed-by date", mutate: func(r *agro.SeedRequestCreate) { r.NeededByDate = "" }},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			request := valid()
			testCase.mutate(request)

			err := request.Validate()
			require.Error(t, err)
			assert.True(t, agro.IsValidation(err))
		})
	}
}
