package agro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

func TestPointFilter(t *testing.T) {
	t.Parallel()

	active := true
	filter := &agro.PointFilter{PointType: agro.PointTypeWarehouse, IsActive: &active}

	values := filter.Values()
	assert.Equal(t, "warehouse", values.Get("point_type"))
	assert.Equal(t, "true", values.Get("is_active"))

	// Key part is sorted, so identical filters always produce identical keys.
	assert.Equal(t, "is_active=true,point_type=warehouse", filter.CacheKeyPart())
}

func TestFilters_NilSafe(t *testing.T) {
	t.Parallel()

	filters := []agro.Filter{
		(*agro.PointFilter)(nil),
		(*agro.RouteFilter)(nil),
		(*agro.AgentFilter)(nil),
		(*agro.RequestFilter)(nil),
	}

	for _, filter := range filters {
		assert.Empty(t, filter.Values())
		assert.Empty(t, filter.CacheKeyPart())
	}
}

func TestFilters_EmptyValuesOmitted(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&agro.PointFilter{}).CacheKeyPart())
	assert.Empty(t, (&agro.RouteFilter{}).CacheKeyPart())
	assert.Empty(t, (&agro.RequestFilter{}).CacheKeyPart())
	assert.Empty(t, (&agro.AgentFilter{}).CacheKeyPart())
}

func TestRouteAndRequestFilters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "status=in_progress",
		(&agro.RouteFilter{Status: agro.RouteStatusInProgress}).CacheKeyPart())
	assert.Equal(t, "status=pending",
		(&agro.RequestFilter{Status: agro.RequestStatusPending}).CacheKeyPart())

	inactive := false
	assert.Equal(t, "is_active=false",
		(&agro.AgentFilter{IsActive: &inactive}).CacheKeyPart())
}

func TestDetailKeyPart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id=7", agro.DetailKeyPart(7))
}
