package agro

import "context"

// MapData aggregates everything the operations map renders: all delivery
// points, routes currently in progress, and active agents.
type MapData struct {
	Points []DeliveryPoint `json:"points" yaml:"points"`
	Routes []DeliveryRoute `json:"routes" yaml:"routes"`
	Agents []Agent         `json:"agents" yaml:"agents"`
}

// FetchMapData reads the three map families through the store, so each leg
// benefits from caching and de-duplication independently.
func FetchMapData(ctx context.Context, store *QueryStore, client Client) (*MapData, error) {
	points, err := Query(ctx, store, FamilyDeliveryPoints, "", func(ctx context.Context) ([]DeliveryPoint, error) {
		return client.DeliveryPoints().List(ctx, nil)
	})
	if err != nil {
		return nil, err
	}

	inProgress := &RouteFilter{Status: RouteStatusInProgress}

	routes, err := Query(ctx, store, FamilyDeliveryRoutes, inProgress.CacheKeyPart(), func(ctx context.Context) ([]DeliveryRoute, error) {
		return client.DeliveryRoutes().List(ctx, inProgress)
	})
	if err != nil {
		return nil, err
	}

	active := true
	activeFilter := &AgentFilter{IsActive: &active}

	agents, err := Query(ctx, store, FamilyAgents, activeFilter.CacheKeyPart(), func(ctx context.Context) ([]Agent, error) {
		return client.Agents().List(ctx, activeFilter)
	})
	if err != nil {
		return nil, err
	}

	return &MapData{Points: points, Routes: routes, Agents: agents}, nil
}
