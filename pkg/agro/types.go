package agro

import (
	"fmt"
	"time"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Validate checks that both components are inside their valid ranges.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinates, c.Lat)
	}

	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinates, c.Lng)
	}

	return nil
}

// PointType classifies a delivery point.
type PointType string

const (
	PointTypeWarehouse          PointType = "warehouse"
	PointTypeDistributionCenter PointType = "distribution_center"
	PointTypeDeliveryPoint      PointType = "delivery_point"
)

// DeliveryPoint represents a warehouse, distribution center, or final delivery
// location.
type DeliveryPoint struct {
	ID           int       `json:"id"                      yaml:"id"`
	Name         string    `json:"name"                    yaml:"name"`
	Address      string    `json:"address"                 yaml:"address"`
	Latitude     float64   `json:"latitude"                yaml:"latitude"`
	Longitude    float64   `json:"longitude"               yaml:"longitude"`
	PointType    PointType `json:"point_type"              yaml:"point_type"`
	ContactName  string    `json:"contact_name,omitempty"  yaml:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty" yaml:"contact_phone,omitempty"`
	IsActive     bool      `json:"is_active"               yaml:"is_active"`
}

// RouteStatus is the lifecycle state of a delivery route.
type RouteStatus string

const (
	RouteStatusPending    RouteStatus = "pending"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
	RouteStatusCancelled  RouteStatus = "cancelled"
)

// RouteStop is one ordered stop on a delivery route. Order values are unique
// and contiguous within a route.
type RouteStop struct {
	ID            int           `json:"id"                    yaml:"id"`
	DeliveryPoint DeliveryPoint `json:"delivery_point"        yaml:"delivery_point"`
	Order         int           `json:"order"                 yaml:"order"`
	ArrivedAt     *time.Time    `json:"arrived_at,omitempty"  yaml:"arrived_at,omitempty"`
	DepartedAt    *time.Time    `json:"departed_at,omitempty" yaml:"departed_at,omitempty"`
}

// DeliveryRoute represents a planned or running route between two delivery
// points with intermediate stops.
type DeliveryRoute struct {
	ID                       int           `json:"id"                                   yaml:"id"`
	Name                     string        `json:"name"                                 yaml:"name"`
	Origin                   DeliveryPoint `json:"origin"                               yaml:"origin"`
	Destination              DeliveryPoint `json:"destination"                          yaml:"destination"`
	Status                   RouteStatus   `json:"status"                               yaml:"status"`
	DistanceKm               *float64      `json:"distance_km,omitempty"                yaml:"distance_km,omitempty"`
	EstimatedDurationMinutes *int          `json:"estimated_duration_minutes,omitempty" yaml:"estimated_duration_minutes,omitempty"`
	StartedAt                *time.Time    `json:"started_at,omitempty"                 yaml:"started_at,omitempty"`
	CompletedAt              *time.Time    `json:"completed_at,omitempty"               yaml:"completed_at,omitempty"`
	Stops                    []RouteStop   `json:"stops"                                yaml:"stops"`
}

// ValidateStops verifies the route's stop order values are unique and
// contiguous starting at 1.
func (r *DeliveryRoute) ValidateStops() error {
	seen := make(map[int]bool, len(r.Stops))

	for _, stop := range r.Stops {
		if seen[stop.Order] {
			return fmt.Errorf("%w: duplicate order %d", ErrInvalidStopOrder, stop.Order)
		}

		seen[stop.Order] = true
	}

	for i := 1; i <= len(r.Stops); i++ {
		if !seen[i] {
			return fmt.Errorf("%w: missing order %d", ErrInvalidStopOrder, i)
		}
	}

	return nil
}

// Agent is a field agent executing deliveries.
type Agent struct {
	ID               int            `json:"id"                          yaml:"id"`
	Name             string         `json:"name"                        yaml:"name"`
	Phone            string         `json:"phone"                       yaml:"phone"`
	CurrentLatitude  *float64       `json:"current_latitude,omitempty"  yaml:"current_latitude,omitempty"`
	CurrentLongitude *float64       `json:"current_longitude,omitempty" yaml:"current_longitude,omitempty"`
	IsActive         bool           `json:"is_active"                   yaml:"is_active"`
	CurrentRoute     *DeliveryRoute `json:"current_route,omitempty"     yaml:"current_route,omitempty"`
}

// SeedType is reference data describing a seed variety family.
type SeedType struct {
	ID             int    `json:"id"                        yaml:"id"`
	Name           string `json:"name"                      yaml:"name"`
	ScientificName string `json:"scientific_name,omitempty" yaml:"scientific_name,omitempty"`
	Description    string `json:"description,omitempty"     yaml:"description,omitempty"`
	PlantingSeason string `json:"planting_season,omitempty" yaml:"planting_season,omitempty"`
	IsActive       bool   `json:"is_active"                 yaml:"is_active"`
}

// RequestStatus is the lifecycle state of a seed request.
type RequestStatus string

const (
	RequestStatusPending     RequestStatus = "pending"
	RequestStatusUnderReview RequestStatus = "under_review"
	RequestStatusApproved    RequestStatus = "approved"
	RequestStatusRejected    RequestStatus = "rejected"
	RequestStatusDelivered   RequestStatus = "delivered"
)

// requestTransitions defines the one-directional seed request lifecycle.
// There is no path back to pending once a request is under review or beyond.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:     {RequestStatusUnderReview, RequestStatusApproved, RequestStatusRejected},
	RequestStatusUnderReview: {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved:    {RequestStatusDelivered},
}

// CanTransition reports whether a seed request may move from one status to
// another.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// SeedRequest is a request for seeds placed by a producer or organization.
// Identity and the human-readable request number are assigned by the server.
type SeedRequest struct {
	ID                   int           `json:"id"                              yaml:"id"`
	RequestNumber        string        `json:"request_number"                  yaml:"request_number"`
	SeedType             SeedType      `json:"seed_type"                       yaml:"seed_type"`
	Variety              string        `json:"variety"                         yaml:"variety"`
	QuantityKg           float64       `json:"quantity_kg"                     yaml:"quantity_kg"`
	RequesterName        string        `json:"requester_name"                  yaml:"requester_name"`
	RequesterOrg         string        `json:"requester_organization,omitempty" yaml:"requester_organization,omitempty"`
	DestinationAddress   string        `json:"destination_address"             yaml:"destination_address"`
	DestinationLatitude  *float64      `json:"destination_latitude,omitempty"  yaml:"destination_latitude,omitempty"`
	DestinationLongitude *float64      `json:"destination_longitude,omitempty" yaml:"destination_longitude,omitempty"`
	NeededByDate         string        `json:"needed_by_date"                  yaml:"needed_by_date"`
	Justification        string        `json:"justification,omitempty"         yaml:"justification,omitempty"`
	Status               RequestStatus `json:"status"                          yaml:"status"`
	CreatedAt            time.Time     `json:"created_at"                      yaml:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"                      yaml:"updated_at"`
}

// SeedRequestCreate is the payload for creating a seed request.
type SeedRequestCreate struct {
	SeedTypeID           int      `json:"seed_type_id"                     yaml:"seed_type_id"`
	Variety              string   `json:"variety"                          yaml:"variety"`
	QuantityKg           float64  `json:"quantity_kg"                      yaml:"quantity_kg"`
	RequesterName        string   `json:"requester_name"                   yaml:"requester_name"`
	RequesterOrg         string   `json:"requester_organization,omitempty" yaml:"requester_organization,omitempty"`
	DestinationAddress   string   `json:"destination_address"              yaml:"destination_address"`
	DestinationLatitude  *float64 `json:"destination_latitude,omitempty"   yaml:"destination_latitude,omitempty"`
	DestinationLongitude *float64 `json:"destination_longitude,omitempty"  yaml:"destination_longitude,omitempty"`
	NeededByDate         string   `json:"needed_by_date"                   yaml:"needed_by_date"`
	Justification        string   `json:"justification,omitempty"          yaml:"justification,omitempty"`
}

// Validate checks required-field presence. Business rules beyond presence are
// left to the server.
func (r *SeedRequestCreate) Validate() error {
	switch {
	case r.SeedTypeID == 0:
		return fmt.Errorf("%w: seed_type_id", ErrRequiredField)
	case r.Variety == "":
		return fmt.Errorf("%w: variety", ErrRequiredField)
	case r.QuantityKg <= 0:
		return fmt.Errorf("%w: quantity_kg must be positive", ErrValidation)
	case r.RequesterName == "":
		return fmt.Errorf("%w: requester_name", ErrRequiredField)
	case r.DestinationAddress == "":
		return fmt.Errorf("%w: destination_address", ErrRequiredField)
	case r.NeededByDate == "":
		return fmt.Errorf("%w: needed_by_date", ErrRequiredField)
	}

	return nil
}

// SeedRequestUpdate is the partial payload for PATCHing a seed request. Nil
// fields are omitted from the request body.
type SeedRequestUpdate struct {
	SeedTypeID         *int     `json:"seed_type_id,omitempty"        yaml:"seed_type_id,omitempty"`
	Variety            *string  `json:"variety,omitempty"             yaml:"variety,omitempty"`
	QuantityKg         *float64 `json:"quantity_kg,omitempty"         yaml:"quantity_kg,omitempty"`
	RequesterName      *string  `json:"requester_name,omitempty"      yaml:"requester_name,omitempty"`
	RequesterOrg       *string  `json:"requester_organization,omitempty" yaml:"requester_organization,omitempty"`
	DestinationAddress *string  `json:"destination_address,omitempty" yaml:"destination_address,omitempty"`
	NeededByDate       *string  `json:"needed_by_date,omitempty"      yaml:"needed_by_date,omitempty"`
	Justification      *string  `json:"justification,omitempty"       yaml:"justification,omitempty"`
}

// RoutePlan is the result of a route calculation between two coordinates.
type RoutePlan struct {
	DistanceKm      float64       `json:"distance_km"      yaml:"distance_km"`
	DurationMinutes float64       `json:"duration_minutes" yaml:"duration_minutes"`
	Polyline        []Coordinates `json:"polyline"         yaml:"polyline"`
}

// statusDisplay maps API statuses to the product's display strings.
var statusDisplay = map[RequestStatus]string{
	RequestStatusPending:     "Pendente",
	RequestStatusUnderReview: "Em Análise",
	RequestStatusApproved:    "Aprovado",
	RequestStatusRejected:    "Rejeitado",
	RequestStatusDelivered:   "Entregue",
}

// displayStatus is the inverse of statusDisplay.
var displayStatus = func() map[string]RequestStatus {
	m := make(map[string]RequestStatus, len(statusDisplay))
	for status, display := range statusDisplay {
		m[display] = status
	}

	return m
}()

// MapStatusToDisplay returns the display string for an API status. Unknown
// statuses are returned verbatim.
func MapStatusToDisplay(status RequestStatus) string {
	if display, ok := statusDisplay[status]; ok {
		return display
	}

	return string(status)
}

// MapDisplayToStatus returns the API status for a display string, or false if
// the display string is unknown.
func MapDisplayToStatus(display string) (RequestStatus, bool) {
	status, ok := displayStatus[display]

	return status, ok
}
