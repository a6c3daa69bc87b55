package agro

import (
	"context"
	"strings"
	"sync"
)

// GeocodeState is the coordination state of the Geocoder.
type GeocodeState string

const (
	GeocodeIdle    GeocodeState = "idle"
	GeocodeLoading GeocodeState = "loading"
	GeocodeSuccess GeocodeState = "success"
	GeocodeError   GeocodeState = "error"
)

// GeocodeSnapshot is a point-in-time view of the geocoder's state.
type GeocodeSnapshot struct {
	State       GeocodeState
	Coordinates *Coordinates
	Address     string
	Err         string
}

// Geocoder sequences forward and reverse geocoding lookups, tracking a single
// logical in-flight request. Issuing a new lookup cancels the superseded one
// and only the newest call's result is applied, so a slow earlier response can
// never overwrite a later one.
type Geocoder struct {
	client   GeocodingClient
	notifier Notifier

	mu          sync.Mutex
	seq         uint64
	cancel      context.CancelFunc
	state       GeocodeState
	coordinates *Coordinates
	address     string
	err         string
}

// NewGeocoder creates a geocoder over the given client.
func NewGeocoder(client GeocodingClient, notifier Notifier) *Geocoder {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Geocoder{
		client:   client,
		notifier: notifier,
		state:    GeocodeIdle,
	}
}

// Snapshot returns the current coordination state.
func (g *Geocoder) Snapshot() GeocodeSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GeocodeSnapshot{
		State:       g.state,
		Coordinates: g.coordinates,
		Address:     g.address,
		Err:         g.err,
	}
}

// Clear resets the geocoder to idle and drops any tracked result.
func (g *Geocoder) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}

	g.state = GeocodeIdle
	g.coordinates = nil
	g.address = ""
	g.err = ""
}

// begin cancels any in-flight lookup and registers a new one, returning its
// sequence number and derived context.
func (g *Geocoder) begin(ctx context.Context) (uint64, context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}

	lookupCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.seq++
	g.state = GeocodeLoading
	g.err = ""

	return g.seq, lookupCtx
}

// current reports whether the lookup with the given sequence number is still
// the newest one. Superseded lookups discard their results.
func (g *Geocoder) current(seq uint64) bool {
	return g.seq == seq
}

// GeocodeAddress resolves an address to coordinates. Blank input fails
// immediately with a validation error and never touches the network.
func (g *Geocoder) GeocodeAddress(ctx context.Context, address string) (*Coordinates, error) {
	if strings.TrimSpace(address) == "" {
		g.mu.Lock()
		g.state = GeocodeError
		g.err = ErrEmptyAddress.Error()
		g.mu.Unlock()

		return nil, ErrEmptyAddress
	}

	seq, lookupCtx := g.begin(ctx)

	coords, err := g.client.Geocode(lookupCtx, address)

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.current(seq) {
		return coords, err
	}

	g.cancel = nil

	if err != nil {
		g.state = GeocodeError
		g.err = err.Error()
		g.notifier.Error("Erro ao buscar coordenadas", err.Error())

		return nil, err
	}

	g.state = GeocodeSuccess
	g.coordinates = coords
	g.address = address

	return coords, nil
}

// ReverseGeocode resolves coordinates to an address string.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	seq, lookupCtx := g.begin(ctx)

	address, err := g.client.ReverseGeocode(lookupCtx, lat, lng)

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.current(seq) {
		return address, err
	}

	g.cancel = nil

	if err != nil {
		g.state = GeocodeError
		g.err = err.Error()
		g.notifier.Error("Erro ao buscar endereço", err.Error())

		return "", err
	}

	g.state = GeocodeSuccess
	g.coordinates = &Coordinates{Lat: lat, Lng: lng}
	g.address = address

	return address, nil
}
