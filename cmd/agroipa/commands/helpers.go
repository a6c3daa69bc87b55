package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppmalta/AgroIPA/pkg/agro"
	"github.com/ppmalta/AgroIPA/pkg/agroclient"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	defaultJSONIndent = "  "

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api or 'agroipa config set api')")
	ErrRefreshTokenNeeded  = errors.New("refresh token is required")
	ErrUnknownConfigKey    = errors.New("unknown config key")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrUnknownStatusFilter = errors.New("unknown status")
)

// CreateClient builds an API client from flags and the saved configuration.
// Refreshed tokens are persisted back to the config file; a dead session
// clears them and points the user at login.
func CreateClient() (agro.Client, error) {
	config := loadConfig()

	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = config.API
	}

	if endpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	clientConfig := &agro.Config{
		APIEndpoint:  endpoint,
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "Sessão expirada. Faça login novamente com 'agroipa login'.")
		},
	}

	client, err := agroclient.NewWithPersister(clientConfig, NewConfigPersister())
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// parseID converts a positional argument into a numeric resource ID.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, arg)
	}

	return id, nil
}

// parseCoord converts a positional argument into a coordinate component.
func parseCoord(arg string) (float64, error) {
	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, arg)
	}

	return value, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", defaultJSONIndent)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// printYAML writes v to stdout as YAML.
func printYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return nil
}

// cliNotifier prints mutation outcomes to the terminal. Messages mirror the
// product's Portuguese notifications.
type cliNotifier struct{}

// Success implements agro.Notifier.
func (cliNotifier) Success(msg string) {
	fmt.Println(msg)
}

// Error implements agro.Notifier.
func (cliNotifier) Error(msg, detail string) {
	if detail != "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg, detail)

		return
	}

	fmt.Fprintln(os.Stderr, msg)
}

// newMutator wires a client into a mutator backed by an in-memory store. The
// store is returned so callers can close it when done.
func newMutator(client agro.Client) (*agro.Mutator, *agro.QueryStore) {
	store := agro.NewQueryStore(agro.NewMemoryCache(0))
	mutator := agro.NewMutator(client, store, cliNotifier{})

	return mutator, store
}
