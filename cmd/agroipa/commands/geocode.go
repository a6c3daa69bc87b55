package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// NewGeocodeCommand creates the geocode command.
func NewGeocodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <address>",
		Short: "Resolve an address to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := strings.Join(args, " ")

			client, err := CreateClient()
			if err != nil {
				return err
			}

			geocoder := agro.NewGeocoder(client.Geocoding(), cliNotifier{})

			coords, err := geocoder.GeocodeAddress(context.Background(), address)
			if err != nil {
				return err
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(coords)
			case OutputFormatYAML:
				return printYAML(coords)
			default:
				fmt.Printf("%.6f, %.6f\n", coords.Lat, coords.Lng)

				return nil
			}
		},
	}
}

// NewReverseGeocodeCommand creates the reverse-geocode command.
func NewReverseGeocodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse-geocode <lat> <lng>",
		Short: "Resolve coordinates to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := parseCoord(args[0])
			if err != nil {
				return err
			}

			lng, err := parseCoord(args[1])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			geocoder := agro.NewGeocoder(client.Geocoding(), cliNotifier{})

			address, err := geocoder.ReverseGeocode(context.Background(), lat, lng)
			if err != nil {
				return err
			}

			fmt.Println(address)

			return nil
		},
	}
}

// NewPlanRouteCommand creates the plan-route command.
func NewPlanRouteCommand() *cobra.Command {
	var waypoints []string

	cmd := &cobra.Command{
		Use:   "plan-route <origin-lat> <origin-lng> <dest-lat> <dest-lng>",
		Short: "Calculate a route between two coordinates",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]float64, len(args))
			for i, arg := range args {
				value, err := parseCoord(arg)
				if err != nil {
					return err
				}

				coords[i] = value
			}

			origin := agro.Coordinates{Lat: coords[0], Lng: coords[1]}
			destination := agro.Coordinates{Lat: coords[2], Lng: coords[3]}

			var via []agro.Coordinates

			for _, waypoint := range waypoints {
				parts := strings.SplitN(waypoint, ",", 2)
				if len(parts) != 2 {
					return fmt.Errorf("%w: %q (expected lat,lng)", ErrInvalidCoordinate, waypoint)
				}

				lat, err := parseCoord(strings.TrimSpace(parts[0]))
				if err != nil {
					return err
				}

				lng, err := parseCoord(strings.TrimSpace(parts[1]))
				if err != nil {
					return err
				}

				via = append(via, agro.Coordinates{Lat: lat, Lng: lng})
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			plan, err := client.Geocoding().CalculateRoute(context.Background(), origin, destination, via)
			if err != nil {
				return fmt.Errorf("failed to calculate route: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(plan)
			case OutputFormatYAML:
				return printYAML(plan)
			default:
				fmt.Printf("Distance: %.1f km\n", plan.DistanceKm)
				fmt.Printf("Duration: %.0f min\n", plan.DurationMinutes)

				return nil
			}
		},
	}

	cmd.Flags().StringArrayVar(&waypoints, "via", nil, "intermediate waypoint as lat,lng (repeatable)")

	return cmd
}
