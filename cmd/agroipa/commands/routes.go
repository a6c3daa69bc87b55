package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppmalta/AgroIPA/internal/constants"
	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// NewRoutesCommand creates the routes command group.
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"delivery-routes"},
		Short:   "Manage delivery routes",
	}

	cmd.AddCommand(newRoutesListCommand())
	cmd.AddCommand(newRoutesGetCommand())
	cmd.AddCommand(newRoutesStartCommand())
	cmd.AddCommand(newRoutesCompleteCommand())

	return cmd
}

func newRoutesListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List delivery routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			filter := &agro.RouteFilter{Status: agro.RouteStatus(status)}

			routes, err := client.DeliveryRoutes().List(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to list delivery routes: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(routes)
			case OutputFormatYAML:
				return printYAML(routes)
			default:
				if len(routes) == 0 {
					fmt.Println("No delivery routes found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Origin", "Destination", "Status", "Stops", "Started")

				for _, route := range routes {
					started := ""
					if route.StartedAt != nil {
						started = route.StartedAt.Format(constants.TimeFormat)
					}

					table.Append(
						strconv.Itoa(route.ID),
						route.Name,
						route.Origin.Name,
						route.Destination.Name,
						string(route.Status),
						strconv.Itoa(len(route.Stops)),
						started,
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, in_progress, completed, cancelled)")

	return cmd
}

func newRoutesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one delivery route with its stops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			route, err := client.DeliveryRoutes().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get delivery route: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(route)
			case OutputFormatYAML:
				return printYAML(route)
			default:
				fmt.Printf("Route %d: %s [%s]\n", route.ID, route.Name, route.Status)
				fmt.Printf("  %s -> %s\n", route.Origin.Name, route.Destination.Name)

				if route.DistanceKm != nil {
					fmt.Printf("  Distance: %.1f km\n", *route.DistanceKm)
				}

				if len(route.Stops) == 0 {
					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Order", "Point", "Arrived", "Departed")

				for _, stop := range route.Stops {
					arrived := ""
					if stop.ArrivedAt != nil {
						arrived = stop.ArrivedAt.Format(constants.TimeFormat)
					}

					departed := ""
					if stop.DepartedAt != nil {
						departed = stop.DepartedAt.Format(constants.TimeFormat)
					}

					table.Append(strconv.Itoa(stop.Order), stop.DeliveryPoint.Name, arrived, departed)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}

func newRoutesStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a pending route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			mutator, store := newMutator(client)
			defer store.Close()

			_, err = mutator.StartRoute(context.Background(), id)

			return err
		},
	}
}

func newRoutesCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a running route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			mutator, store := newMutator(client)
			defer store.Close()

			_, err = mutator.CompleteRoute(context.Background(), id)

			return err
		},
	}
}
