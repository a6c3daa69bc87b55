package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// NewPointsCommand creates the points command group.
func NewPointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "points",
		Aliases: []string{"delivery-points"},
		Short:   "Manage delivery points",
	}

	cmd.AddCommand(newPointsListCommand())
	cmd.AddCommand(newPointsGetCommand())

	return cmd
}

func newPointsListCommand() *cobra.Command {
	var (
		pointType  string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List delivery points",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			filter := &agro.PointFilter{}
			if pointType != "" {
				filter.PointType = agro.PointType(pointType)
			}

			if activeOnly {
				active := true
				filter.IsActive = &active
			}

			ctx := context.Background()

			points, err := client.DeliveryPoints().List(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list delivery points: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(points)
			case OutputFormatYAML:
				return printYAML(points)
			default:
				if len(points) == 0 {
					fmt.Println("No delivery points found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Type", "Address", "Lat", "Lng", "Active")

				for _, point := range points {
					active := "yes"
					if !point.IsActive {
						active = "no"
					}

					table.Append(
						strconv.Itoa(point.ID),
						point.Name,
						string(point.PointType),
						point.Address,
						fmt.Sprintf("%.5f", point.Latitude),
						fmt.Sprintf("%.5f", point.Longitude),
						active,
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&pointType, "type", "", "filter by point type (warehouse, distribution_center, delivery_point)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active points")

	return cmd
}

func newPointsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one delivery point",
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

			point, err := client.DeliveryPoints().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get delivery point: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(point)
			case OutputFormatYAML:
				return printYAML(point)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")
				table.Append("ID", strconv.Itoa(point.ID))
				table.Append("Name", point.Name)
				table.Append("Type", string(point.PointType))
				table.Append("Address", point.Address)
				table.Append("Latitude", fmt.Sprintf("%.6f", point.Latitude))
				table.Append("Longitude", fmt.Sprintf("%.6f", point.Longitude))
				table.Append("Contact", point.ContactName)
				table.Append("Phone", point.ContactPhone)
				table.Append("Active", strconv.FormatBool(point.IsActive))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}
