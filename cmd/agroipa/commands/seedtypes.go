package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSeedTypesCommand creates the seed-types command group.
func NewSeedTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-types",
		Short: "Browse seed type reference data",
	}

	cmd.AddCommand(newSeedTypesListCommand())
	cmd.AddCommand(newSeedTypesGetCommand())

	return cmd
}

func newSeedTypesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List seed types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			types, err := client.SeedTypes().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list seed types: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(types)
			case OutputFormatYAML:
				return printYAML(types)
			default:
				if len(types) == 0 {
					fmt.Println("No seed types found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Scientific name", "Season", "Active")

				for _, seedType := range types {
					active := "yes"
					if !seedType.IsActive {
						active = "no"
					}

					table.Append(
						strconv.Itoa(seedType.ID),
						seedType.Name,
						seedType.ScientificName,
						seedType.PlantingSeason,
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
}

func newSeedTypesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one seed type",
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

			seedType, err := client.SeedTypes().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get seed type: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(seedType)
			case OutputFormatYAML:
				return printYAML(seedType)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")
				table.Append("ID", strconv.Itoa(seedType.ID))
				table.Append("Name", seedType.Name)
				table.Append("Scientific name", seedType.ScientificName)
				table.Append("Description", seedType.Description)
				table.Append("Planting season", seedType.PlantingSeason)
				table.Append("Active", strconv.FormatBool(seedType.IsActive))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}
