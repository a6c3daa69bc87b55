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

// NewAgentsCommand creates the agents command group.
func NewAgentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage field agents",
	}

	cmd.AddCommand(newAgentsListCommand())
	cmd.AddCommand(newAgentsGetCommand())
	cmd.AddCommand(newAgentsLocateCommand())

	return cmd
}

func newAgentsListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List field agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			filter := &agro.AgentFilter{}
			if activeOnly {
				active := true
				filter.IsActive = &active
			}

			agents, err := client.Agents().List(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(agents)
			case OutputFormatYAML:
				return printYAML(agents)
			default:
				if len(agents) == 0 {
					fmt.Println("No agents found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Phone", "Position", "Route", "Active")

				for _, agent := range agents {
					position := ""
					if agent.CurrentLatitude != nil && agent.CurrentLongitude != nil {
						position = fmt.Sprintf("%.5f, %.5f", *agent.CurrentLatitude, *agent.CurrentLongitude)
					}

					route := ""
					if agent.CurrentRoute != nil {
						route = agent.CurrentRoute.Name
					}

					active := "yes"
					if !agent.IsActive {
						active = "no"
					}

					table.Append(strconv.Itoa(agent.ID), agent.Name, agent.Phone, position, route, active)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active agents")

	return cmd
}

func newAgentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one field agent",
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

			agent, err := client.Agents().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get agent: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(agent)
			case OutputFormatYAML:
				return printYAML(agent)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")
				table.Append("ID", strconv.Itoa(agent.ID))
				table.Append("Name", agent.Name)
				table.Append("Phone", agent.Phone)

				if agent.CurrentLatitude != nil && agent.CurrentLongitude != nil {
					table.Append("Position", fmt.Sprintf("%.6f, %.6f", *agent.CurrentLatitude, *agent.CurrentLongitude))
				}

				if agent.CurrentRoute != nil {
					table.Append("Route", fmt.Sprintf("%s [%s]", agent.CurrentRoute.Name, agent.CurrentRoute.Status))
				}

				table.Append("Active", strconv.FormatBool(agent.IsActive))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}

func newAgentsLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <id> <lat> <lng>",
		Short: "Report an agent's current position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			lat, err := parseCoord(args[1])
			if err != nil {
				return err
			}

			lng, err := parseCoord(args[2])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			mutator, store := newMutator(client)
			defer store.Close()

			_, err = mutator.UpdateAgentLocation(context.Background(), id, lat, lng)

			return err
		},
	}
}
