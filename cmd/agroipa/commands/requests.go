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

// NewRequestsCommand creates the requests command group.
func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"seed-requests"},
		Short:   "Manage seed requests",
	}

	cmd.AddCommand(newRequestsListCommand())
	cmd.AddCommand(newRequestsGetCommand())
	cmd.AddCommand(newRequestsCreateCommand())
	cmd.AddCommand(newRequestsUpdateCommand())
	cmd.AddCommand(newRequestsDeleteCommand())
	cmd.AddCommand(newRequestsApproveCommand())
	cmd.AddCommand(newRequestsRejectCommand())
	cmd.AddCommand(newRequestsDeliveredCommand())

	return cmd
}

// resolveStatusFilter accepts both API statuses and the product's display
// strings (Pendente, Em Análise, Aprovado, Rejeitado, Entregue).
func resolveStatusFilter(status string) (agro.RequestStatus, error) {
	if status == "" {
		return "", nil
	}

	if mapped, ok := agro.MapDisplayToStatus(status); ok {
		return mapped, nil
	}

	switch agro.RequestStatus(status) {
	case agro.RequestStatusPending, agro.RequestStatusUnderReview,
		agro.RequestStatusApproved, agro.RequestStatusRejected, agro.RequestStatusDelivered:
		return agro.RequestStatus(status), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatusFilter, status)
}

func newRequestsListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List seed requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveStatusFilter(status)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			filter := &agro.RequestFilter{Status: resolved}

			requests, err := client.SeedRequests().List(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("failed to list seed requests: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(requests)
			case OutputFormatYAML:
				return printYAML(requests)
			default:
				if len(requests) == 0 {
					fmt.Println("No seed requests found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Number", "Seed", "Variety", "Qty (kg)", "Requester", "Status", "Needed by")

				for _, request := range requests {
					table.Append(
						request.RequestNumber,
						request.SeedType.Name,
						request.Variety,
						fmt.Sprintf("%.1f", request.QuantityKg),
						request.RequesterName,
						agro.MapStatusToDisplay(request.Status),
						request.NeededByDate,
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (API value or display name)")

	return cmd
}

func newRequestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one seed request",
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

			request, err := client.SeedRequests().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get seed request: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return printJSON(request)
			case OutputFormatYAML:
				return printYAML(request)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")
				table.Append("ID", strconv.Itoa(request.ID))
				table.Append("Number", request.RequestNumber)
				table.Append("Seed type", request.SeedType.Name)
				table.Append("Variety", request.Variety)
				table.Append("Quantity (kg)", fmt.Sprintf("%.1f", request.QuantityKg))
				table.Append("Requester", request.RequesterName)
				table.Append("Organization", request.RequesterOrg)
				table.Append("Destination", request.DestinationAddress)
				table.Append("Needed by", request.NeededByDate)
				table.Append("Status", agro.MapStatusToDisplay(request.Status))
				table.Append("Created", request.CreatedAt.Format(constants.TimeFormat))
				table.Append("Updated", request.UpdatedAt.Format(constants.TimeFormat))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			}
		},
	}
}

func newRequestsCreateCommand() *cobra.Command {
	var (
		seedTypeID int
		variety    string
		quantity   float64
		requester  string
		org        string
		address    string
		neededBy   string
		justify    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a seed request",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			mutator, store := newMutator(client)
			defer store.Close()

			created, err := mutator.CreateSeedRequest(context.Background(), &agro.SeedRequestCreate{
				SeedTypeID:         seedTypeID,
				Variety:            variety,
				QuantityKg:         quantity,
				RequesterName:      requester,
				RequesterOrg:       org,
				DestinationAddress: address,
				NeededByDate:       neededBy,
				Justification:      justify,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Request number: %s\n", created.RequestNumber)

			return nil
		},
	}

	cmd.Flags().IntVar(&seedTypeID, "seed-type", 0, "seed type ID (required)")
	cmd.Flags().StringVar(&variety, "variety", "", "seed variety (required)")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "quantity in kg (required)")
	cmd.Flags().StringVar(&requester, "requester", "", "requester name (required)")
	cmd.Flags().StringVar(&org, "organization", "", "requester organization")
	cmd.Flags().StringVar(&address, "destination", "", "destination address (required)")
	cmd.Flags().StringVar(&neededBy, "needed-by", "", "date the seeds are needed by, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&justify, "justification", "", "request justification")

	return cmd
}

func newRequestsUpdateCommand() *cobra.Command {
	var (
		variety  string
		quantity float64
		address  string
		neededBy string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a seed request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			update := &agro.SeedRequestUpdate{}
			if cmd.Flags().Changed("variety") {
				update.Variety = &variety
			}

			if cmd.Flags().Changed("quantity") {
				update.QuantityKg = &quantity
			}

			if cmd.Flags().Changed("destination") {
				update.DestinationAddress = &address
			}

			if cmd.Flags().Changed("needed-by") {
				update.NeededByDate = &neededBy
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			mutator, store := newMutator(client)
			defer store.Close()

			_, err = mutator.UpdateSeedRequest(context.Background(), id, update)

			return err
		},
	}

	cmd.Flags().StringVar(&variety, "variety", "", "seed variety")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "quantity in kg")
	cmd.Flags().StringVar(&address, "destination", "", "destination address")
	cmd.Flags().StringVar(&neededBy, "needed-by", "", "date the seeds are needed by, YYYY-MM-DD")

	return cmd
}

func newRequestsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a seed request",
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

			return mutator.DeleteSeedRequest(context.Background(), id)
		},
	}
}

func newRequestsApproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a seed request",
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

			_, err = mutator.ApproveSeedRequest(context.Background(), id)

			return err
		},
	}
}

func newRequestsRejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a seed request",
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

			_, err = mutator.RejectSeedRequest(context.Background(), id, reason)

			return err
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")

	return cmd
}

func newRequestsDeliveredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delivered <id>",
		Short: "Mark an approved seed request as delivered",
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

			_, err = mutator.MarkDelivered(context.Background(), id)

			return err
		},
	}
}
