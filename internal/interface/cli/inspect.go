package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/repairflow/internal/application/usecase/order"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode a checkpoint file and show the order it holds",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := order.NewInspectCheckpointUseCase(a.fs).Execute(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "order %d: %s\n", snap.OrderNumber, snap.Label())
			fmt.Fprintf(w, "  vehicle: %s\n", snap.Vehicle)
			if snap.DamageDescription != nil {
				fmt.Fprintf(w, "  damage: %s\n", *snap.DamageDescription)
			}
			fmt.Fprintf(w, "  customer: debt=%t banned=%t\n", snap.Customer.HasOutstandingDebt, snap.Customer.IsBanned)
			if inv, ok := snap.State.(repair.Invalid); ok {
				for _, e := range inv.ValidationErrors {
					fmt.Fprintf(w, "  - %s\n", e)
				}
			}
			if snap.Label().IsTerminal() {
				fmt.Fprintln(w, "  terminal: no further transitions")
			}
			return nil
		},
	}
}
