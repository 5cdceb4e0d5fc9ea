package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/repairflow/internal/application/usecase/order"
)

func newResumeCmd(a *app) *cobra.Command {
	var number uint64

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume an order from its newest checkpoint",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := a.processOrder()
			if err != nil {
				return err
			}

			out, _, err := uc.Resume(cmd.Context(), number)
			if order.IsAlreadySettled(err) {
				return fmt.Errorf("order %d already reached a terminal state: %w", number, err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order %d: %s (resumed from %s)\n", out.OrderNumber, out.FinalState, out.ResumedFrom)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&number, "number", 0, "Order number")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}
