package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var number uint64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the stored checkpoints of an order",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := a.processOrder()
			if err != nil {
				return err
			}

			entries, err := uc.History(cmd.Context(), number)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-18s %-4s %s  %s\n",
					e.ID, e.State, e.Format, e.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"), e.Summary)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&number, "number", 0, "Order number")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}
