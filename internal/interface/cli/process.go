package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/application/dto"
	"github.com/YoshitsuguKoike/repairflow/internal/application/usecase/order"
)

type processOptions struct {
	number  uint64
	vehicle string
	damage  string
	debt    bool
	banned  bool
	service bool
	json    bool
}

func newProcessCmd(a *app) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a new repair order to a terminal state",
		Long: "Process creates a New repair order, drives it through validation, " +
			"queueing and printing, and checkpoints it with the configured granularity. " +
			"With --service a finished order continues through the shop floor until paid.",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := a.processOrder()
			if err != nil {
				return err
			}

			in := dto.ProcessOrderInput{
				OrderNumber:        opts.number,
				Vehicle:            opts.vehicle,
				HasOutstandingDebt: opts.debt,
				IsBanned:           opts.banned,
			}
			if cmd.Flags().Changed("damage") {
				in.DamageDescription = &opts.damage
			}

			out, end, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			var serviced *dto.ServiceOrderOutput
			if opts.service {
				serviced, err = a.serviceOrder().Execute(cmd.Context(), end)
				if errors.Is(err, order.ErrNotServiceable) {
					a.logger.Info("order not serviced", zap.Uint64("order_number", out.OrderNumber), zap.Error(err))
					err = nil
				}
				if err != nil {
					return err
				}
			}

			return printProcessResult(cmd.OutOrStdout(), out, serviced, opts.json)
		},
	}

	cmd.Flags().Uint64Var(&opts.number, "number", 0, "Order number")
	cmd.Flags().StringVar(&opts.vehicle, "vehicle", "", "Vehicle to repair")
	cmd.Flags().StringVar(&opts.damage, "damage", "", "Description of the damage")
	cmd.Flags().BoolVar(&opts.debt, "debt", false, "Customer has outstanding debt")
	cmd.Flags().BoolVar(&opts.banned, "banned", false, "Customer is banned from the shop")
	cmd.Flags().BoolVar(&opts.service, "service", false, "Service the order after it finishes")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the result in JSON format")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("vehicle")

	return cmd
}

func printProcessResult(w io.Writer, out *dto.ProcessOrderOutput, serviced *dto.ServiceOrderOutput, asJSON bool) error {
	if asJSON {
		b, err := json.Marshal(struct {
			Order     *dto.ProcessOrderOutput `json:"order"`
			Servicing *dto.ServiceOrderOutput `json:"servicing,omitempty"`
		}{out, serviced})
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	fmt.Fprintf(w, "order %d: %s\n", out.OrderNumber, out.FinalState)
	if serviced != nil {
		switch serviced.FinalState {
		case "Paid":
			fmt.Fprintf(w, "order %d: %s (%s)\n", serviced.OrderNumber, serviced.FinalState, serviced.Invoice)
		default:
			fmt.Fprintf(w, "order %d: %s %v\n", serviced.OrderNumber, serviced.FinalState, serviced.ValidationErrors)
		}
	}
	return nil
}
