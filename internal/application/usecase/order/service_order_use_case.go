package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/application/dto"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/branch"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/servicing"
)

// ErrNotServiceable indicates a terminal outcome other than Finished
var ErrNotServiceable = errors.New("only finished orders can be serviced")

// ServicingObserver is told how each servicing run ended
type ServicingObserver interface {
	ObserveServicing(state string)
}

// ServiceOrderUseCase takes finished orders through the shop floor
type ServiceOrderUseCase struct {
	service  *servicing.Service
	observer ServicingObserver
	logger   *zap.Logger
}

// NewServiceOrderUseCase creates a new ServiceOrderUseCase; observer may be nil
func NewServiceOrderUseCase(service *servicing.Service, observer ServicingObserver, logger *zap.Logger) *ServiceOrderUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceOrderUseCase{service: service, observer: observer, logger: logger}
}

// Execute services the order inside end, which must be Finished
func (u *ServiceOrderUseCase) Execute(ctx context.Context, end repair.Terminal) (*dto.ServiceOrderOutput, error) {
	finished, ok := end.Get().(repair.Order[repair.Finished])
	if !ok {
		s := repair.TerminalSnapshot(end)
		return nil, fmt.Errorf("%w: order %d ended %s", ErrNotServiceable, s.OrderNumber, s.Label())
	}

	out, err := u.service.Run(ctx, servicing.Accept(finished))
	if err != nil {
		u.logger.Error("servicing failed", zap.Uint64("order_number", finished.OrderNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to service order %d: %w", finished.OrderNumber, err)
	}

	result := branch.Fold(out,
		func(paid servicing.Job[servicing.Paid]) *dto.ServiceOrderOutput {
			return &dto.ServiceOrderOutput{
				OrderNumber: paid.OrderNumber,
				FinalState:  paid.Label().String(),
				Invoice:     paid.State.Invoice,
			}
		},
		func(rejected servicing.Job[servicing.Rejected]) *dto.ServiceOrderOutput {
			return &dto.ServiceOrderOutput{
				OrderNumber:      rejected.OrderNumber,
				FinalState:       rejected.Label().String(),
				ValidationErrors: rejected.State.ValidationErrors,
			}
		},
	)
	if u.observer != nil {
		u.observer.ObserveServicing(result.FinalState)
	}
	return result, nil
}
