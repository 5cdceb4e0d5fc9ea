package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/application/dto"
	"github.com/YoshitsuguKoike/repairflow/internal/application/port/output"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/checkpoint"
)

// ProcessOrderUseCase drives repair orders and checkpoints them as they go
type ProcessOrderUseCase struct {
	exec      *repair.Executor
	codec     *checkpoint.Codec
	store     output.CheckpointStore
	listeners []repair.Listener
	logger    *zap.Logger
}

// NewProcessOrderUseCase creates a new ProcessOrderUseCase. Extra listeners,
// such as a metrics collector, see every transition after it is recorded.
func NewProcessOrderUseCase(
	exec *repair.Executor,
	codec *checkpoint.Codec,
	store output.CheckpointStore,
	logger *zap.Logger,
	listeners ...repair.Listener,
) *ProcessOrderUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessOrderUseCase{
		exec:      exec,
		codec:     codec,
		store:     store,
		listeners: listeners,
		logger:    logger,
	}
}

// Execute creates a New order from in and drives it to a terminal state
func (u *ProcessOrderUseCase) Execute(ctx context.Context, in dto.ProcessOrderInput) (*dto.ProcessOrderOutput, repair.Terminal, error) {
	o, err := repair.NewOrder(in.OrderNumber, in.Vehicle, in.DamageDescription, repair.Customer{
		HasOutstandingDebt: in.HasOutstandingDebt,
		IsBanned:           in.IsBanned,
	})
	if err != nil {
		return nil, repair.Terminal{}, fmt.Errorf("invalid order: %w", err)
	}

	rec := &recorder{codec: u.codec, store: u.store}
	if err := rec.record(ctx, repair.Capture(o)); err != nil {
		return nil, repair.Terminal{}, err
	}

	end, err := u.driver(rec).Process(ctx, o)
	if err != nil {
		return nil, repair.Terminal{}, fmt.Errorf("failed to process order %d: %w", in.OrderNumber, err)
	}
	return u.output(end, rec, ""), end, nil
}

// Resume continues an order from its newest checkpoint. Orders whose newest
// checkpoint is terminal are rejected with repair.ErrTerminalState.
func (u *ProcessOrderUseCase) Resume(ctx context.Context, orderNumber uint64) (*dto.ProcessOrderOutput, repair.Terminal, error) {
	latest, err := u.store.Latest(ctx, orderNumber)
	if err != nil {
		return nil, repair.Terminal{}, fmt.Errorf("failed to load checkpoint of order %d: %w", orderNumber, err)
	}

	snap, err := u.decode(latest)
	if err != nil {
		return nil, repair.Terminal{}, err
	}
	if snap.OrderNumber != orderNumber {
		return nil, repair.Terminal{}, fmt.Errorf("%w: checkpoint %s belongs to order %d", checkpoint.ErrFormat, latest.ID, snap.OrderNumber)
	}

	u.logger.Info("resuming order",
		zap.Uint64("order_number", orderNumber),
		zap.String("state", snap.Label().String()),
		zap.String("checkpoint_id", latest.ID))

	rec := &recorder{codec: u.codec, store: u.store}
	end, err := u.driver(rec).Resume(ctx, snap)
	if err != nil {
		return nil, repair.Terminal{}, fmt.Errorf("failed to resume order %d: %w", orderNumber, err)
	}
	return u.output(end, rec, snap.Label().String()), end, nil
}

// History lists every checkpoint of the order, oldest first
func (u *ProcessOrderUseCase) History(ctx context.Context, orderNumber uint64) ([]dto.CheckpointDTO, error) {
	records, err := u.store.History(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of order %d: %w", orderNumber, err)
	}
	if len(records) == 0 {
		return nil, output.ErrCheckpointNotFound
	}

	entries := make([]dto.CheckpointDTO, 0, len(records))
	for _, r := range records {
		entry := dto.CheckpointDTO{ID: r.ID, State: r.State, Format: r.Format, CreatedAt: r.CreatedAt}
		snap, err := u.decode(r)
		if err != nil {
			entry.Summary = "unreadable: " + err.Error()
		} else {
			entry.Summary = snap.String()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (u *ProcessOrderUseCase) driver(rec *recorder) *repair.Driver {
	opts := []repair.DriverOption{repair.WithLogger(u.logger), repair.WithListener(rec)}
	for _, l := range u.listeners {
		opts = append(opts, repair.WithListener(l))
	}
	return repair.NewDriver(u.exec, opts...)
}

// decode reads a record in the format it was written in. Stored records
// always carry their label, so any of them may be read back whatever
// granularity is configured now.
func (u *ProcessOrderUseCase) decode(r *output.CheckpointRecord) (repair.Snapshot, error) {
	codec, err := checkpoint.NewCodec(checkpoint.EveryStep, checkpoint.Format(r.Format))
	if err != nil {
		return repair.Snapshot{}, fmt.Errorf("%w: checkpoint %s: %v", checkpoint.ErrFormat, r.ID, err)
	}

	snap, err := codec.Decode(r.Data)
	if err != nil {
		return repair.Snapshot{}, fmt.Errorf("checkpoint %s: %w", r.ID, err)
	}
	if snap.Label().String() != r.State {
		return repair.Snapshot{}, fmt.Errorf("%w: checkpoint %s is labeled %s but holds %s",
			checkpoint.ErrFormat, r.ID, r.State, snap.Label())
	}
	return snap, nil
}

func (u *ProcessOrderUseCase) output(end repair.Terminal, rec *recorder, resumedFrom string) *dto.ProcessOrderOutput {
	final := repair.TerminalSnapshot(end)
	return &dto.ProcessOrderOutput{
		OrderNumber:   final.OrderNumber,
		FinalState:    final.Label().String(),
		CheckpointIDs: rec.ids,
		ResumedFrom:   resumedFrom,
	}
}

// recorder stores a checkpoint for every state the codec covers
type recorder struct {
	codec *checkpoint.Codec
	store output.CheckpointStore
	ids   []string
}

func (r *recorder) OnTransition(ctx context.Context, _ repair.StateLabel, to repair.Snapshot) error {
	return r.record(ctx, to)
}

func (r *recorder) record(ctx context.Context, s repair.Snapshot) error {
	if !r.codec.Covers(s.Label()) {
		return nil
	}
	data, err := r.codec.Encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	id, err := r.store.Append(ctx, s.OrderNumber, s.Label().String(), string(r.codec.Format()), data)
	if err != nil {
		return fmt.Errorf("failed to store checkpoint: %w", err)
	}
	r.ids = append(r.ids, id)
	return nil
}

// IsAlreadySettled reports whether err came from resuming a terminal order
func IsAlreadySettled(err error) bool {
	return errors.Is(err, repair.ErrTerminalState)
}
