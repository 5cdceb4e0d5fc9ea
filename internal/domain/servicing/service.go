package servicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/branch"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

// DefaultPollInterval is how long to wait before asking for an idle technician again
const DefaultPollInterval = 30 * time.Minute

// ErrNoSteps indicates a work breakdown without any step
var ErrNoSteps = errors.New("work breakdown has no steps")

// Workshop supplies technicians and the work breakdown of a job
type Workshop interface {
	// FindIdleTechnician returns an idle technician, or ok=false when none is free yet
	FindIdleTechnician(ctx context.Context) (tech Technician, ok bool, err error)
	CalculateSteps(ctx context.Context, id repair.Identity) ([]string, error)
	PerformStep(ctx context.Context, tech Technician, step string) error
	ReleaseTechnician(ctx context.Context, tech Technician) error
}

// Cashier invoices jobs and confirms payment
type Cashier interface {
	Invoice(ctx context.Context, id repair.Identity) (string, error)
	// AwaitPayment blocks until the invoice is settled or ctx is done
	AwaitPayment(ctx context.Context, invoice string) error
}

// Option configures a Service
type Option func(*Service)

// WithPollInterval sets the technician polling interval
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithLogger sets the logger of the service
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service runs accepted jobs through the shop floor. Errors from the
// workshop, the cashier or ctx stop the run; the caller keeps the job it
// passed in, which is still well-formed.
type Service struct {
	workshop     Workshop
	cashier      Cashier
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewService creates a service over its collaborators
func NewService(workshop Workshop, cashier Cashier, opts ...Option) *Service {
	s := &Service{
		workshop:     workshop,
		cashier:      cashier,
		pollInterval: DefaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign waits for an idle technician and plans the work
func (s *Service) Assign(ctx context.Context, j Job[Valid]) (Job[InProgress], error) {
	tech, err := s.waitForTechnician(ctx, j.OrderNumber)
	if err != nil {
		return Job[InProgress]{}, err
	}

	steps, err := s.workshop.CalculateSteps(ctx, j.Identity)
	if err == nil && len(steps) == 0 {
		err = ErrNoSteps
	}
	if err != nil {
		if relErr := s.workshop.ReleaseTechnician(ctx, tech); relErr != nil {
			s.logger.Warn("failed to release technician", zap.String("technician", tech.Name), zap.Error(relErr))
		}
		return Job[InProgress]{}, fmt.Errorf("failed to calculate steps for order %d: %w", j.OrderNumber, err)
	}

	s.logger.Debug("technician assigned",
		zap.Uint64("order_number", j.OrderNumber),
		zap.String("technician", tech.Name),
		zap.Int("steps", len(steps)))
	return moveJob(j, InProgress{Technician: tech, StepsLeft: steps}), nil
}

func (s *Service) waitForTechnician(ctx context.Context, orderNumber uint64) (Technician, error) {
	for {
		tech, ok, err := s.workshop.FindIdleTechnician(ctx)
		if err != nil {
			return Technician{}, fmt.Errorf("failed to find technician: %w", err)
		}
		if ok {
			return tech, nil
		}

		s.logger.Debug("no idle technician, waiting",
			zap.Uint64("order_number", orderNumber),
			zap.Duration("poll_interval", s.pollInterval))

		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Technician{}, ctx.Err()
		case <-timer.C:
		}
	}
}

// Work performs every remaining step and frees the technician
func (s *Service) Work(ctx context.Context, j Job[InProgress]) (Job[WorkDone], error) {
	tech := j.State.Technician
	for i, step := range j.State.StepsLeft {
		if err := ctx.Err(); err != nil {
			return Job[WorkDone]{}, err
		}
		if err := s.workshop.PerformStep(ctx, tech, step); err != nil {
			return Job[WorkDone]{}, fmt.Errorf("step %d (%s) of order %d failed: %w", i+1, step, j.OrderNumber, err)
		}
	}

	if err := s.workshop.ReleaseTechnician(ctx, tech); err != nil {
		return Job[WorkDone]{}, fmt.Errorf("failed to release technician %s: %w", tech.Name, err)
	}
	return moveJob(j, WorkDone{Technician: tech}), nil
}

// SendInvoice bills the customer for the work
func (s *Service) SendInvoice(ctx context.Context, j Job[WorkDone]) (Job[WaitingForPayment], error) {
	invoice, err := s.cashier.Invoice(ctx, j.Identity)
	if err != nil {
		return Job[WaitingForPayment]{}, fmt.Errorf("failed to invoice order %d: %w", j.OrderNumber, err)
	}
	return moveJob(j, WaitingForPayment{Invoice: invoice}), nil
}

// AwaitPayment blocks until the invoice is settled
func (s *Service) AwaitPayment(ctx context.Context, j Job[WaitingForPayment]) (Job[Paid], error) {
	if err := s.cashier.AwaitPayment(ctx, j.State.Invoice); err != nil {
		return Job[Paid]{}, fmt.Errorf("payment of %s failed: %w", j.State.Invoice, err)
	}
	return moveJob(j, Paid{Invoice: j.State.Invoice}), nil
}

// Run services j with explicit dispatch on the validation branch
func (s *Service) Run(ctx context.Context, j Job[Accepted]) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	Validate(j).Switch(
		func(valid Job[Valid]) {
			var paid Job[Paid]
			paid, err = s.serve(ctx, valid)
			if err == nil {
				out = branch.Ok[Job[Paid], Job[Rejected]](paid)
				s.logger.Info("job paid",
					zap.Uint64("order_number", paid.OrderNumber),
					zap.String("invoice", paid.State.Invoice))
			}
		},
		func(rejected Job[Rejected]) {
			out = branch.Err[Job[Paid]](rejected)
			s.logger.Info("job rejected",
				zap.Uint64("order_number", rejected.OrderNumber),
				zap.Strings("validation_errors", rejected.State.ValidationErrors))
		},
	)
	return out, err
}

func (s *Service) serve(ctx context.Context, valid Job[Valid]) (Job[Paid], error) {
	inProgress, err := s.Assign(ctx, valid)
	if err != nil {
		return Job[Paid]{}, err
	}
	done, err := s.Work(ctx, inProgress)
	if err != nil {
		return Job[Paid]{}, err
	}
	waiting, err := s.SendInvoice(ctx, done)
	if err != nil {
		return Job[Paid]{}, err
	}
	return s.AwaitPayment(ctx, waiting)
}

// RunFluent services j as one chain of steps. It reaches the same outcome
// as Run.
func (s *Service) RunFluent(ctx context.Context, j Job[Accepted]) (Outcome, error) {
	var failure error
	out := branch.Map(Validate(j), func(v Job[Valid]) Job[Paid] {
		paid := then(ctx, then(ctx, then(ctx, then(ctx, attempt[Valid]{job: v}, s.Assign), s.Work), s.SendInvoice), s.AwaitPayment)
		failure = paid.err
		return paid.job
	})
	if failure != nil {
		return Outcome{}, failure
	}
	return out, nil
}

// attempt is a job in S or the error that stopped the chain before S
type attempt[S State] struct {
	job Job[S]
	err error
}

func then[S, T State](ctx context.Context, a attempt[S], step func(context.Context, Job[S]) (Job[T], error)) attempt[T] {
	if a.err != nil {
		return attempt[T]{err: a.err}
	}
	next, err := step(ctx, a.job)
	return attempt[T]{job: next, err: err}
}
