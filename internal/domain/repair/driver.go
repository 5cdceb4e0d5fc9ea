package repair

import (
	"context"

	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/branch"
)

// Terminal is the outcome of a complete run
type Terminal = branch.OneOf4[Order[Finished], Order[AprilFools], Order[Garbage], Order[Krangled]]

// Listener is notified after every transition the driver performs. A
// listener error stops the run; the order stays in the state the listener
// was told about.
type Listener interface {
	OnTransition(ctx context.Context, from StateLabel, to Snapshot) error
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(ctx context.Context, from StateLabel, to Snapshot) error

// OnTransition calls f
func (f ListenerFunc) OnTransition(ctx context.Context, from StateLabel, to Snapshot) error {
	return f(ctx, from, to)
}

// DriverOption configures a Driver
type DriverOption func(*Driver)

// WithListener registers a transition listener
func WithListener(l Listener) DriverOption {
	return func(d *Driver) { d.listeners = append(d.listeners, l) }
}

// WithLogger sets the logger of the driver
func WithLogger(logger *zap.Logger) DriverOption {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Driver takes a New order to one of the terminal states
type Driver struct {
	exec      *Executor
	listeners []Listener
	logger    *zap.Logger
}

// NewDriver creates a driver over exec
func NewDriver(exec *Executor, opts ...DriverOption) *Driver {
	if exec == nil {
		exec = NewExecutor(nil)
	}
	d := &Driver{exec: exec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Process runs o through the transition graph, dispatching explicitly on
// every branch. Errors come only from listeners or ctx; branch failures
// such as Krangled are terminal outcomes.
func (d *Driver) Process(ctx context.Context, o Order[New]) (Terminal, error) {
	var (
		end Terminal
		err error
	)
	d.exec.Validate(o).Switch(
		func(invalid Order[Invalid]) { end, err = advance(ctx, d, LabelNew, invalid, d.fromInvalid) },
		func(low Order[LowPriority]) { end, err = advance(ctx, d, LabelNew, low, d.fromLowPriority) },
		func(high Order[HighPriority]) { end, err = advance(ctx, d, LabelNew, high, d.fromHighPriority) },
		func(fools Order[AprilFools]) { end, err = advance(ctx, d, LabelNew, fools, d.endAprilFools) },
	)
	return end, err
}

// Resume re-enters the graph at the state held by s. Terminal and
// reserved states have no transitions and are rejected.
func (d *Driver) Resume(ctx context.Context, s Snapshot) (Terminal, error) {
	switch state := s.State.(type) {
	case nil:
		return Terminal{}, ErrEmptySnapshot
	case New:
		return d.Process(ctx, Order[New]{Identity: s.Identity, State: state})
	case Invalid:
		return d.fromInvalid(ctx, Order[Invalid]{Identity: s.Identity, State: state})
	case Recovered:
		return d.fromRecovered(ctx, Order[Recovered]{Identity: s.Identity, State: state})
	case LowPriority:
		return d.fromLowPriority(ctx, Order[LowPriority]{Identity: s.Identity, State: state})
	case HighPriority:
		return d.fromHighPriority(ctx, Order[HighPriority]{Identity: s.Identity, State: state})
	case WaitingForWorker:
		return d.fromWaitingForWorker(ctx, Order[WaitingForWorker]{Identity: s.Identity, State: state})
	case WaitingForPrinter:
		return d.fromWaitingForPrinter(ctx, Order[WaitingForPrinter]{Identity: s.Identity, State: state})
	case Finished, AprilFools, Garbage, Krangled:
		return Terminal{}, ErrTerminalState.WithDetails(map[string]interface{}{
			"order_number": s.OrderNumber,
			"state":        state.Label().String(),
		})
	case WaitingForFridayAfternoon, WorkInProgress:
		return Terminal{}, ErrReservedState.WithDetails(map[string]interface{}{
			"order_number": s.OrderNumber,
			"state":        state.Label().String(),
		})
	default:
		return Terminal{}, ErrUnknownState
	}
}

// ProcessFluent runs o as one linear composition. It only distinguishes
// overall success (Finished) from every other terminal outcome and reaches
// the same terminal state as Process. Listeners are not notified.
func (d *Driver) ProcessFluent(o Order[New]) branch.Result[Order[Finished], Terminal] {
	queued := branch.Match(d.exec.Validate(o),
		func(invalid Order[Invalid]) branch.Result[Order[WaitingForWorker], Terminal] {
			recovered := branch.MapErr(d.exec.Recover(invalid), KrangledOutcome)
			return branch.Map(recovered, func(r Order[Recovered]) Order[WaitingForWorker] {
				return d.obtainWorker(d.exec.Prioritize(r))
			})
		},
		func(low Order[LowPriority]) branch.Result[Order[WaitingForWorker], Terminal] {
			return branch.Ok[Order[WaitingForWorker], Terminal](d.obtainWorker(low))
		},
		func(high Order[HighPriority]) branch.Result[Order[WaitingForWorker], Terminal] {
			return branch.Ok[Order[WaitingForWorker], Terminal](d.exec.EnqueueHighPriority(high))
		},
		func(fools Order[AprilFools]) branch.Result[Order[WaitingForWorker], Terminal] {
			return branch.Err[Order[WaitingForWorker]](AprilFoolsOutcome(fools))
		},
	)

	printing := branch.Then(queued, func(w Order[WaitingForWorker]) branch.Result[Order[WaitingForPrinter], Terminal] {
		return branch.MapErr(d.exec.SendPrintJob(w), GarbageOutcome)
	})
	return branch.Map(printing, d.exec.Print)
}

// Settle folds a fluent result into the terminal outcome
func Settle(r branch.Result[Order[Finished], Terminal]) Terminal {
	return branch.Fold(r, FinishedOutcome, func(t Terminal) Terminal { return t })
}

// obtainWorker queues a low priority order, escalating it when needed
func (d *Driver) obtainWorker(low Order[LowPriority]) Order[WaitingForWorker] {
	return branch.Fold(d.exec.Enqueue(low),
		func(w Order[WaitingForWorker]) Order[WaitingForWorker] { return w },
		d.exec.EnqueueHighPriority,
	)
}

func (d *Driver) fromInvalid(ctx context.Context, o Order[Invalid]) (Terminal, error) {
	var (
		end Terminal
		err error
	)
	d.exec.Recover(o).Switch(
		func(r Order[Recovered]) { end, err = advance(ctx, d, LabelInvalid, r, d.fromRecovered) },
		func(k Order[Krangled]) { end, err = advance(ctx, d, LabelInvalid, k, d.endKrangled) },
	)
	return end, err
}

func (d *Driver) fromRecovered(ctx context.Context, o Order[Recovered]) (Terminal, error) {
	return advance(ctx, d, LabelRecovered, d.exec.Prioritize(o), d.fromLowPriority)
}

func (d *Driver) fromLowPriority(ctx context.Context, o Order[LowPriority]) (Terminal, error) {
	var (
		end Terminal
		err error
	)
	d.exec.Enqueue(o).Switch(
		func(w Order[WaitingForWorker]) { end, err = advance(ctx, d, LabelLowPriority, w, d.fromWaitingForWorker) },
		// escalation re-enters the graph through the high priority lane
		func(h Order[HighPriority]) { end, err = advance(ctx, d, LabelLowPriority, h, d.fromHighPriority) },
	)
	return end, err
}

func (d *Driver) fromHighPriority(ctx context.Context, o Order[HighPriority]) (Terminal, error) {
	return advance(ctx, d, LabelHighPriority, d.exec.EnqueueHighPriority(o), d.fromWaitingForWorker)
}

func (d *Driver) fromWaitingForWorker(ctx context.Context, o Order[WaitingForWorker]) (Terminal, error) {
	var (
		end Terminal
		err error
	)
	d.exec.SendPrintJob(o).Switch(
		func(p Order[WaitingForPrinter]) {
			end, err = advance(ctx, d, LabelWaitingForWorker, p, d.fromWaitingForPrinter)
		},
		func(g Order[Garbage]) { end, err = advance(ctx, d, LabelWaitingForWorker, g, d.endGarbage) },
	)
	return end, err
}

func (d *Driver) fromWaitingForPrinter(ctx context.Context, o Order[WaitingForPrinter]) (Terminal, error) {
	return advance(ctx, d, LabelWaitingForPrinter, d.exec.Print(o), d.endFinished)
}

func (d *Driver) endFinished(_ context.Context, o Order[Finished]) (Terminal, error) {
	return d.settled(FinishedOutcome(o)), nil
}

func (d *Driver) endAprilFools(_ context.Context, o Order[AprilFools]) (Terminal, error) {
	return d.settled(AprilFoolsOutcome(o)), nil
}

func (d *Driver) endGarbage(_ context.Context, o Order[Garbage]) (Terminal, error) {
	return d.settled(GarbageOutcome(o)), nil
}

func (d *Driver) endKrangled(_ context.Context, o Order[Krangled]) (Terminal, error) {
	return d.settled(KrangledOutcome(o)), nil
}

func (d *Driver) settled(t Terminal) Terminal {
	s := TerminalSnapshot(t)
	d.logger.Info("order reached terminal state",
		zap.Uint64("order_number", s.OrderNumber),
		zap.String("state", s.Label().String()))
	return t
}

// advance reports the transition into next, then continues from next
func advance[S State](
	ctx context.Context,
	d *Driver,
	from StateLabel,
	next Order[S],
	then func(context.Context, Order[S]) (Terminal, error),
) (Terminal, error) {
	snap := Capture(next)
	d.logger.Debug("transition",
		zap.Uint64("order_number", next.OrderNumber),
		zap.String("from", from.String()),
		zap.String("to", snap.Label().String()))

	for _, l := range d.listeners {
		if err := l.OnTransition(ctx, from, snap); err != nil {
			d.logger.Error("transition listener failed",
				zap.Uint64("order_number", next.OrderNumber),
				zap.String("state", snap.Label().String()),
				zap.Error(err))
			return Terminal{}, err
		}
	}

	// a cancelled run stops between transitions, never inside one
	if !snap.Label().IsTerminal() {
		if err := ctx.Err(); err != nil {
			return Terminal{}, err
		}
	}
	return then(ctx, next)
}

// FinishedOutcome wraps a finished order as a terminal outcome
func FinishedOutcome(o Order[Finished]) Terminal {
	return branch.OfA[Order[Finished], Order[AprilFools], Order[Garbage], Order[Krangled]](o)
}

// AprilFoolsOutcome wraps an april fools order as a terminal outcome
func AprilFoolsOutcome(o Order[AprilFools]) Terminal {
	return branch.OfB[Order[Finished], Order[AprilFools], Order[Garbage], Order[Krangled]](o)
}

// GarbageOutcome wraps a discarded order as a terminal outcome
func GarbageOutcome(o Order[Garbage]) Terminal {
	return branch.OfC[Order[Finished], Order[AprilFools], Order[Garbage], Order[Krangled]](o)
}

// KrangledOutcome wraps a krangled order as a terminal outcome
func KrangledOutcome(o Order[Krangled]) Terminal {
	return branch.OfD[Order[Finished], Order[AprilFools], Order[Garbage], Order[Krangled]](o)
}

// TerminalSnapshot captures the order inside a terminal outcome
func TerminalSnapshot(t Terminal) Snapshot {
	return branch.Match(t,
		Capture[Finished],
		Capture[AprilFools],
		Capture[Garbage],
		Capture[Krangled],
	)
}
