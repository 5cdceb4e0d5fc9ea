package repair

import "github.com/YoshitsuguKoike/repairflow/internal/domain/branch"

// Classified is the outcome of validating a New order
type Classified = branch.OneOf4[Order[Invalid], Order[LowPriority], Order[HighPriority], Order[AprilFools]]

// Executor implements every state-to-state operation of a repair order.
// Each method takes an order in exactly one source state and returns the
// next state or a typed branch; none of them has side effects.
type Executor struct {
	policy Policy
}

// NewExecutor creates an executor deciding branches with policy.
// A nil policy selects the reference policy.
func NewExecutor(policy Policy) *Executor {
	if policy == nil {
		policy = NewReferencePolicy()
	}
	return &Executor{policy: policy}
}

// Validate classifies a New order
func (x *Executor) Validate(o Order[New]) Classified {
	switch x.policy.Classify(o.Identity) {
	case ClassifiedInvalid:
		invalid := Invalid{ValidationErrors: x.policy.ValidationErrors(o.Identity)}
		return branch.OfA[Order[Invalid], Order[LowPriority], Order[HighPriority], Order[AprilFools]](WithState(o, invalid))
	case ClassifiedLowPriority:
		return branch.OfB[Order[Invalid], Order[LowPriority], Order[HighPriority], Order[AprilFools]](WithState(o, LowPriority{}))
	case ClassifiedHighPriority:
		return branch.OfC[Order[Invalid], Order[LowPriority], Order[HighPriority], Order[AprilFools]](WithState(o, HighPriority{}))
	default:
		return branch.OfD[Order[Invalid], Order[LowPriority], Order[HighPriority], Order[AprilFools]](WithState(o, AprilFools{}))
	}
}

// Recover retries an Invalid order; it either recovers or is krangled for good
func (x *Executor) Recover(o Order[Invalid]) branch.Result[Order[Recovered], Order[Krangled]] {
	if x.policy.Recoverable(o.Identity) {
		return branch.Ok[Order[Recovered], Order[Krangled]](WithState(o, Recovered{}))
	}
	return branch.Err[Order[Recovered]](WithState(o, Krangled{}))
}

// Prioritize reclassifies a recovered order as low priority
func (x *Executor) Prioritize(o Order[Recovered]) Order[LowPriority] {
	return WithState(o, LowPriority{})
}

// Enqueue queues a low priority order for a worker. When no slot is
// available the order is escalated to high priority instead of dropped.
func (x *Executor) Enqueue(o Order[LowPriority]) branch.Result[Order[WaitingForWorker], Order[HighPriority]] {
	if x.policy.Enqueueable(o.Identity) {
		return branch.Ok[Order[WaitingForWorker], Order[HighPriority]](WithState(o, WaitingForWorker{}))
	}
	return branch.Err[Order[WaitingForWorker]](WithState(o, HighPriority{}))
}

// EnqueueHighPriority queues a high priority order; it always gets a slot
func (x *Executor) EnqueueHighPriority(o Order[HighPriority]) Order[WaitingForWorker] {
	return WithState(o, WaitingForWorker{})
}

// SendPrintJob sends the paperwork of a queued order to the printer, or
// discards the order when it is not print-ready
func (x *Executor) SendPrintJob(o Order[WaitingForWorker]) branch.Result[Order[WaitingForPrinter], Order[Garbage]] {
	if x.policy.PrintReady(o.Identity) {
		return branch.Ok[Order[WaitingForPrinter], Order[Garbage]](WithState(o, WaitingForPrinter{}))
	}
	return branch.Err[Order[WaitingForPrinter]](WithState(o, Garbage{}))
}

// Print completes the paperwork of an order waiting for the printer
func (x *Executor) Print(o Order[WaitingForPrinter]) Order[Finished] {
	return WithState(o, Finished{})
}
