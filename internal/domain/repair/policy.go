package repair

import "fmt"

// Classification is the verdict of validating a New order
type Classification int

const (
	ClassifiedInvalid Classification = iota
	ClassifiedLowPriority
	ClassifiedHighPriority
	ClassifiedAprilFools
)

// String returns the string representation of the classification
func (c Classification) String() string {
	switch c {
	case ClassifiedInvalid:
		return "invalid"
	case ClassifiedLowPriority:
		return "low_priority"
	case ClassifiedHighPriority:
		return "high_priority"
	case ClassifiedAprilFools:
		return "april_fools"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Policy decides every branching transition. Implementations must be pure
// functions of the order identity.
type Policy interface {
	// Classify picks the validation outcome of a New order
	Classify(id Identity) Classification

	// ValidationErrors explains why an order was classified invalid
	ValidationErrors(id Identity) []string

	// Recoverable reports whether an Invalid order can be recovered
	Recoverable(id Identity) bool

	// Enqueueable reports whether a low priority order obtains a worker slot
	Enqueueable(id Identity) bool

	// PrintReady reports whether the paperwork of a waiting order can be printed
	PrintReady(id Identity) bool
}

// DefaultRecoveryLimit is the order number below which invalid orders recover
const DefaultRecoveryLimit = 1000

// ReferencePolicy is the deterministic reference rule set. Its thresholds
// are placeholders kept for reproducible runs; production deployments
// inject their own Policy.
type ReferencePolicy struct {
	RecoveryLimit uint64
}

// NewReferencePolicy creates a reference policy with the default recovery limit
func NewReferencePolicy() ReferencePolicy {
	return ReferencePolicy{RecoveryLimit: DefaultRecoveryLimit}
}

// Classify maps order_number mod 4 to {invalid, low, high, april fools}
func (p ReferencePolicy) Classify(id Identity) Classification {
	switch id.OrderNumber % 4 {
	case 0:
		return ClassifiedInvalid
	case 1:
		return ClassifiedLowPriority
	case 2:
		return ClassifiedHighPriority
	default:
		return ClassifiedAprilFools
	}
}

// ValidationErrors lists customer problems and the classification reason
func (p ReferencePolicy) ValidationErrors(id Identity) []string {
	var errs []string
	if id.Customer.HasOutstandingDebt {
		errs = append(errs, "Customer has outstanding debt")
	}
	if id.Customer.IsBanned {
		errs = append(errs, "Customer is banned from the shop")
	}
	errs = append(errs, fmt.Sprintf("Order number %d failed classification", id.OrderNumber))
	return errs
}

// Recoverable holds for order numbers below the recovery limit
func (p ReferencePolicy) Recoverable(id Identity) bool {
	return id.OrderNumber < p.recoveryLimit()
}

// Enqueueable holds for order numbers divisible by 3
func (p ReferencePolicy) Enqueueable(id Identity) bool {
	return id.OrderNumber%3 == 0
}

// PrintReady holds for even order numbers
func (p ReferencePolicy) PrintReady(id Identity) bool {
	return id.OrderNumber%2 == 0
}

func (p ReferencePolicy) recoveryLimit() uint64 {
	if p.RecoveryLimit == 0 {
		return DefaultRecoveryLimit
	}
	return p.RecoveryLimit
}
