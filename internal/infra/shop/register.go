package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/persistence/recordid"
)

// ErrUnknownInvoice indicates an invoice the register never issued
var ErrUnknownInvoice = errors.New("unknown invoice")

// Register issues invoices and waits for them to be paid
type Register struct {
	mu         sync.Mutex
	ids        *recordid.Generator
	pending    map[string]chan struct{}
	autoSettle bool
}

// NewRegister creates a register. With autoSettle every invoice counts as
// paid as soon as it is issued, like a customer paying at the counter.
func NewRegister(autoSettle bool) *Register {
	return &Register{
		ids:        recordid.New(),
		pending:    make(map[string]chan struct{}),
		autoSettle: autoSettle,
	}
}

// Invoice issues an invoice for the order
func (r *Register) Invoice(_ context.Context, id repair.Identity) (string, error) {
	suffix, err := r.ids.Next()
	if err != nil {
		return "", fmt.Errorf("failed to number invoice: %w", err)
	}
	invoice := fmt.Sprintf("INV-%d-%s", id.OrderNumber, suffix)

	paid := make(chan struct{})
	if r.autoSettle {
		close(paid)
	}

	r.mu.Lock()
	r.pending[invoice] = paid
	r.mu.Unlock()
	return invoice, nil
}

// Settle records the payment of invoice
func (r *Register) Settle(invoice string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	paid, ok := r.pending[invoice]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInvoice, invoice)
	}
	select {
	case <-paid:
	default:
		close(paid)
	}
	return nil
}

// AwaitPayment blocks until invoice is settled or ctx is done. A collected
// invoice is forgotten.
func (r *Register) AwaitPayment(ctx context.Context, invoice string) error {
	r.mu.Lock()
	paid, ok := r.pending[invoice]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInvoice, invoice)
	}

	select {
	case <-paid:
		r.mu.Lock()
		delete(r.pending, invoice)
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
