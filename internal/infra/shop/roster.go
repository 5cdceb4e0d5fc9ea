// Package shop provides in-process reference adapters for the workshop and
// cashier collaborators of the servicing lifecycle.
package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/servicing"
)

// ErrNotAssigned indicates work or a release by a technician who holds no job
var ErrNotAssigned = errors.New("technician is not assigned")

// Roster tracks which technicians are busy
type Roster struct {
	mu     sync.Mutex
	names  []string
	busy   map[string]bool
	logger *zap.Logger
}

// NewRoster creates a roster of idle technicians
func NewRoster(names []string, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{
		names:  append([]string(nil), names...),
		busy:   make(map[string]bool, len(names)),
		logger: logger,
	}
}

// FindIdleTechnician assigns the first idle technician in roster order
func (r *Roster) FindIdleTechnician(ctx context.Context) (servicing.Technician, bool, error) {
	if err := ctx.Err(); err != nil {
		return servicing.Technician{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.names {
		if !r.busy[name] {
			r.busy[name] = true
			return servicing.Technician{Name: name}, true, nil
		}
	}
	return servicing.Technician{}, false, nil
}

// CalculateSteps plans the work for an order
func (r *Roster) CalculateSteps(_ context.Context, id repair.Identity) ([]string, error) {
	steps := []string{"inspect " + id.Vehicle}
	if id.DamageDescription != nil && *id.DamageDescription != "" {
		steps = append(steps, "repair "+*id.DamageDescription)
	}
	return append(steps, "test drive"), nil
}

// PerformStep does one step of work
func (r *Roster) PerformStep(ctx context.Context, tech servicing.Technician, step string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.isBusy(tech.Name) {
		return fmt.Errorf("%w: %s", ErrNotAssigned, tech.Name)
	}
	r.logger.Debug("step performed", zap.String("technician", tech.Name), zap.String("step", step))
	return nil
}

// ReleaseTechnician marks the technician idle again
func (r *Roster) ReleaseTechnician(_ context.Context, tech servicing.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.busy[tech.Name] {
		return fmt.Errorf("%w: %s", ErrNotAssigned, tech.Name)
	}
	delete(r.busy, tech.Name)
	return nil
}

func (r *Roster) isBusy(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[name]
}
