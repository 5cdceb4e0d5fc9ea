package shop

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/domain/servicing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRoster_AssignsAndReleases(t *testing.T) {
	ctx := context.Background()
	r := NewRoster([]string{"alice", "bob"}, nil)

	first, ok, err := r.FindIdleTechnician(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", first.Name)

	second, ok, err := r.FindIdleTechnician(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bob", second.Name)

	_, ok, err = r.FindIdleTechnician(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "everyone is busy")

	require.NoError(t, r.PerformStep(ctx, first, "inspect"))
	require.NoError(t, r.ReleaseTechnician(ctx, first))
	assert.ErrorIs(t, r.PerformStep(ctx, first, "inspect"), ErrNotAssigned)
	assert.ErrorIs(t, r.ReleaseTechnician(ctx, first), ErrNotAssigned)

	again, ok, err := r.FindIdleTechnician(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", again.Name)
}

func TestRoster_CalculateSteps(t *testing.T) {
	r := NewRoster([]string{"alice"}, nil)
	damage := "broken mirror"

	steps, err := r.CalculateSteps(context.Background(), repair.Identity{Vehicle: "Saab", DamageDescription: &damage})
	require.NoError(t, err)
	assert.Equal(t, []string{"inspect Saab", "repair broken mirror", "test drive"}, steps)

	steps, err = r.CalculateSteps(context.Background(), repair.Identity{Vehicle: "Saab"})
	require.NoError(t, err)
	assert.Len(t, steps, 2)
}

func TestRegister_AutoSettle(t *testing.T) {
	ctx := context.Background()
	r := NewRegister(true)

	invoice, err := r.Invoice(ctx, repair.Identity{OrderNumber: 2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invoice, "INV-2-"))
	assert.NoError(t, r.Settle(invoice), "settling twice is harmless")
	assert.NoError(t, r.AwaitPayment(ctx, invoice))

	assert.Empty(t, r.pending)
	assert.ErrorIs(t, r.Settle(invoice), ErrUnknownInvoice)
}

func TestRegister_AwaitsSettlement(t *testing.T) {
	r := NewRegister(false)
	invoice, err := r.Invoice(context.Background(), repair.Identity{OrderNumber: 6})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.AwaitPayment(context.Background(), invoice) }()

	require.NoError(t, r.Settle(invoice))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("payment was not observed")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.pending)
}

func TestRegister_AwaitHonoursContext(t *testing.T) {
	r := NewRegister(false)
	invoice, err := r.Invoice(context.Background(), repair.Identity{OrderNumber: 6})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.AwaitPayment(ctx, invoice), context.DeadlineExceeded)

	assert.ErrorIs(t, r.AwaitPayment(context.Background(), "INV-nope"), ErrUnknownInvoice)
	assert.ErrorIs(t, r.Settle("INV-nope"), ErrUnknownInvoice)
}

func TestAdapters_ServeAJob(t *testing.T) {
	o, err := repair.NewOrder(2, "Volvo", nil, repair.Customer{})
	require.NoError(t, err)

	roster := NewRoster([]string{"alice"}, nil)
	svc := servicing.NewService(roster, NewRegister(true), servicing.WithPollInterval(time.Millisecond))

	out, err := svc.Run(context.Background(), servicing.Accept(repair.WithState(o, repair.Finished{})))
	require.NoError(t, err)
	assert.True(t, out.IsOk())

	_, ok, err := roster.FindIdleTechnician(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "technician is released after the job")
}
