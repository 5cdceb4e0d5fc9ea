package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

func TestCollector_CountsDriverRun(t *testing.T) {
	c := NewCollector()
	d := repair.NewDriver(nil, repair.WithListener(c))

	o, err := repair.NewOrder(4, "Volvo", nil, repair.Customer{})
	require.NoError(t, err)
	_, err = d.Process(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, 7, testutil.CollectAndCount(c.transitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("LowPriority", "HighPriority")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.outcomes.WithLabelValues("Finished")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.outcomes.WithLabelValues("Garbage")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.ObserveServicing("Paid")

	path := filepath.Join(t.TempDir(), "repairflow.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `repairflow_servicing_outcomes_total{state="Paid"} 1`)
}
