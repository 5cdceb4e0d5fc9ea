// Package metrics counts repair transitions and outcomes with prometheus.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

// Collector is a driver listener that counts transitions and terminal outcomes
type Collector struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	servicing   *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repairflow",
			Name:      "transitions_total",
			Help:      "Repair order transitions by source and target state.",
		}, []string{"from", "to"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repairflow",
			Name:      "outcomes_total",
			Help:      "Repair orders that reached a terminal state.",
		}, []string{"state"}),
		servicing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repairflow",
			Name:      "servicing_outcomes_total",
			Help:      "Servicing jobs by final state.",
		}, []string{"state"}),
	}
	c.registry.MustRegister(c.transitions, c.outcomes, c.servicing)
	return c
}

// OnTransition implements repair.Listener
func (c *Collector) OnTransition(_ context.Context, from repair.StateLabel, to repair.Snapshot) error {
	label := to.Label()
	c.transitions.WithLabelValues(from.String(), label.String()).Inc()
	if label.IsTerminal() {
		c.outcomes.WithLabelValues(label.String()).Inc()
	}
	return nil
}

// ObserveServicing counts a servicing job that ended in state
func (c *Collector) ObserveServicing(state string) {
	c.servicing.WithLabelValues(state).Inc()
}

// Registry returns the registry holding the counters
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the counters in the prometheus text format, for
// node_exporter's textfile collector
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
