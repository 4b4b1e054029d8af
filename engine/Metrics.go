package engine

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records transaction outcomes of an engine.
type Metrics struct {
	Transactions     *prometheus.CounterVec
	Synchronizations prometheus.Counter
}

// NewMetrics creates engine metrics and registers them with the registerer.
// The default registerer is used when reg is nil.
//
// Collectors already registered by an earlier call are reused, so engines
// sharing a registerer share their counters.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "txservices",
		Subsystem: "engine",
		Name:      "transactions_total",
		Help:      "Total number of transactions by outcome.",
	}, []string{"outcome"})
	synchronizations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "txservices",
		Subsystem: "engine",
		Name:      "synchronizations_total",
		Help:      "Total number of completion listeners registered.",
	})

	if err := register(reg, transactions, &transactions); err != nil {
		return nil, err
	}
	if err := register(reg, synchronizations, &synchronizations); err != nil {
		return nil, err
	}

	return &Metrics{Transactions: transactions, Synchronizations: synchronizations}, nil
}

// register registers c, pointing existing at the collector registered before
// when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, existing *C) error {

	err := reg.Register(c)
	if err == nil {
		return nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("engine: cannot register metrics: %w", err)
	}

	prev, ok := are.ExistingCollector.(C)
	if !ok {
		return fmt.Errorf("engine: cannot register metrics: %w", err)
	}
	*existing = prev

	return nil
}

func (m *Metrics) begun() {
	if m != nil {
		m.Transactions.WithLabelValues("begun").Inc()
	}
}

func (m *Metrics) committed() {
	if m != nil {
		m.Transactions.WithLabelValues("committed").Inc()
	}
}

func (m *Metrics) rolledBack() {
	if m != nil {
		m.Transactions.WithLabelValues("rolled_back").Inc()
	}
}

func (m *Metrics) synchronized() {
	if m != nil {
		m.Synchronizations.Inc()
	}
}
