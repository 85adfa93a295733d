// Package metrics holds the Prometheus collectors for the ledger service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitledger"

// Metrics groups every collector the service reports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExpensesCreated    *prometheus.CounterVec
	ExpensesRejected   *prometheus.CounterVec
	SettlementsCreated prometheus.Counter
	BalanceDuration    prometheus.Histogram
	GuardBlocks        *prometheus.CounterVec
	RPCRequests        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExpensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, by split type.",
		}, []string{"split_type"}),
		ExpensesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Expenses rejected by split validation, by reason.",
		}, []string{"reason"}),
		SettlementsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_created_total",
			Help:      "Settlements recorded.",
		}),
		BalanceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_computation_seconds",
			Help:      "Time spent replaying a group ledger into balances.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		GuardBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_blocks_total",
			Help:      "Destructive operations blocked by outstanding balances, by operation.",
		}, []string{"operation"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(
		m.ExpensesCreated,
		m.ExpensesRejected,
		m.SettlementsCreated,
		m.BalanceDuration,
		m.GuardBlocks,
		m.RPCRequests,
	)
	return m
}

func (m *Metrics) ExpenseCreated(splitType string) {
	if m == nil {
		return
	}
	m.ExpensesCreated.WithLabelValues(splitType).Inc()
}

func (m *Metrics) ExpenseRejected(reason string) {
	if m == nil {
		return
	}
	m.ExpensesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SettlementCreated() {
	if m == nil {
		return
	}
	m.SettlementsCreated.Inc()
}

func (m *Metrics) ObserveBalance(start time.Time) {
	if m == nil {
		return
	}
	m.BalanceDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) GuardBlocked(operation string) {
	if m == nil {
		return
	}
	m.GuardBlocks.WithLabelValues(operation).Inc()
}

func (m *Metrics) RPC(procedure, code string) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
}
