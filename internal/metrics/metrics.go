// Package metrics exposes Prometheus instrumentation for bills and receipt scans.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the bill service.
type Metrics struct {
	// Bills created.
	BillsCreated prometheus.Counter

	// Successful bill mutations by operation.
	Mutations *prometheus.CounterVec

	// Summaries recomputed after a read or mutation.
	Summaries prometheus.Counter

	// Scan outcomes: ok, empty, cancelled, or an upstream failure class.
	ScanOutcome *prometheus.CounterVec

	// Round trip to the scanning service.
	ScanLatency prometheus.Histogram
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitbill_bills_created_total",
			Help: "Total bills created",
		}),

		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbill_bill_mutations_total",
			Help: "Total successful bill mutations by operation",
		}, []string{"operation"}),

		Summaries: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitbill_summaries_computed_total",
			Help: "Total bill summaries computed",
		}),

		ScanOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbill_scan_outcomes_total",
			Help: "Total receipt scans by outcome",
		}, []string{"outcome"}),

		ScanLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbill_scan_duration_seconds",
			Help:    "Duration of receipt scans including image preparation",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
	}
}

// IncrementBillsCreated records a new bill.
func (m *Metrics) IncrementBillsCreated() {
	if m != nil {
		m.BillsCreated.Inc()
	}
}

// IncrementMutation records a committed change to a bill.
func (m *Metrics) IncrementMutation(operation string) {
	if m != nil {
		m.Mutations.WithLabelValues(operation).Inc()
	}
}

// IncrementSummaries records a recomputed summary.
func (m *Metrics) IncrementSummaries() {
	if m != nil {
		m.Summaries.Inc()
	}
}

// ObserveScan records the outcome and duration of a scan.
func (m *Metrics) ObserveScan(outcome string, d time.Duration) {
	if m != nil {
		m.ScanOutcome.WithLabelValues(outcome).Inc()
		m.ScanLatency.Observe(d.Seconds())
	}
}
