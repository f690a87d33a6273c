// Package metrics wraps a small prometheus registry for the ingestion
// pipeline, supplementing (not replacing) its per-drain log lines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nodeplugins/esindex/internal/queue"
)

// Metrics holds the gauges/counters/histograms the pipeline updates.
type Metrics struct {
	QueueDepth    *prometheus.GaugeVec
	DrainDuration prometheus.Histogram
	StoreErrors   *prometheus.CounterVec
	DroppedByGate prometheus.Counter
}

// New registers and returns a fresh Metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the default
// global registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "esindex",
			Name:      "queue_depth",
			Help:      "Current number of buffered events per stream.",
		}, []string{"stream"}),
		DrainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "esindex",
			Name:      "drain_duration_seconds",
			Help:      "Wall-clock time to process one stream's drained batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esindex",
			Name:      "store_errors_total",
			Help:      "Document store operation failures, by error kind.",
		}, []string{"kind"}),
		DroppedByGate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "esindex",
			Name:      "start_block_gate_skipped_total",
			Help:      "Events seen before the start-block gate tripped.",
		}),
	}
	reg.MustRegister(m.QueueDepth, m.DrainDuration, m.StoreErrors, m.DroppedByGate)
	return m
}

// StreamName renders a queue.Stream as the metric label used above.
func StreamName(s queue.Stream) string {
	switch s {
	case queue.StreamTransactionTrace:
		return "transaction_trace"
	case queue.StreamAcceptedTransaction:
		return "accepted_transaction"
	case queue.StreamAcceptedBlock:
		return "accepted_block"
	case queue.StreamIrreversibleBlock:
		return "irreversible_block"
	default:
		return "unknown"
	}
}
