package btree

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus counters for structural tree events. A nil
// *Metrics disables instrumentation; Tree checks for nil before every
// counter update, so the zero-cost default requires no plumbing from
// callers who don't want metrics.
type Metrics struct {
	splits         prometheus.Counter
	collapses      prometheus.Counter
	iterContention prometheus.Counter
}

// NewMetrics constructs a Metrics instance and registers its counters with
// reg. namespace and subsystem follow Prometheus naming convention and are
// typically the process name and "btree".
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	m := &Metrics{
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "root_splits_total",
			Help:      "Number of times the tree root split, growing the tree by one level.",
		}),
		collapses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "root_collapses_total",
			Help:      "Number of times the tree root collapsed into its only child, shrinking the tree by one level.",
		}),
		iterContention: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterator_latch_contention_total",
			Help:      "Number of times an iterator's non-blocking sibling latch handoff failed.",
		}),
	}
	reg.MustRegister(m.splits, m.collapses, m.iterContention)
	return m
}
