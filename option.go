package btree

// defaultLeafCapacity and defaultInternalCapacity match the original's
// tuning for in-memory nodes sized for cache-line-friendly scans rather
// than a disk page.
const (
	defaultLeafCapacity     = 64
	defaultInternalCapacity = 64
)

// options holds Tree construction configuration, built up by Option
// functions and consumed once by NewTree.
type options[K any, V any] struct {
	leafCapacity     int
	internalCapacity int
	logger           Logger
	metrics          *Metrics
}

func defaultOptions[K any, V any]() options[K, V] {
	return options[K, V]{
		leafCapacity:     defaultLeafCapacity,
		internalCapacity: defaultInternalCapacity,
		logger:           DiscardLogger{},
	}
}

// Option configures a Tree using the functional options pattern.
type Option[K any, V any] func(*options[K, V])

// WithLeafCapacity sets the maximum number of key/value pairs a leaf may
// hold before splitting. Must be at least 2.
//
//goland:noinspection GoUnusedExportedFunction
func WithLeafCapacity[K any, V any](capacity int) Option[K, V] {
	return func(o *options[K, V]) {
		o.leafCapacity = capacity
	}
}

// WithInternalCapacity sets the maximum number of children an internal node
// may hold before splitting. Must be at least 2.
//
//goland:noinspection GoUnusedExportedFunction
func WithInternalCapacity[K any, V any](capacity int) Option[K, V] {
	return func(o *options[K, V]) {
		o.internalCapacity = capacity
	}
}

// WithLogger sets the Logger used for root splits, root collapses, iterator
// latch contention and early iterator closes. Defaults to DiscardLogger.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger[K any, V any](logger Logger) Option[K, V] {
	return func(o *options[K, V]) {
		o.logger = logger
	}
}

// WithMetrics wires a Metrics instance for Prometheus instrumentation of
// root splits, root collapses and iterator contention. Defaults to nil, which
// disables instrumentation entirely.
//
//goland:noinspection GoUnusedExportedFunction
func WithMetrics[K any, V any](m *Metrics) Option[K, V] {
	return func(o *options[K, V]) {
		o.metrics = m
	}
}
