package ltable

// config.go defines the internal configuration object and the set of
// functional options New accepts: plain Option-folds-into-config shape,
// with no type parameters since Table is keyed by the fixed Key union
// rather than a generic K.
//
// Design notes
// ------------
// • All fields are initialised with sensible defaults in defaultConfig().
// • Options never allocate unless strictly necessary.
// • The struct itself is unexported: callers influence behaviour only
//   through Option, which keeps the door open for new knobs later.
//
// © 2025 ltable authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option is a functional option passed to New.
type Option func(*config)

// config bundles every knob that influences table behaviour beyond the
// value size New already takes positionally.
type config struct {
	registry *prometheus.Registry
	logger   *zap.Logger
	seed     uint32
}

func defaultConfig() *config {
	return &config{
		logger: zap.NewNop(),
	}
}

// WithMetrics enables Prometheus metrics collection for the table. Passing
// nil disables metrics (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithLogger plugs an external zap.Logger. The table never logs on the hot
// path (Get/Set/Delete/Next); only rehash events are emitted, at Debug.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSeed pins the table's hash seed to a caller-chosen nonzero value,
// making main-position placement (and therefore rehash timing) deterministic
// across runs — useful for reproducible tests and benchmarks. Passing 0 (the
// default) leaves the table to pick its own nonzero seed at New.
func WithSeed(seed uint32) Option {
	return func(c *config) { c.seed = seed }
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}
