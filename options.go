package flowcore

import (
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/flowcore/metrics"
)

// config holds Forwarder configuration.
type config struct {
	// CapacityHint selects the buffering strategy via queue.New: negative for
	// the unbounded chunked queue, 1 for the single-slot queue, other
	// positive values for the bounded ring.
	// Default: 0 (bounded ring at queue.DefaultCapacity)
	CapacityHint int

	// DelayError defers error delivery until all buffered values have been
	// emitted. When false (default), a known error preempts buffered values.
	DelayError bool

	// Metrics receives drain instrumentation. Default: noop.
	Metrics metrics.Provider

	// Resource is an optional external resource released exactly once when a
	// terminal state is reached.
	Resource Disposable
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		CapacityHint: 0,
		DelayError:   false,
		Metrics:      metrics.NewNoopProvider(),
		Resource:     nil,
	}
}

// Option configures a Forwarder. Invalid input surfaces as an error from the
// constructor instead of panicking.
type Option func(*config) error

// WithCapacityHint sets the queue selection hint (see queue.New for the
// selection rules).
func WithCapacityHint(hint int) Option {
	return func(cfg *config) error { cfg.CapacityHint = hint; return nil }
}

// WithDelayError defers error delivery until the buffered values drain.
func WithDelayError() Option {
	return func(cfg *config) error { cfg.DelayError = true; return nil }
}

// WithMetrics installs a metrics provider recording drain instrumentation
// (must be non-nil).
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithResource attaches an external resource (must be non-nil) released
// exactly once on terminal resolution.
func WithResource(d Disposable) Option {
	return func(cfg *config) error {
		if d == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithResource requires a non-nil disposable"))
		}
		cfg.Resource = d
		return nil
	}
}
