package flowcore

import "errors"

const Namespace = "flowcore"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrOverflow is reported when a bounded queue rejects a value because the
	// upstream produced more than was requested.
	ErrOverflow = errors.New(Namespace + ": queue overflow, upstream ignored backpressure")

	// ErrQueueFailure wraps a panic raised by a queue operation during a
	// drain. It always terminates the affected consumer, regardless of the
	// delay-error setting.
	ErrQueueFailure = errors.New(Namespace + ": queue operation failed")

	// ErrCallbackPanicked wraps a panic raised by a user-supplied callback
	// handler.
	ErrCallbackPanicked = errors.New(Namespace + ": callback handler panicked")
)
