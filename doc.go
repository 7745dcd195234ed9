// Package flowcore provides the concurrency-coordination primitives that a
// backpressure-aware reactive-stream engine is built from: serialized
// queue-draining, terminal-state resolution under concurrent mutation, SPSC
// buffering strategies, and lossless accumulation of concurrently reported
// errors.
//
// Signals (values, an error, completion, cancellation) may arrive on one
// operator instance from any number of goroutines, but only one goroutine at
// a time may emit downstream. That serialization is achieved without locks
// through the work-in-progress counter (Wip): the goroutine that transitions
// the counter from zero owns the drain loop, and any signal arriving while it
// runs merely increments the counter, which the owner observes on Leave and
// keeps draining. Non-owning goroutines never block.
//
// Building blocks
//   - Wip: atomic drain-ownership counter (Enter / TryEnter / Leave).
//   - AtomicError: an error slot supporting concurrent Add and an atomic,
//     exactly-once Terminate; aggregates preserve every cause.
//   - queue.New: selects a single-slot, bounded ring, or growable chunked
//     SPSC queue from a capacity hint.
//   - Forwarder: the serialized consumer combining all of the above; it
//     implements Subscriber toward its upstream and Subscription toward its
//     downstream, with immediate-error or delay-error termination semantics.
//   - Callbacks: adapts plain onNext/onError/onComplete functions into a
//     conforming Subscriber with a cancellation handle.
//
// Error discipline
// Errors reported after a terminal signal are never delivered and never
// silently discarded; they go to the process-wide hook (SetDroppedHandler).
// Errors tagged with Fatal bypass accumulation entirely and re-raise as
// panics, since continuing to process signals after an unrecoverable failure
// is unsafe.
//
// The package defines no schedulers, timers, or stream operators; those are
// layered on top of this core by callers.
package flowcore
