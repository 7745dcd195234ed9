package flowcore

import (
	"errors"
	"strings"
	"sync/atomic"
)

// errTerminated marks an AtomicError slot whose contents have been taken.
// It never leaks to callers: Add reports false and Terminate returns nil once
// the slot is terminated.
var errTerminated = errors.New(Namespace + ": error slot terminated")

// AtomicError is a slot accumulating errors reported concurrently by multiple
// goroutines, yielding them exactly once. The first Add stores the error
// directly; later Adds compose into a CombinedError preserving every cause.
// Terminate atomically takes and seals the slot: exactly one caller observes
// the accumulated contents, all others (and all later Adds) see a sealed
// slot.
//
// The zero value is an empty slot ready for use. Never copy after first use.
type AtomicError struct {
	err atomic.Pointer[error]
}

// Add composes err into the slot and reports whether it was accepted. It
// returns false once the slot has been terminated; such late errors must be
// routed to the Dropped hook by the caller.
func (a *AtomicError) Add(err error) bool {
	for {
		cur := a.err.Load()
		if cur != nil && errors.Is(*cur, errTerminated) {
			return false
		}
		var next error
		if cur == nil {
			next = err
		} else {
			next = combineErrors(*cur, err)
		}
		if a.err.CompareAndSwap(cur, &next) {
			return true
		}
	}
}

// Terminate atomically takes the slot contents and seals the slot. The first
// caller receives whatever was accumulated (nil if nothing was); concurrent
// and subsequent callers receive nil. Any Add that completed before the call
// is included in the result.
func (a *AtomicError) Terminate() error {
	cur := a.err.Load()
	if cur != nil && errors.Is(*cur, errTerminated) {
		return nil
	}
	old := a.err.Swap(&errTerminated)
	if old == nil || errors.Is(*old, errTerminated) {
		return nil
	}
	return *old
}

// IsTerminated reports whether the slot has been sealed by Terminate.
func (a *AtomicError) IsTerminated() bool {
	cur := a.err.Load()
	return cur != nil && errors.Is(*cur, errTerminated)
}

// Load returns the currently accumulated error without taking it, or nil if
// the slot is empty or terminated.
func (a *AtomicError) Load() error {
	cur := a.err.Load()
	if cur == nil || errors.Is(*cur, errTerminated) {
		return nil
	}
	return *cur
}

// combineErrors folds two errors into a single CombinedError, flattening
// existing aggregates so causes stay at one level.
func combineErrors(a, b error) error {
	var causes []error
	if c, ok := a.(*CombinedError); ok {
		causes = append(causes, c.causes...)
	} else {
		causes = append(causes, a)
	}
	if c, ok := b.(*CombinedError); ok {
		causes = append(causes, c.causes...)
	} else {
		causes = append(causes, b)
	}
	return &CombinedError{causes: causes}
}

// CombinedError aggregates errors reported by multiple concurrent sources
// into one terminal error. Arrival order under concurrency is not guaranteed,
// but no cause is ever dropped. It participates in errors.Is/As through
// Unwrap.
type CombinedError struct {
	causes []error
}

// Causes returns the aggregated causes. The returned slice must not be
// mutated.
func (e *CombinedError) Causes() []error { return e.causes }

func (e *CombinedError) Error() string {
	var b strings.Builder
	b.WriteString(Namespace + ": multiple errors: ")
	for i, c := range e.causes {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(c.Error())
	}
	return b.String()
}

// Unwrap exposes every cause to errors.Is and errors.As.
func (e *CombinedError) Unwrap() []error { return e.causes }
