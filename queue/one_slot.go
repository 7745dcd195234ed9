package queue

import "sync/atomic"

// OneSlot buffers at most one value. The occupancy flag carries the
// happens-before edge between the producer's write and the consumer's read.
type OneSlot[T any] struct {
	v    T
	full atomic.Bool
}

// NewOneSlot creates a single-slot queue.
func NewOneSlot[T any]() *OneSlot[T] {
	return &OneSlot[T]{}
}

func (q *OneSlot[T]) Offer(v T) bool {
	if q.full.Load() {
		return false
	}
	q.v = v
	q.full.Store(true)
	return true
}

func (q *OneSlot[T]) Poll() (T, bool) {
	if !q.full.Load() {
		var zero T
		return zero, false
	}
	v := q.v
	var zero T
	q.v = zero
	q.full.Store(false)
	return v, true
}

func (q *OneSlot[T]) IsEmpty() bool {
	return !q.full.Load()
}

func (q *OneSlot[T]) Clear() {
	var zero T
	q.v = zero
	q.full.Store(false)
}
