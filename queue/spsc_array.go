package queue

import "sync/atomic"

// SpscArray is the fixed-capacity ring. The producer owns the produce index,
// the consumer owns the consume index; each side publishes its progress
// atomically, which is what gives the other side visibility of written or
// freed slots.
type SpscArray[T any] struct {
	buf  []T
	mask int64

	produced atomic.Int64
	consumed atomic.Int64
}

// NewSpscArray creates a bounded SPSC ring holding at least capacity values.
// The internal buffer is rounded up to a power of two.
func NewSpscArray[T any](capacity int) *SpscArray[T] {
	n := roundPow2(capacity)
	return &SpscArray[T]{
		buf:  make([]T, n),
		mask: int64(n - 1),
	}
}

func (q *SpscArray[T]) Offer(v T) bool {
	p := q.produced.Load()
	if p-q.consumed.Load() > q.mask {
		return false
	}
	q.buf[p&q.mask] = v
	q.produced.Store(p + 1)
	return true
}

func (q *SpscArray[T]) Poll() (T, bool) {
	c := q.consumed.Load()
	if c == q.produced.Load() {
		var zero T
		return zero, false
	}
	v := q.buf[c&q.mask]
	var zero T
	q.buf[c&q.mask] = zero
	q.consumed.Store(c + 1)
	return v, true
}

func (q *SpscArray[T]) IsEmpty() bool {
	return q.consumed.Load() == q.produced.Load()
}

func (q *SpscArray[T]) Clear() {
	for {
		if _, ok := q.Poll(); !ok {
			return
		}
	}
}
